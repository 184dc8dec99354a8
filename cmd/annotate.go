package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/seller-cli/internal/model"
	"github.com/mj1618/seller-cli/internal/platform"
)

// markBox is one rectangle to draw on a screenshot. Bounds are viewport CSS
// pixels [x, y, w, h].
type markBox struct {
	Bounds [4]int
	Label  string
	Color  color.RGBA
}

var (
	colorSuccess = color.RGBA{R: 0, G: 170, B: 0, A: 255}
	colorFailure = color.RGBA{R: 220, G: 0, B: 0, A: 255}
	colorSkip    = color.RGBA{R: 230, G: 160, B: 0, A: 255}
	colorMark    = color.RGBA{R: 0, G: 110, B: 230, A: 255}
)

// outcomeBoxes turns row results into boxes around their checkboxes. Rows
// whose control was never measured are left out.
func outcomeBoxes(rows []model.RowResult) []markBox {
	var boxes []markBox
	for _, r := range rows {
		if r.Bounds[2] == 0 && r.Bounds[3] == 0 {
			continue
		}
		c := colorSkip
		switch r.Outcome {
		case model.OutcomeSuccess:
			c = colorSuccess
		case model.OutcomeFailure:
			c = colorFailure
		}
		boxes = append(boxes, markBox{Bounds: r.Bounds, Label: r.Identifier, Color: c})
	}
	return boxes
}

// annotate draws boxes on img. viewport is the CSS size the image covers;
// device pixel ratio is derived from it.
func annotate(img image.Image, boxes []markBox, viewport platform.Rect) *image.RGBA {
	rgba := imageToRGBA(img)

	b := img.Bounds()
	scaleX, scaleY := 1.0, 1.0
	if viewport.Width > 0 {
		scaleX = float64(b.Dx()) / viewport.Width
	}
	if viewport.Height > 0 {
		scaleY = float64(b.Dy()) / viewport.Height
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, box := range boxes {
		x := int(float64(box.Bounds[0]) * scaleX)
		y := int(float64(box.Bounds[1]) * scaleY)
		w := int(float64(box.Bounds[2]) * scaleX)
		h := int(float64(box.Bounds[3]) * scaleY)
		// Two-pixel frame, a little outside the control.
		drawRectangle(rgba, x-2, y-2, x+w+2, y+h+2, box.Color)
		drawRectangle(rgba, x-3, y-3, x+w+3, y+h+3, box.Color)
		if box.Label != "" {
			drawText(rgba, box.Label, x+w+6, y+h/2+4, white, box.Color)
		}
	}
	return rgba
}

func imageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	x1, y1 = max(x1, bounds.Min.X), max(y1, bounds.Min.Y)
	x2, y2 = min(x2, bounds.Max.X), min(y2, bounds.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawText writes text with its baseline at (x, y), outlined in outline.
func drawText(img *image.RGBA, text string, x, y int, textColor, outline color.Color) {
	draw1 := func(dx, dy int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+dx, y+dy),
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				draw1(dx, dy, outline)
			}
		}
	}
	draw1(0, 0, textColor)
}

// renderAnnotated takes a viewport screenshot and draws boxes on it.
func renderAnnotated(ctx context.Context, shots platform.Screenshotter, boxes []markBox) ([]byte, error) {
	if shots == nil {
		return nil, fmt.Errorf("screenshots are not supported by this backend")
	}
	data, viewport, err := shots.CaptureViewport(ctx)
	if err != nil {
		return nil, err
	}
	if len(boxes) == 0 {
		return data, nil
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, annotate(img, boxes, viewport)); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

// captureAnnotated writes an annotated screenshot to path.
func captureAnnotated(ctx context.Context, shots platform.Screenshotter, boxes []markBox, path string) error {
	data, err := renderAnnotated(ctx, shots, boxes)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
