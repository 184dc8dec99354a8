package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mj1618/seller-cli/internal/model"
	"github.com/mj1618/seller-cli/internal/platform"
)

func TestOutcomeBoxes(t *testing.T) {
	rows := []model.RowResult{
		{Identifier: "A", Outcome: model.OutcomeSuccess, Bounds: [4]int{1, 2, 3, 4}},
		{Identifier: "B", Outcome: model.OutcomeFailure, Bounds: [4]int{5, 6, 7, 8}},
		{Identifier: "C", Outcome: model.OutcomeSkip, Bounds: [4]int{9, 9, 9, 9}},
		{Identifier: "D", Outcome: model.OutcomeSkip, Reason: model.ReasonControlMissing},
	}
	boxes := outcomeBoxes(rows)
	if len(boxes) != 3 {
		t.Fatalf("boxes = %+v", boxes)
	}
	want := []color.RGBA{colorSuccess, colorFailure, colorSkip}
	for i, b := range boxes {
		if b.Color != want[i] {
			t.Errorf("box %d colour = %v, want %v", i, b.Color, want[i])
		}
		if b.Label != rows[i].Identifier {
			t.Errorf("box %d label = %q", i, b.Label)
		}
	}
}

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestAnnotateScalesToDevicePixels(t *testing.T) {
	img := whiteImage(200, 200)
	// 100x100 CSS viewport on a 2x display.
	out := annotate(img, []markBox{{Bounds: [4]int{20, 20, 10, 10}, Color: colorMark}}, platform.Rect{Width: 100, Height: 100})

	if got := out.RGBAAt(38, 38); got != colorMark {
		t.Errorf("frame corner = %v, want %v", got, colorMark)
	}
	if got := out.RGBAAt(50, 50); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("inside the box = %v, want white", got)
	}
	if got := img.RGBAAt(38, 38); got != (color.RGBA{255, 255, 255, 255}) {
		t.Error("source image was modified")
	}
}

func TestDrawRectangleClamps(t *testing.T) {
	img := whiteImage(10, 10)
	drawRectangle(img, -5, -5, 50, 50, colorFailure)
	if img.RGBAAt(0, 0) != colorFailure || img.RGBAAt(9, 9) != colorFailure {
		t.Error("frame should be clamped to the image edges")
	}
	if img.RGBAAt(5, 5) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("interior should be untouched")
	}
}

type fakeShots struct {
	img      image.Image
	viewport platform.Rect
}

func (f fakeShots) CaptureViewport(ctx context.Context) ([]byte, platform.Rect, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.img); err != nil {
		return nil, platform.Rect{}, err
	}
	return buf.Bytes(), f.viewport, nil
}

func TestCaptureAnnotated(t *testing.T) {
	shots := fakeShots{img: whiteImage(40, 40), viewport: platform.Rect{Width: 40, Height: 40}}
	path := filepath.Join(t.TempDir(), "out.png")

	err := captureAnnotated(context.Background(), shots, []markBox{{Bounds: [4]int{10, 10, 5, 5}, Color: colorSuccess}}, path)
	if err != nil {
		t.Fatalf("captureAnnotated: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(8, 8).RGBA()
	if r>>8 != 0 || g>>8 != 170 || b>>8 != 0 {
		t.Errorf("pixel at frame = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestRenderAnnotatedWithoutScreenshotter(t *testing.T) {
	if _, err := renderAnnotated(context.Background(), nil, nil); err == nil {
		t.Error("expected an error without a screenshotter")
	}
}
