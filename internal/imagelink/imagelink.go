// Package imagelink turns product thumbnails into markdown image links.
package imagelink

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/seller-cli/internal/platform"
)

// Width is the display width written into every link.
const Width = 150

// sourceAttrs are tried in order; lazy-loading pages keep the real URL in a
// data attribute.
var sourceAttrs = []string{"src", "data-src", "data-original"}

// Source returns the first non-empty image URL of img.
func Source(ctx context.Context, doc platform.Document, img platform.Ref) (string, error) {
	for _, name := range sourceAttrs {
		v, ok, err := doc.Attr(ctx, img, name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		if ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	return "", nil
}

// Normalize strips the thumbnail suffix so the link points at the full
// image.
func Normalize(url string) string {
	return strings.TrimSuffix(url, "_tn")
}

// Markdown formats url as a sized markdown image.
func Markdown(url string) string {
	return fmt.Sprintf("![|%d](%s)", Width, url)
}

// Link is one image found on the page.
type Link struct {
	Ref      string `yaml:"-"        json:"-"`
	Source   string `yaml:"source"   json:"source"`
	URL      string `yaml:"url"      json:"url"`
	Markdown string `yaml:"markdown" json:"markdown"`
}

// Collect reads every image matching selector. Images without a source are
// left out.
func Collect(ctx context.Context, doc platform.Document, selector string) ([]Link, error) {
	if selector == "" {
		selector = "img"
	}
	imgs, err := doc.QueryAll(ctx, "", selector)
	if err != nil {
		return nil, err
	}
	var links []Link
	for _, img := range imgs {
		src, err := Source(ctx, doc, img)
		if err != nil {
			return nil, err
		}
		if src == "" {
			continue
		}
		url := Normalize(src)
		links = append(links, Link{Ref: string(img), Source: src, URL: url, Markdown: Markdown(url)})
	}
	return links, nil
}

// Join renders links one per line.
func Join(links []Link) string {
	lines := make([]string, len(links))
	for i, l := range links {
		lines[i] = l.Markdown
	}
	return strings.Join(lines, "\n")
}
