// Package static implements platform.Document over a saved HTML page.
//
// The page is parsed once with goquery and kept in memory. Reads see every
// write made through the Document, so a saved seller-center page can be
// driven end to end without a browser: a synthetic click on a checkbox
// input flips its checked state the way a browser's default action would.
package static

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mj1618/seller-cli/internal/platform"
	"github.com/mj1618/seller-cli/internal/platform/clipboard"
)

func init() {
	platform.Register("static", func(ctx context.Context, opts platform.OpenOptions) (*platform.Provider, error) {
		if opts.HTMLPath == "" {
			return nil, fmt.Errorf("static backend requires --html")
		}
		doc, err := Load(opts.HTMLPath)
		if err != nil {
			return nil, err
		}
		if opts.URL != "" {
			doc.SetURL(opts.URL)
		}
		return platform.NewProvider(doc, doc, nil, clipboard.New(), nil), nil
	})
}

// DispatchedEvent records an event delivered through Dispatch.
type DispatchedEvent struct {
	Ref   platform.Ref
	Event platform.Event
}

// Document is an in-memory page. It is safe for concurrent use; Flash
// removals run on their own timers.
type Document struct {
	mu      sync.Mutex
	doc     *goquery.Document
	url     string
	nodes   []*html.Node
	refs    map[*html.Node]platform.Ref
	checked map[*html.Node]bool
	events  []DispatchedEvent
	writes  int

	// ToggleOnClick controls whether a click flips checkbox inputs. Turn it
	// off to model a page whose framework swallows synthetic clicks.
	ToggleOnClick bool
}

// Load parses the HTML file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page snapshot: %w", err)
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		d.url = "file://" + filepath.ToSlash(abs)
	}
	return d, nil
}

// Parse reads an HTML page from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		doc:           doc,
		refs:          make(map[*html.Node]platform.Ref),
		checked:       make(map[*html.Node]bool),
		ToggleOnClick: true,
	}, nil
}

// FromString parses an HTML page held in memory.
func FromString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// SetURL overrides the location reported by URL.
func (d *Document) SetURL(u string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = u
}

// ref returns the reference for n, allocating one the first time n is seen.
func (d *Document) ref(n *html.Node) platform.Ref {
	if r, ok := d.refs[n]; ok {
		return r
	}
	d.nodes = append(d.nodes, n)
	r := platform.Ref("s" + strconv.Itoa(len(d.nodes)-1))
	d.refs[n] = r
	return r
}

func (d *Document) node(ref platform.Ref) (*html.Node, error) {
	s := string(ref)
	if !strings.HasPrefix(s, "s") {
		return nil, fmt.Errorf("invalid element reference %q", ref)
	}
	i, err := strconv.Atoi(s[1:])
	if err != nil || i < 0 || i >= len(d.nodes) {
		return nil, fmt.Errorf("invalid element reference %q", ref)
	}
	return d.nodes[i], nil
}

func (d *Document) selection(ref platform.Ref) (*goquery.Selection, error) {
	if ref == "" {
		return d.doc.Selection, nil
	}
	n, err := d.node(ref)
	if err != nil {
		return nil, err
	}
	return d.doc.FindNodes(n), nil
}

// QueryAll implements platform.Document.
func (d *Document) QueryAll(ctx context.Context, scope platform.Ref, selector string) ([]platform.Ref, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	root, err := d.selection(scope)
	if err != nil {
		return nil, err
	}
	var refs []platform.Ref
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		refs = append(refs, d.ref(s.Nodes[0]))
	})
	return refs, nil
}

// Text implements platform.Document.
func (d *Document) Text(ctx context.Context, ref platform.Ref) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.selection(ref)
	if err != nil {
		return "", err
	}
	return s.Text(), nil
}

// Attr implements platform.Document.
func (d *Document) Attr(ctx context.Context, ref platform.Ref, name string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.selection(ref)
	if err != nil {
		return "", false, err
	}
	v, ok := s.Attr(name)
	return v, ok, nil
}

// Checked implements platform.Document. The initial state comes from the
// checked attribute.
func (d *Document) Checked(ctx context.Context, ref platform.Ref) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.node(ref)
	if err != nil {
		return false, err
	}
	return d.isChecked(n), nil
}

func (d *Document) isChecked(n *html.Node) bool {
	if v, ok := d.checked[n]; ok {
		return v
	}
	for _, a := range n.Attr {
		if a.Key == "checked" {
			return true
		}
	}
	return false
}

// Bounds implements platform.Document. A saved page has no layout, so the
// rectangle comes from an optional data-bounds="x,y,w,h" attribute.
func (d *Document) Bounds(ctx context.Context, ref platform.Ref) (platform.Rect, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.node(ref)
	if err != nil {
		return platform.Rect{}, err
	}
	for _, a := range n.Attr {
		if a.Key == "data-bounds" {
			return parseBounds(a.Val)
		}
	}
	return platform.Rect{}, nil
}

func parseBounds(s string) (platform.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return platform.Rect{}, fmt.Errorf("invalid data-bounds %q: expected x,y,w,h", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return platform.Rect{}, fmt.Errorf("invalid data-bounds %q: %w", s, err)
		}
		v[i] = f
	}
	return platform.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// Dispatch implements platform.Document.
func (d *Document) Dispatch(ctx context.Context, ref platform.Ref, ev platform.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.node(ref)
	if err != nil {
		return err
	}
	d.writes++
	d.events = append(d.events, DispatchedEvent{Ref: ref, Event: ev})
	if ev.Type == platform.EventClick && ev.Button == platform.MouseLeft && d.ToggleOnClick && isCheckbox(n) && !hasAttr(n, "disabled") {
		d.checked[n] = !d.isChecked(n)
	}
	return nil
}

func isCheckbox(n *html.Node) bool {
	if n.DataAtom != atom.Input {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "type" {
			return strings.EqualFold(a.Val, "checkbox") || strings.EqualFold(a.Val, "radio")
		}
	}
	return false
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// Flash implements platform.Document.
func (d *Document) Flash(ctx context.Context, ref platform.Ref, class string, dur time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.node(ref)
	if err != nil {
		return err
	}
	d.writes++
	s := d.doc.FindNodes(n)
	s.AddClass(class)
	time.AfterFunc(dur, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		s.RemoveClass(class)
	})
	return nil
}

// URL implements platform.Document.
func (d *Document) URL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

// InjectStyle implements platform.StyleInjector.
func (d *Document) InjectStyle(ctx context.Context, id, css string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	d.doc.Find("style#" + id).Remove()

	style := &html.Node{
		Type:     html.ElementNode,
		Data:     "style",
		DataAtom: atom.Style,
		Attr:     []html.Attribute{{Key: "id", Val: id}},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})

	parent := d.doc.Find("head")
	if parent.Length() == 0 {
		parent = d.doc.Find("body")
	}
	if parent.Length() == 0 {
		return fmt.Errorf("page has no head or body to hold styles")
	}
	parent.Nodes[0].AppendChild(style)
	return nil
}

// RemoveStyle implements platform.StyleInjector.
func (d *Document) RemoveStyle(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	d.doc.Find("style#" + id).Remove()
	return nil
}

// Writes counts the mutating calls made so far.
func (d *Document) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// Events returns a copy of the dispatched events in order.
func (d *Document) Events() []DispatchedEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DispatchedEvent, len(d.events))
	copy(out, d.events)
	return out
}

// HTML renders the current page.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Html()
}
