package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mj1618/seller-cli/internal/platform"
)

// fakeClock advances virtual time on every Sleep.
type fakeClock struct {
	now    time.Duration
	sleeps []time.Duration
	err    error
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.sleeps = append(c.sleeps, d)
	c.now += d
	return nil
}

type event struct {
	at    time.Duration
	ref   platform.Ref
	typ   platform.EventType
	x, y  float64
	class string
}

// fakeRow describes one table row.
type fakeRow struct {
	cells   []string
	control bool
	checked bool
	// onClick and onChange compute the new checked state. nil means a click
	// flips the box and a change leaves it alone.
	onClick  func(bool) bool
	onChange func(bool) bool
	// panics makes Bounds panic for this row's control.
	panics bool
}

// fakeDoc is a Document with canned query results keyed by scope and
// selector.
type fakeDoc struct {
	clock   *fakeClock
	query   map[string][]platform.Ref
	text    map[platform.Ref]string
	checked map[platform.Ref]bool
	rows    map[platform.Ref]fakeRow
	events  []event
	writes  int

	dispatchErr error
}

func key(scope platform.Ref, sel string) string { return string(scope) + "|" + sel }

var testLayout = Layout{
	Table:      "table",
	Rows:       "tr",
	Header:     "thead tr",
	HeaderCell: "th",
	Cell:       "td",
	Column:     ColumnIndex(1),
	Control:    "input",
}

// newFakeDoc builds a page with the given header labels and rows. A nil
// header omits the header row.
func newFakeDoc(clock *fakeClock, header []string, rows ...fakeRow) *fakeDoc {
	d := &fakeDoc{
		clock:   clock,
		query:   make(map[string][]platform.Ref),
		text:    make(map[platform.Ref]string),
		checked: make(map[platform.Ref]bool),
		rows:    make(map[platform.Ref]fakeRow),
	}
	d.query[key("", "table")] = []platform.Ref{"T"}
	if header != nil {
		d.query[key("", "thead tr")] = []platform.Ref{"H"}
		for i, h := range header {
			ref := platform.Ref(fmt.Sprintf("H%d", i))
			d.query[key("H", "th")] = append(d.query[key("H", "th")], ref)
			d.text[ref] = h
		}
	}
	for i, r := range rows {
		row := platform.Ref(fmt.Sprintf("R%d", i))
		d.query[key("T", "tr")] = append(d.query[key("T", "tr")], row)
		for j, c := range r.cells {
			cell := platform.Ref(fmt.Sprintf("R%d.%d", i, j))
			d.query[key(row, "td")] = append(d.query[key(row, "td")], cell)
			d.text[cell] = c
		}
		if r.control {
			cb := platform.Ref(fmt.Sprintf("R%d.cb", i))
			d.query[key(row, "input")] = []platform.Ref{cb}
			d.checked[cb] = r.checked
			d.rows[cb] = r
		}
	}
	return d
}

func (d *fakeDoc) QueryAll(ctx context.Context, scope platform.Ref, sel string) ([]platform.Ref, error) {
	return d.query[key(scope, sel)], nil
}

func (d *fakeDoc) Text(ctx context.Context, ref platform.Ref) (string, error) {
	t, ok := d.text[ref]
	if !ok {
		return "", errors.New("no text for " + string(ref))
	}
	return t, nil
}

func (d *fakeDoc) Attr(ctx context.Context, ref platform.Ref, name string) (string, bool, error) {
	return "", false, nil
}

func (d *fakeDoc) Checked(ctx context.Context, ref platform.Ref) (bool, error) {
	return d.checked[ref], nil
}

func (d *fakeDoc) Bounds(ctx context.Context, ref platform.Ref) (platform.Rect, error) {
	if d.rows[ref].panics {
		panic("detached node")
	}
	return platform.Rect{X: 100, Y: 40, Width: 16, Height: 16}, nil
}

func (d *fakeDoc) Dispatch(ctx context.Context, ref platform.Ref, ev platform.Event) error {
	d.writes++
	if d.dispatchErr != nil {
		return d.dispatchErr
	}
	d.events = append(d.events, event{at: d.clock.now, ref: ref, typ: ev.Type, x: ev.ClientX, y: ev.ClientY})
	r := d.rows[ref]
	switch ev.Type {
	case platform.EventClick:
		if r.onClick != nil {
			d.checked[ref] = r.onClick(d.checked[ref])
		} else {
			d.checked[ref] = !d.checked[ref]
		}
	case platform.EventChange:
		if r.onChange != nil {
			d.checked[ref] = r.onChange(d.checked[ref])
		}
	}
	return nil
}

func (d *fakeDoc) Flash(ctx context.Context, ref platform.Ref, class string, dur time.Duration) error {
	d.writes++
	d.events = append(d.events, event{at: d.clock.now, ref: ref, typ: "flash", class: class})
	return nil
}

func (d *fakeDoc) URL(ctx context.Context) (string, error) {
	return "https://seller.example.com/orders", nil
}

func (d *fakeDoc) clicks() []event {
	var out []event
	for _, e := range d.events {
		if e.typ == platform.EventClick {
			out = append(out, e)
		}
	}
	return out
}

func unchanged(b bool) bool { return b }
