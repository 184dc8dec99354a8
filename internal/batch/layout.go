package batch

import (
	"errors"
	"fmt"
	"time"
)

// Column designates the table column holding identifiers. Exactly one of
// Title and Index is set.
type Column struct {
	// Title matches the header cell label text exactly.
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	// Index is a fixed zero-based cell position.
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`
}

// ColumnIndex returns a Column for a fixed position.
func ColumnIndex(i int) Column {
	return Column{Index: &i}
}

// ColumnTitle returns a Column matched by header label.
func ColumnTitle(title string) Column {
	return Column{Title: title}
}

func (c Column) String() string {
	if c.Index != nil {
		return fmt.Sprintf("#%d", *c.Index)
	}
	return fmt.Sprintf("%q", c.Title)
}

// Layout describes where the order table lives on the page.
type Layout struct {
	// Table locates the body table. Rows are searched inside it.
	Table string `yaml:"table" json:"table"`
	Rows  string `yaml:"rows"  json:"rows"`
	// Header locates the header row anywhere in the document.
	Header     string `yaml:"header"                json:"header"`
	HeaderCell string `yaml:"header_cell,omitempty" json:"header_cell,omitempty"`
	// HeaderLabel narrows each header cell to its label element.
	HeaderLabel string `yaml:"header_label,omitempty" json:"header_label,omitempty"`
	Cell        string `yaml:"cell,omitempty"         json:"cell,omitempty"`
	Column      Column `yaml:"column"                 json:"column"`
	// Control locates the row's checkbox inside the row.
	Control     string `yaml:"control"                json:"control"`
	MarkerClass string `yaml:"marker_class,omitempty" json:"marker_class,omitempty"`
}

// WithDefaults fills the optional selectors.
func (l Layout) WithDefaults() Layout {
	if l.HeaderCell == "" {
		l.HeaderCell = "th"
	}
	if l.Cell == "" {
		l.Cell = "td"
	}
	if l.MarkerClass == "" {
		l.MarkerClass = "checked-checkbox"
	}
	return l
}

// Validate reports a missing selector or an ambiguous column.
func (l Layout) Validate() error {
	var errs []error
	for _, f := range []struct{ name, v string }{
		{"table", l.Table},
		{"rows", l.Rows},
		{"header", l.Header},
		{"control", l.Control},
	} {
		if f.v == "" {
			errs = append(errs, fmt.Errorf("layout: %s selector is required", f.name))
		}
	}
	switch {
	case l.Column.Title == "" && l.Column.Index == nil:
		errs = append(errs, errors.New("layout: column needs a title or an index"))
	case l.Column.Title != "" && l.Column.Index != nil:
		errs = append(errs, errors.New("layout: column takes a title or an index, not both"))
	case l.Column.Index != nil && *l.Column.Index < 0:
		errs = append(errs, fmt.Errorf("layout: column index %d is negative", *l.Column.Index))
	}
	return errors.Join(errs...)
}

// Timings are the fixed waits of a batch. They are unconditional delays,
// not timeouts.
type Timings struct {
	ClickSettle  time.Duration `yaml:"click_settle"  json:"click_settle"`
	ChangeSettle time.Duration `yaml:"change_settle" json:"change_settle"`
	RowPacing    time.Duration `yaml:"row_pacing"    json:"row_pacing"`
	MarkerTTL    time.Duration `yaml:"marker_ttl"    json:"marker_ttl"`
}

// DefaultTimings match the English seller-center script.
var DefaultTimings = Timings{
	ClickSettle:  50 * time.Millisecond,
	ChangeSettle: 50 * time.Millisecond,
	RowPacing:    200 * time.Millisecond,
	MarkerTTL:    3 * time.Second,
}
