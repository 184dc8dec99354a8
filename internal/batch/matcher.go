package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/seller-cli/internal/model"
	"github.com/mj1618/seller-cli/internal/platform"
)

// Matcher pairs table rows with the identifiers their designated cell
// contains. It only reads the page.
type Matcher struct {
	Doc    platform.Document
	Layout Layout
}

// Match scans the table once. Matches come out in row order and, within a
// row, in identifier order. A row may match several identifiers and an
// identifier may match several rows.
func (m *Matcher) Match(ctx context.Context, ids []string) ([]model.Match, error) {
	if len(ids) == 0 {
		return nil, ErrInputEmpty
	}
	l := m.Layout.WithDefaults()

	table, ok, err := platform.First(ctx, m.Doc, "", l.Table)
	if err != nil {
		return nil, fmt.Errorf("locate table: %w", err)
	}
	if !ok {
		return nil, &StructureError{Element: ElementTable, Selector: l.Table}
	}

	col, err := m.resolveColumn(ctx, l)
	if err != nil {
		return nil, err
	}

	rows, err := m.Doc.QueryAll(ctx, table, l.Rows)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}

	var matches []model.Match
	for i, row := range rows {
		cells, err := m.Doc.QueryAll(ctx, row, l.Cell)
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", i, err)
		}
		if col >= len(cells) {
			continue
		}
		text, err := m.Doc.Text(ctx, cells[col])
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", i, err)
		}
		text = strings.TrimSpace(text)
		for _, id := range ids {
			if strings.Contains(text, id) {
				matches = append(matches, model.Match{
					Row:        string(row),
					RowIndex:   i,
					CellText:   text,
					Identifier: id,
				})
			}
		}
	}
	if len(matches) == 0 {
		return nil, ErrNoMatches
	}
	return matches, nil
}

// resolveColumn finds the designated cell position once per batch.
func (m *Matcher) resolveColumn(ctx context.Context, l Layout) (int, error) {
	header, ok, err := platform.First(ctx, m.Doc, "", l.Header)
	if err != nil {
		return 0, fmt.Errorf("locate header: %w", err)
	}
	if !ok {
		return 0, &StructureError{Element: ElementHeader, Selector: l.Header}
	}
	cells, err := m.Doc.QueryAll(ctx, header, l.HeaderCell)
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	missing := &StructureError{Element: ElementColumn, Selector: l.Column.String()}
	if l.Column.Index != nil {
		i := *l.Column.Index
		if i < 0 || i >= len(cells) {
			return 0, missing
		}
		return i, nil
	}

	for i, cell := range cells {
		label := cell
		if l.HeaderLabel != "" {
			ref, ok, err := platform.First(ctx, m.Doc, cell, l.HeaderLabel)
			if err != nil {
				return 0, fmt.Errorf("read header: %w", err)
			}
			if !ok {
				continue
			}
			label = ref
		}
		text, err := m.Doc.Text(ctx, label)
		if err != nil {
			return 0, fmt.Errorf("read header: %w", err)
		}
		if strings.TrimSpace(text) == l.Column.Title {
			return i, nil
		}
	}
	return 0, missing
}
