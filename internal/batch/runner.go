// Package batch checks the order rows whose identifier column contains any
// of a list of identifiers.
//
// A batch matches once, then toggles each match in order, one at a time,
// pausing between rows so the page's own framework can keep up.
package batch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mj1618/seller-cli/internal/ident"
	"github.com/mj1618/seller-cli/internal/model"
	"github.com/mj1618/seller-cli/internal/platform"
)

// Result is the outcome of one batch.
type Result struct {
	RunID          string `yaml:"run_id" json:"run_id"`
	model.Counters `yaml:",inline"`
	// Residual lists the identifiers that matched no row.
	Residual []string          `yaml:"not_found"         json:"not_found"`
	Matches  []model.Match     `yaml:"matches,omitempty" json:"matches,omitempty"`
	Rows     []model.RowResult `yaml:"rows,omitempty"    json:"rows,omitempty"`
}

// Runner executes batches against one page.
type Runner struct {
	Doc     platform.Document
	Layout  Layout
	Timings Timings
	Clock   Clock
	Logger  *slog.Logger

	// BeforeToggle runs once after matching succeeds and before the first
	// row is touched. An error aborts the batch with zero counters.
	BeforeToggle func(ctx context.Context) error
}

// RunText parses raw as one identifier per line and runs the batch.
func (r *Runner) RunText(ctx context.Context, raw string) (Result, error) {
	ids, err := ident.Parse(raw)
	if err != nil {
		return Result{RunID: uuid.NewString()}, err
	}
	return r.Run(ctx, ids)
}

// Run matches ids against the table and checks every matched row.
//
// A fatal error (empty input, missing structure, no matches) is returned
// before any row is touched; the result then carries zero counters and the
// full input as residual. If ctx ends between rows the partial result is
// returned with ctx's error.
func (r *Runner) Run(ctx context.Context, ids []string) (Result, error) {
	res := Result{
		RunID:    uuid.NewString(),
		Residual: append([]string(nil), ids...),
	}
	log := r.logger().With("run_id", res.RunID)

	if len(ids) == 0 {
		return res, ErrInputEmpty
	}

	m := &Matcher{Doc: r.Doc, Layout: r.Layout}
	matches, err := m.Match(ctx, ids)
	if err != nil {
		log.Warn("batch aborted", "error", err)
		return res, err
	}
	res.Matches = matches
	log.Info("matched rows", "identifiers", len(ids), "matches", len(matches))

	if r.BeforeToggle != nil {
		if err := r.BeforeToggle(ctx); err != nil {
			return res, err
		}
	}

	seq := &Sequencer{
		Doc:     r.Doc,
		Layout:  r.Layout,
		Timings: r.Timings,
		Clock:   r.clock(),
		Logger:  log,
	}
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Residual = removeOne(res.Residual, match.Identifier)

		row := seq.Toggle(ctx, match)
		res.Counters.Add(row.Outcome)
		res.Rows = append(res.Rows, row)

		if err := r.clock().Sleep(ctx, r.Timings.RowPacing); err != nil {
			return res, err
		}
	}

	log.Info("batch complete",
		"successes", res.Successes,
		"failures", res.Failures,
		"skips", res.Skips,
		"not_found", len(res.Residual),
	)
	return res, nil
}

// removeOne drops the first occurrence of id, if any.
func removeOne(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func (r *Runner) clock() Clock {
	if r.Clock == nil {
		return RealClock{}
	}
	return r.Clock
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
