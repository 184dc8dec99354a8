package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mj1618/seller-cli/internal/model"
	"github.com/mj1618/seller-cli/internal/platform"
)

// Sequencer drives one matched row's checkbox to the checked state.
type Sequencer struct {
	Doc     platform.Document
	Layout  Layout
	Timings Timings
	Clock   Clock
	Logger  *slog.Logger
}

// clickOffset is where the click lands inside the control, from its
// top-left corner.
const clickOffset = 5

// Toggle processes one match. It never returns an error: every problem is
// folded into the row's outcome.
//
// A row counts as a success when its state after the interaction differs
// from the state read just before it. Only an unchecked control is ever
// clicked, so in practice that means it became checked.
func (s *Sequencer) Toggle(ctx context.Context, m model.Match) (res model.RowResult) {
	log := s.logger().With("identifier", m.Identifier, "row", m.RowIndex)
	res = model.RowResult{Identifier: m.Identifier, RowIndex: m.RowIndex}

	defer func() {
		if r := recover(); r != nil {
			log.Error("toggle panicked", "panic", r)
			res.Outcome = model.OutcomeFailure
			res.Reason = model.ReasonToggleFailed
			res.Error = fmt.Sprint(r)
		}
	}()

	fail := func(err error) model.RowResult {
		log.Warn("toggle failed", "error", err)
		res.Outcome = model.OutcomeFailure
		res.Reason = model.ReasonToggleFailed
		res.Error = err.Error()
		return res
	}

	l := s.Layout.WithDefaults()
	ctrl, ok, err := platform.First(ctx, s.Doc, platform.Ref(m.Row), l.Control)
	if err != nil {
		return fail(fmt.Errorf("locate control: %w", err))
	}
	if !ok {
		log.Info("control not found, skipping")
		res.Outcome = model.OutcomeSkip
		res.Reason = model.ReasonControlMissing
		return res
	}

	before, err := s.Doc.Checked(ctx, ctrl)
	if err != nil {
		return fail(fmt.Errorf("read state: %w", err))
	}
	if before {
		log.Info("already checked, skipping")
		res.Outcome = model.OutcomeSkip
		res.Reason = model.ReasonAlreadyInState
		return res
	}

	rect, err := s.Doc.Bounds(ctx, ctrl)
	if err != nil {
		return fail(fmt.Errorf("read bounds: %w", err))
	}
	res.Bounds = rect.Ints()

	if err := s.Doc.Dispatch(ctx, ctrl, platform.ClickAt(rect.X+clickOffset, rect.Y+clickOffset)); err != nil {
		return fail(fmt.Errorf("click: %w", err))
	}
	if err := s.clock().Sleep(ctx, s.Timings.ClickSettle); err != nil {
		return fail(err)
	}
	if err := s.Doc.Dispatch(ctx, ctrl, platform.Change()); err != nil {
		return fail(fmt.Errorf("change: %w", err))
	}
	if err := s.clock().Sleep(ctx, s.Timings.ChangeSettle); err != nil {
		return fail(err)
	}

	after, err := s.Doc.Checked(ctx, ctrl)
	if err != nil {
		return fail(fmt.Errorf("verify state: %w", err))
	}
	if after == before {
		log.Warn("state unchanged after click")
		res.Outcome = model.OutcomeFailure
		res.Reason = model.ReasonToggleFailed
		return res
	}

	if l.MarkerClass != "" {
		if err := s.Doc.Flash(ctx, ctrl, l.MarkerClass, s.Timings.MarkerTTL); err != nil {
			log.Debug("marker not applied", "error", err)
		}
	}
	log.Info("checked")
	res.Outcome = model.OutcomeSuccess
	res.Reason = model.ReasonToggled
	return res
}

func (s *Sequencer) clock() Clock {
	if s.Clock == nil {
		return RealClock{}
	}
	return s.Clock
}

func (s *Sequencer) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
