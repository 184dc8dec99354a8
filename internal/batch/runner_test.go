package batch

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mj1618/seller-cli/internal/model"
	"github.com/mj1618/seller-cli/internal/platform/static"
)

func newRunner(doc *fakeDoc) *Runner {
	return &Runner{Doc: doc, Layout: testLayout, Timings: testTimings, Clock: doc.clock}
}

func TestRunResidual(t *testing.T) {
	doc := newFakeDoc(&fakeClock{}, header4, row("1", "xx-B-yy"), row("2", "Z"))
	res, err := newRunner(doc).Run(context.Background(), []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(res.Residual, []string{"A", "C"}) {
		t.Errorf("Residual = %v, want [A C]", res.Residual)
	}
	if res.Successes != 1 || res.Failures != 0 || res.Skips != 0 {
		t.Errorf("counters = %+v", res.Counters)
	}
	if res.RunID == "" {
		t.Error("RunID not set")
	}
}

func TestRunResidualDuplicates(t *testing.T) {
	doc := newFakeDoc(&fakeClock{}, header4, row("1", "B"))
	res, err := newRunner(doc).Run(context.Background(), []string{"B", "A", "B"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(res.Residual, []string{"A"}) {
		t.Errorf("Residual = %v, want [A]", res.Residual)
	}
	// Both B entries match the same row; the second finds it already checked.
	if res.Successes != 1 || res.Skips != 1 {
		t.Errorf("counters = %+v", res.Counters)
	}
}

func TestRunCounterConservation(t *testing.T) {
	doc := newFakeDoc(&fakeClock{}, header4,
		row("1", "A1"),
		fakeRow{cells: []string{"2", "A2"}, control: true, checked: true},
		fakeRow{cells: []string{"3", "A3"}},
		fakeRow{cells: []string{"4", "A4"}, control: true, onClick: unchanged},
		fakeRow{cells: []string{"5", "A5"}, control: true, panics: true},
	)
	res, err := newRunner(doc).Run(context.Background(), []string{"A"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Total() != len(res.Matches) || len(res.Matches) != 5 {
		t.Errorf("total %d, matches %d", res.Total(), len(res.Matches))
	}
	want := model.Counters{Successes: 1, Failures: 2, Skips: 2}
	if res.Counters != want {
		t.Errorf("counters = %+v, want %+v", res.Counters, want)
	}
	if len(res.Rows) != 5 {
		t.Errorf("rows = %d", len(res.Rows))
	}
}

func TestRunIdempotent(t *testing.T) {
	doc := newFakeDoc(&fakeClock{}, header4, row("1", "A"), row("2", "B"))
	r := newRunner(doc)
	first, err := r.Run(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Successes != 2 {
		t.Fatalf("first run counters = %+v", first.Counters)
	}
	writes := doc.writes

	second, err := r.Run(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Successes != 0 || second.Failures != 0 || second.Skips != 2 {
		t.Errorf("second run counters = %+v", second.Counters)
	}
	for _, row := range second.Rows {
		if row.Reason != model.ReasonAlreadyInState {
			t.Errorf("row %d reason = %s", row.RowIndex, row.Reason)
		}
	}
	if doc.writes != writes {
		t.Errorf("second run wrote %d times", doc.writes-writes)
	}
}

func TestRunSequentialOrdering(t *testing.T) {
	clock := &fakeClock{}
	doc := newFakeDoc(clock, header4, row("1", "R1"), row("2", "R2"))
	if _, err := newRunner(doc).Run(context.Background(), []string{"R1", "R2"}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	clicks := doc.clicks()
	if len(clicks) != 2 {
		t.Fatalf("clicks = %+v", clicks)
	}
	// R1: click at 0, change at 20ms, verified at 40ms, paced to 540ms.
	if clicks[0].ref != "R0.cb" || clicks[0].at != 0 {
		t.Errorf("first click = %+v", clicks[0])
	}
	if clicks[1].ref != "R1.cb" || clicks[1].at != 540*time.Millisecond {
		t.Errorf("second click = %+v", clicks[1])
	}
	wantSleeps := []time.Duration{
		20 * time.Millisecond, 20 * time.Millisecond, 500 * time.Millisecond,
		20 * time.Millisecond, 20 * time.Millisecond, 500 * time.Millisecond,
	}
	if !reflect.DeepEqual(clock.sleeps, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", clock.sleeps, wantSleeps)
	}
}

func TestRunAbortsWithoutWrites(t *testing.T) {
	tests := []struct {
		name  string
		doc   func() *fakeDoc
		input string
		check func(error) bool
	}{
		{
			name: "missing table",
			doc: func() *fakeDoc {
				d := newFakeDoc(&fakeClock{}, header4, row("1", "A"))
				delete(d.query, key("", "table"))
				return d
			},
			input: "A",
			check: func(err error) bool {
				var se *StructureError
				return errors.As(err, &se) && se.Element == ElementTable
			},
		},
		{
			name:  "zero rows",
			doc:   func() *fakeDoc { return newFakeDoc(&fakeClock{}, header4) },
			input: "A\nB",
			check: func(err error) bool { return errors.Is(err, ErrNoMatches) },
		},
		{
			name:  "empty input",
			doc:   func() *fakeDoc { return newFakeDoc(&fakeClock{}, header4, row("1", "A")) },
			input: "  \n\t\n",
			check: func(err error) bool { return errors.Is(err, ErrInputEmpty) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tt.doc()
			r := newRunner(doc)
			prepared := false
			r.BeforeToggle = func(context.Context) error {
				prepared = true
				return nil
			}
			res, err := r.RunText(context.Background(), tt.input)
			if !tt.check(err) {
				t.Fatalf("err = %v", err)
			}
			if prepared {
				t.Error("BeforeToggle ran for an aborted batch")
			}
			if doc.writes != 0 {
				t.Errorf("writes = %d, want 0", doc.writes)
			}
			if res.Total() != 0 {
				t.Errorf("counters = %+v", res.Counters)
			}
		})
	}
}

func TestRunBeforeToggle(t *testing.T) {
	doc := newFakeDoc(&fakeClock{}, header4, row("1", "A"), row("2", "B"))
	r := newRunner(doc)
	calls := 0
	r.BeforeToggle = func(context.Context) error {
		calls++
		if doc.writes != 0 {
			t.Errorf("writes before the hook = %d, want 0", doc.writes)
		}
		return nil
	}
	res, err := r.Run(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 || res.Successes != 2 {
		t.Errorf("calls = %d, counters = %+v", calls, res.Counters)
	}
}

func TestRunBeforeToggleErrorAborts(t *testing.T) {
	doc := newFakeDoc(&fakeClock{}, header4, row("1", "A"))
	r := newRunner(doc)
	boom := errors.New("boom")
	r.BeforeToggle = func(context.Context) error { return boom }

	res, err := r.Run(context.Background(), []string{"A", "B"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if doc.writes != 0 || res.Total() != 0 {
		t.Errorf("writes = %d, counters = %+v", doc.writes, res.Counters)
	}
	if !reflect.DeepEqual(res.Residual, []string{"A", "B"}) {
		t.Errorf("Residual = %v", res.Residual)
	}
}

func TestRunNoMatchesKeepsResidual(t *testing.T) {
	doc := newFakeDoc(&fakeClock{}, header4, row("1", "Z"))
	res, err := newRunner(doc).Run(context.Background(), []string{"A", "B"})
	if !errors.Is(err, ErrNoMatches) {
		t.Fatalf("err = %v", err)
	}
	if !reflect.DeepEqual(res.Residual, []string{"A", "B"}) {
		t.Errorf("Residual = %v", res.Residual)
	}
}

func TestRunStopsOnCancelledWait(t *testing.T) {
	clock := &fakeClock{err: context.Canceled}
	doc := newFakeDoc(clock, header4, row("1", "A"), row("2", "A"))
	res, err := newRunner(doc).Run(context.Background(), []string{"A"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// The first row's interrupted wait fails it; the second is never reached.
	if len(res.Rows) != 1 || res.Failures != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(doc.clicks()) != 1 {
		t.Errorf("clicks = %d, want 1", len(doc.clicks()))
	}
}

const shopeePage = `<html><body>
<table class="eds-table__header"><thead><tr>
  <th><span class="eds-table__cell-label"></span></th>
  <th><span class="eds-table__cell-label">订单编号</span></th>
  <th><span class="eds-table__cell-label">包裹追踪号</span></th>
</tr></thead></table>
<table class="eds-table__body"><tbody>
  <tr class="eds-table__row">
    <td><input type="checkbox" class="eds-checkbox__input"></td><td>O-1</td><td>SF-ABC123-CN</td>
  </tr>
  <tr class="eds-table__row">
    <td><input type="checkbox" class="eds-checkbox__input"></td><td>O-2</td><td>SF-DEF456-CN</td>
  </tr>
  <tr class="eds-table__row">
    <td></td><td>O-3</td><td>SF-GHI789-CN</td>
  </tr>
</tbody></table>
</body></html>`

func TestRunAgainstSavedPage(t *testing.T) {
	doc, err := static.FromString(shopeePage)
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	r := &Runner{
		Doc: doc,
		Layout: Layout{
			Table:       "table.eds-table__body",
			Rows:        "tr.eds-table__row",
			Header:      "table.eds-table__header thead tr",
			HeaderLabel: ".eds-table__cell-label",
			Column:      ColumnTitle("包裹追踪号"),
			Control:     ".eds-checkbox__input",
		},
		Timings: testTimings,
		Clock:   &fakeClock{},
	}

	res, err := r.RunText(context.Background(), "ABC123\r\n  GHI789\nnope\n")
	if err != nil {
		t.Fatalf("RunText: %v", err)
	}
	if res.Successes != 1 || res.Skips != 1 || res.Failures != 0 {
		t.Errorf("counters = %+v", res.Counters)
	}
	if !reflect.DeepEqual(res.Residual, []string{"nope"}) {
		t.Errorf("Residual = %v", res.Residual)
	}

	html, err := doc.HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Count(html, "checked-checkbox") != 1 {
		t.Errorf("expected one marked control")
	}

	again, err := r.RunText(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("second RunText: %v", err)
	}
	if again.Skips != 1 || again.Successes != 0 {
		t.Errorf("second run counters = %+v", again.Counters)
	}
}
