package style

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

var modal = Group{
	Name:      "modal",
	Enabled:   true,
	Important: true,
	Rules: []Rule{
		{Selector: ".modal-dialog", Declarations: []Declaration{
			Decl("width", "1100px"),
			Decl("max-width", "90%"),
		}},
		{Selector: ".templateOrderRemark", Declarations: []Declaration{
			Decl("display", "none"),
		}},
	},
}

func assertGolden(t *testing.T, path, got string) {
	t.Helper()
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if got == string(want) {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(want)),
		B:        difflib.SplitLines(got),
		FromFile: path,
		ToFile:   "rendered",
		Context:  2,
	})
	t.Errorf("stylesheet mismatch:\n%s", diff)
}

func TestRenderGolden(t *testing.T) {
	assertGolden(t, "testdata/modal.css", Render(modal))
}

func TestRenderWithoutImportant(t *testing.T) {
	g := Group{Name: "marker", Rules: []Rule{{
		Selector:     ".checked-checkbox",
		Declarations: []Declaration{Decl("outline", "2px solid green !important")},
	}}}
	want := ".checked-checkbox {\n  outline: 2px solid green !important;\n}"
	if got := Render(g); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(Group{Name: "empty"}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestSheetToggle(t *testing.T) {
	s := Sheet{modal, {Name: "debug", Rules: modal.Rules}}
	if n := len(s.Enabled()); n != 1 {
		t.Fatalf("Enabled = %d, want 1", n)
	}

	off, err := s.Toggle("modal", false)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if len(off.Enabled()) != 0 {
		t.Error("modal still enabled")
	}
	if !s[0].Enabled {
		t.Error("Toggle modified the original sheet")
	}
	if _, err := s.Toggle("nope", true); err == nil {
		t.Error("expected error for unknown group")
	}

	css := s.Render()
	if !strings.HasPrefix(css, "/* modal */\n.modal-dialog {") || strings.Contains(css, "/* debug */") {
		t.Errorf("Render = %q", css)
	}
}

func TestValidate(t *testing.T) {
	if err := modal.Validate(); err != nil {
		t.Errorf("modal: %v", err)
	}
	bad := []Group{
		{},
		{Name: "x", Rules: []Rule{{Selector: " "}}},
		{Name: "x", Rules: []Rule{{Selector: "a", Declarations: []Declaration{{Value: "1"}}}}},
	}
	for i, g := range bad {
		if err := g.Validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

type recorder struct {
	injected map[string]string
	removed  []string
}

func (r *recorder) InjectStyle(ctx context.Context, id, css string) error {
	r.injected[id] = css
	return nil
}

func (r *recorder) RemoveStyle(ctx context.Context, id string) error {
	r.removed = append(r.removed, id)
	return nil
}

func TestApply(t *testing.T) {
	rec := &recorder{injected: make(map[string]string)}
	s := Sheet{modal, {Name: "debug"}}
	applied, err := Apply(context.Background(), rec, s)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(applied) != 1 || applied[0] != "modal" {
		t.Errorf("applied = %v", applied)
	}
	if rec.injected["seller-cli-modal"] != Render(modal) {
		t.Errorf("injected = %v", rec.injected)
	}
	if len(rec.removed) != 1 || rec.removed[0] != "seller-cli-debug" {
		t.Errorf("removed = %v", rec.removed)
	}

	if err := Remove(context.Background(), rec, s); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(rec.removed) != 3 {
		t.Errorf("removed = %v", rec.removed)
	}
}
