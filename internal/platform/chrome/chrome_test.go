package chrome

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/chromedp/cdproto/target"
)

func TestScriptEmbedsArguments(t *testing.T) {
	expr, err := script(jsQueryAll, "n3", `td[data-x="a"]`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if !strings.HasPrefix(expr, "(function() {\n") || !strings.HasSuffix(expr, "})()") {
		t.Errorf("script not wrapped in an IIFE: %s", expr)
	}
	if !strings.Contains(expr, `.apply(null, ["n3","td[data-x=\"a\"]"]);`) {
		t.Errorf("arguments not JSON-encoded: %s", expr)
	}
	if !strings.Contains(expr, "window.__sellerRefs") {
		t.Error("prelude missing")
	}
}

func TestPreludeReusesRefs(t *testing.T) {
	for _, want := range []string{"new WeakMap()", "I.get(el)", "I.set(el, id)"} {
		if !strings.Contains(prelude, want) {
			t.Errorf("prelude missing %q", want)
		}
	}
}

func TestScriptNoArguments(t *testing.T) {
	expr, err := script(jsViewport)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if !strings.Contains(expr, ".apply(null, []);") {
		t.Errorf("expected empty argument list: %s", expr)
	}
}

func TestEventWireShape(t *testing.T) {
	b, err := json.Marshal(jsEvent{Type: "click", X: 15, Y: 25, Button: 0})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"click","x":15,"y":25,"button":0}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestPickTarget(t *testing.T) {
	targets := []*target.Info{
		{TargetID: "sw", Type: "service_worker", URL: "https://seller.shopee.cn/sw.js"},
		{TargetID: "a", Type: "page", URL: "https://example.com/"},
		{TargetID: "b", Type: "page", URL: "https://seller.shopee.cn/portal/sale/order"},
		{TargetID: "c", Type: "page", URL: "https://seller.shopee.cn/portal/sale/order?type=toship"},
	}
	match := func(u string) bool { return strings.HasPrefix(u, "https://seller.shopee.cn/portal/sale/") }

	if got := pickTarget(targets, match); got == nil || got.TargetID != "b" {
		t.Errorf("pickTarget = %+v, want b", got)
	}
	if got := pickTarget(targets, nil); got == nil || got.TargetID != "a" {
		t.Errorf("pickTarget(nil) = %+v, want a", got)
	}
	if got := pickTarget(targets, func(string) bool { return false }); got != nil {
		t.Errorf("pickTarget = %+v, want nil", got)
	}
}
