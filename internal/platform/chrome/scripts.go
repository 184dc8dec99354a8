package chrome

import (
	"encoding/json"
	"fmt"
)

// prelude gives every script access to the page-side element registry.
// Refs are "n<index>" into window.__sellerRefs; the empty ref is document.
// An element keeps the same ref across queries.
const prelude = `var R = window.__sellerRefs = window.__sellerRefs || [];
var I = window.__sellerIds = window.__sellerIds || new WeakMap();
function get(ref) {
  if (ref === "") return document;
  var el = R[Number(ref.slice(1))];
  if (!el) throw new Error("stale element reference " + ref);
  return el;
}
function put(el) {
  var id = I.get(el);
  if (id === undefined) {
    id = R.length;
    R.push(el);
    I.set(el, id);
  }
  return "n" + id;
}
`

const (
	jsQueryAll = `function(scope, sel) {
  return Array.prototype.map.call(get(scope).querySelectorAll(sel), put);
}`

	jsText = `function(ref) {
  var el = get(ref);
  return (el === document ? document.documentElement.textContent : el.textContent) || "";
}`

	jsAttr = `function(ref, name) {
  var el = get(ref);
  if (!el.hasAttribute || !el.hasAttribute(name)) return {ok: false, value: ""};
  return {ok: true, value: el.getAttribute(name)};
}`

	jsChecked = `function(ref) { return !!get(ref).checked; }`

	jsBounds = `function(ref) {
  var r = get(ref).getBoundingClientRect();
  return {x: r.left, y: r.top, width: r.width, height: r.height};
}`

	jsDispatch = `function(ref, ev) {
  var el = get(ref);
  if (ev.type === "click") {
    el.dispatchEvent(new MouseEvent("click", {
      bubbles: true, cancelable: true, view: window, detail: 1,
      screenX: ev.x, screenY: ev.y, clientX: ev.x, clientY: ev.y,
      button: ev.button
    }));
  } else {
    el.dispatchEvent(new Event(ev.type, {bubbles: true}));
  }
  return true;
}`

	jsFlash = `function(ref, cls, ms) {
  var el = get(ref);
  el.classList.add(cls);
  setTimeout(function() { el.classList.remove(cls); }, ms);
  return true;
}`

	jsInjectStyle = `function(id, css) {
  var s = document.getElementById(id);
  if (!s) {
    s = document.createElement("style");
    s.id = id;
    (document.head || document.documentElement).appendChild(s);
  }
  s.textContent = css;
  return true;
}`

	jsRemoveStyle = `function(id) {
  var s = document.getElementById(id);
  if (s) s.remove();
  return true;
}`

	jsViewport = `function() {
  return {x: 0, y: 0, width: window.innerWidth, height: window.innerHeight};
}`
)

// script wraps fn in the prelude and applies it to JSON-encoded args.
func script(fn string, args ...any) (string, error) {
	if args == nil {
		args = []any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode script arguments: %w", err)
	}
	return "(function() {\n" + prelude + "return (" + fn + ").apply(null, " + string(b) + ");\n})()", nil
}

// jsEvent is the wire shape of a dispatched event.
type jsEvent struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
}

type jsAttrResult struct {
	OK    bool   `json:"ok"`
	Value string `json:"value"`
}

type jsRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
