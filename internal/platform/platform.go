package platform

import (
	"context"
	"time"
)

// Document is the live page the tool reads and writes. Every call queries
// the page afresh; a Ref stays usable only while its element is attached.
type Document interface {
	// QueryAll returns all elements matching selector under scope, in
	// document order. An empty scope means the whole document.
	QueryAll(ctx context.Context, scope Ref, selector string) ([]Ref, error)

	// Text returns the element's textContent.
	Text(ctx context.Context, ref Ref) (string, error)

	// Attr returns an attribute value and whether it is present.
	Attr(ctx context.Context, ref Ref, name string) (string, bool, error)

	// Checked reports the element's boolean checked state.
	Checked(ctx context.Context, ref Ref) (bool, error)

	// Bounds returns the element's viewport rectangle.
	Bounds(ctx context.Context, ref Ref) (Rect, error)

	// Dispatch fires a synthetic DOM event at the element.
	Dispatch(ctx context.Context, ref Ref, ev Event) error

	// Flash adds class to the element and removes it after d without
	// blocking the caller.
	Flash(ctx context.Context, ref Ref, class string, d time.Duration) error

	// URL returns the page location.
	URL(ctx context.Context) (string, error)
}

// StyleInjector adds and removes page stylesheets identified by id.
type StyleInjector interface {
	// InjectStyle installs css under id, replacing any previous sheet with
	// the same id.
	InjectStyle(ctx context.Context, id, css string) error
	RemoveStyle(ctx context.Context, id string) error
}

// Screenshotter captures the visible page.
type Screenshotter interface {
	// CaptureViewport returns PNG bytes and the CSS viewport size they cover.
	CaptureViewport(ctx context.Context) ([]byte, Rect, error)
}

// ClipboardManager reads and writes the system clipboard.
type ClipboardManager interface {
	GetText() (string, error)
	SetText(text string) error
	Clear() error
}
