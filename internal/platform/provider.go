package platform

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Provider bundles the backends for one attached page.
type Provider struct {
	Document         Document
	Styles           StyleInjector
	Screenshotter    Screenshotter
	ClipboardManager ClipboardManager

	// closeFn releases the browser connection or in-memory page.
	closeFn func()
}

// NewProvider assembles a Provider. closeFn may be nil.
func NewProvider(doc Document, styles StyleInjector, shots Screenshotter, clip ClipboardManager, closeFn func()) *Provider {
	return &Provider{
		Document:         doc,
		Styles:           styles,
		Screenshotter:    shots,
		ClipboardManager: clip,
		closeFn:          closeFn,
	}
}

// Close releases the provider. It is safe to call more than once.
func (p *Provider) Close() {
	if p == nil || p.closeFn == nil {
		return
	}
	fn := p.closeFn
	p.closeFn = nil
	fn()
}

// OpenOptions selects the page a backend attaches to.
type OpenOptions struct {
	ChromeURL string // remote debugging URL of a running Chrome
	URL       string // page to open when launching a browser
	HTMLPath  string // saved page for the static backend
	Headless  bool

	// MatchURL picks the tab to attach to. nil accepts any page.
	MatchURL func(url string) bool

	// Logf receives backend debug output.
	Logf func(format string, args ...any)
}

// Opener creates a Provider for a backend.
type Opener func(ctx context.Context, opts OpenOptions) (*Provider, error)

var (
	openersMu sync.RWMutex
	openers   = make(map[string]Opener)
)

// Register makes a backend available under name. Backends call it from
// init(); see internal/platform/chrome and internal/platform/static.
func Register(name string, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	if _, dup := openers[name]; dup {
		panic("platform: backend registered twice: " + name)
	}
	openers[name] = open
}

// Backends lists the registered backend names.
func Backends() []string {
	openersMu.RLock()
	defer openersMu.RUnlock()
	names := make([]string, 0, len(openers))
	for n := range openers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open attaches the named backend.
func Open(ctx context.Context, backend string, opts OpenOptions) (*Provider, error) {
	openersMu.RLock()
	open, ok := openers[backend]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (available: %s)", backend, strings.Join(Backends(), ", "))
	}
	return open(ctx, opts)
}
