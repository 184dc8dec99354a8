// Package chrome implements the platform interfaces over the Chrome
// DevTools protocol with chromedp.
package chrome

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/mj1618/seller-cli/internal/platform"
	"github.com/mj1618/seller-cli/internal/platform/clipboard"
)

func init() {
	platform.Register("chrome", Open)
}

// Page drives one browser tab.
type Page struct {
	tab context.Context
}

// Open attaches to a running Chrome when opts.ChromeURL is set and picks the
// first page tab accepted by opts.MatchURL. Otherwise it launches Chrome and
// navigates to opts.URL.
func Open(ctx context.Context, opts platform.OpenOptions) (*platform.Provider, error) {
	base := context.WithoutCancel(ctx)

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.ChromeURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(base, opts.ChromeURL)
	} else {
		o := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
		)
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(base, o...)
	}

	var ctxOpts []chromedp.ContextOption
	if opts.Logf != nil {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(opts.Logf), chromedp.WithErrorf(opts.Logf))
	}

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, ctxOpts...)
	fail := func(err error) (*platform.Provider, error) {
		cancelBrowser()
		cancelAlloc()
		return nil, err
	}
	if err := run(ctx, browserCtx); err != nil {
		return fail(fmt.Errorf("connect to chrome: %w", err))
	}

	tabCtx := browserCtx
	cancelTab := func() {}
	if opts.ChromeURL != "" {
		targets, err := chromedp.Targets(browserCtx)
		if err != nil {
			return fail(fmt.Errorf("list tabs: %w", err))
		}
		if t := pickTarget(targets, opts.MatchURL); t != nil {
			tabCtx, cancelTab = chromedp.NewContext(browserCtx, chromedp.WithTargetID(t.TargetID))
			if err := run(ctx, tabCtx); err != nil {
				cancelTab()
				return fail(fmt.Errorf("attach to tab %s: %w", t.URL, err))
			}
		} else if opts.URL == "" {
			return fail(fmt.Errorf("no open tab matches the profile; open the orders page or pass --url"))
		}
	}

	if tabCtx == browserCtx && opts.URL != "" {
		if err := run(ctx, browserCtx, chromedp.Navigate(opts.URL)); err != nil {
			return fail(fmt.Errorf("navigate to %s: %w", opts.URL, err))
		}
	}

	page := &Page{tab: tabCtx}
	return platform.NewProvider(page, page, page, clipboard.New(), func() {
		cancelTab()
		cancelBrowser()
		cancelAlloc()
	}), nil
}

// pickTarget returns the first page target accepted by match.
func pickTarget(targets []*target.Info, match func(string) bool) *target.Info {
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if match == nil || match(t.URL) {
			return t
		}
	}
	return nil
}

// run executes actions in the chromedp context c, aborting when ctx ends.
func run(ctx, c context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func (p *Page) eval(ctx context.Context, res any, fn string, args ...any) error {
	expr, err := script(fn, args...)
	if err != nil {
		return err
	}
	return run(ctx, p.tab, chromedp.Evaluate(expr, res, awaitPromise))
}

// QueryAll implements platform.Document.
func (p *Page) QueryAll(ctx context.Context, scope platform.Ref, selector string) ([]platform.Ref, error) {
	var ids []string
	if err := p.eval(ctx, &ids, jsQueryAll, string(scope), selector); err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	refs := make([]platform.Ref, len(ids))
	for i, id := range ids {
		refs[i] = platform.Ref(id)
	}
	return refs, nil
}

// Text implements platform.Document.
func (p *Page) Text(ctx context.Context, ref platform.Ref) (string, error) {
	var s string
	err := p.eval(ctx, &s, jsText, string(ref))
	return s, err
}

// Attr implements platform.Document.
func (p *Page) Attr(ctx context.Context, ref platform.Ref, name string) (string, bool, error) {
	var r jsAttrResult
	if err := p.eval(ctx, &r, jsAttr, string(ref), name); err != nil {
		return "", false, err
	}
	return r.Value, r.OK, nil
}

// Checked implements platform.Document.
func (p *Page) Checked(ctx context.Context, ref platform.Ref) (bool, error) {
	var b bool
	err := p.eval(ctx, &b, jsChecked, string(ref))
	return b, err
}

// Bounds implements platform.Document.
func (p *Page) Bounds(ctx context.Context, ref platform.Ref) (platform.Rect, error) {
	var r jsRect
	if err := p.eval(ctx, &r, jsBounds, string(ref)); err != nil {
		return platform.Rect{}, err
	}
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, nil
}

// Dispatch implements platform.Document.
func (p *Page) Dispatch(ctx context.Context, ref platform.Ref, ev platform.Event) error {
	var ok bool
	return p.eval(ctx, &ok, jsDispatch, string(ref), jsEvent{
		Type:   string(ev.Type),
		X:      ev.ClientX,
		Y:      ev.ClientY,
		Button: int(ev.Button),
	})
}

// Flash implements platform.Document. The class is removed by a page timer.
func (p *Page) Flash(ctx context.Context, ref platform.Ref, class string, d time.Duration) error {
	var ok bool
	return p.eval(ctx, &ok, jsFlash, string(ref), class, d.Milliseconds())
}

// URL implements platform.Document.
func (p *Page) URL(ctx context.Context) (string, error) {
	var u string
	err := run(ctx, p.tab, chromedp.Location(&u))
	return u, err
}

// InjectStyle implements platform.StyleInjector.
func (p *Page) InjectStyle(ctx context.Context, id, css string) error {
	var ok bool
	return p.eval(ctx, &ok, jsInjectStyle, id, css)
}

// RemoveStyle implements platform.StyleInjector.
func (p *Page) RemoveStyle(ctx context.Context, id string) error {
	var ok bool
	return p.eval(ctx, &ok, jsRemoveStyle, id)
}

// CaptureViewport implements platform.Screenshotter.
func (p *Page) CaptureViewport(ctx context.Context) ([]byte, platform.Rect, error) {
	var buf []byte
	if err := run(ctx, p.tab, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, platform.Rect{}, fmt.Errorf("capture screenshot: %w", err)
	}
	var r jsRect
	if err := p.eval(ctx, &r, jsViewport); err != nil {
		return nil, platform.Rect{}, err
	}
	return buf, platform.Rect{Width: r.Width, Height: r.Height}, nil
}
