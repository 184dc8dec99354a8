package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mj1618/seller-cli/internal/config"
	"github.com/mj1618/seller-cli/internal/platform"
	_ "github.com/mj1618/seller-cli/internal/platform/chrome"
	_ "github.com/mj1618/seller-cli/internal/platform/static"
)

// pageOptions are the root flags that choose a page and a profile.
type pageOptions struct {
	Backend   string
	ChromeURL string
	URL       string
	HTML      string
	Headless  bool
	Profile   string
	Config    string
}

func pageOptionsFromFlags() pageOptions {
	f := rootCmd.PersistentFlags()
	var o pageOptions
	o.Backend, _ = f.GetString("backend")
	o.ChromeURL, _ = f.GetString("chrome-url")
	o.URL, _ = f.GetString("url")
	o.HTML, _ = f.GetString("html")
	o.Headless, _ = f.GetBool("headless")
	o.Profile, _ = f.GetString("profile")
	o.Config, _ = f.GetString("config")
	return o
}

func (o pageOptions) backend() string {
	if o.Backend != "" {
		return o.Backend
	}
	if o.HTML != "" {
		return "static"
	}
	return "chrome"
}

// session is an attached page and the profile that applies to it.
type session struct {
	Provider *platform.Provider
	Profile  config.Profile
	Config   *config.Config
}

func (s *session) Close() {
	s.Provider.Close()
}

// resolveProfile picks the --profile, else the first profile matching url,
// else the default.
func resolveProfile(cfg *config.Config, name, url string) (config.Profile, error) {
	if name != "" {
		return cfg.Find(name)
	}
	if p, ok := cfg.ForURL(url); ok {
		return p, nil
	}
	return cfg.Find(config.DefaultProfile)
}

// openSession loads the profiles and attaches to the page.
func openSession(ctx context.Context, o pageOptions) (*session, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, err
	}

	match := func(u string) bool {
		_, ok := cfg.ForURL(u)
		return ok
	}
	if o.Profile != "" {
		p, err := cfg.Find(o.Profile)
		if err != nil {
			return nil, err
		}
		match = p.Matches
	}

	provider, err := platform.Open(ctx, o.backend(), platform.OpenOptions{
		ChromeURL: o.ChromeURL,
		URL:       o.URL,
		HTMLPath:  o.HTML,
		Headless:  o.Headless,
		MatchURL:  match,
		Logf: func(format string, args ...any) {
			slog.Debug(fmt.Sprintf(format, args...), "component", "chromedp")
		},
	})
	if err != nil {
		return nil, err
	}

	url, err := provider.Document.URL(ctx)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("read page URL: %w", err)
	}
	profile, err := resolveProfile(cfg, o.Profile, url)
	if err != nil {
		provider.Close()
		return nil, err
	}
	slog.Debug("page attached", "backend", o.backend(), "url", url, "profile", profile.Name)
	return &session{Provider: provider, Profile: profile, Config: cfg}, nil
}

// requireTable fails for profiles that cannot run batches.
func requireTable(p config.Profile) error {
	if !p.HasTable() {
		return fmt.Errorf("profile %s has no order table layout", p.Name)
	}
	return nil
}
