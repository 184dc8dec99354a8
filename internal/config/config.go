// Package config holds the site profiles: where the order table lives on a
// seller-center page, how long to wait between interactions, and which
// stylesheets to install.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/seller-cli/internal/batch"
	"github.com/mj1618/seller-cli/internal/style"
)

// Profile describes one seller-center site.
type Profile struct {
	Name        string `yaml:"name"                  json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Match lists host/path globs, e.g. "seller.shopee.cn/portal/**".
	Match   []string      `yaml:"match,omitempty"   json:"match,omitempty"`
	Layout  batch.Layout  `yaml:"layout,omitempty"  json:"layout,omitempty"`
	Timings batch.Timings `yaml:"timings,omitempty" json:"timings,omitempty"`
	Styles  style.Sheet   `yaml:"styles,omitempty"  json:"styles,omitempty"`
	// Images selects product images for link copying.
	Images string `yaml:"images,omitempty" json:"images,omitempty"`
}

// HasTable reports whether the profile can run batches.
func (p Profile) HasTable() bool {
	return p.Layout.Table != ""
}

// Matches reports whether the page at rawURL belongs to the profile.
// Patterns are matched against host and path; scheme, query and fragment
// are ignored.
func (p Profile) Matches(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	target := u.Host + u.Path
	for _, pat := range p.Match {
		if ok, _ := doublestar.Match(pat, target); ok {
			return true
		}
	}
	return false
}

// File is the on-disk profile file.
type File struct {
	Profiles []Profile `yaml:"profiles"`
}

// Config is the effective profile list: built-ins overlaid with the user's
// file.
type Config struct {
	Profiles []Profile
	// Source is the file that was loaded, if any.
	Source string
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "seller-cli", "profiles.yaml"), nil
}

// Load reads path and merges it over the built-in profiles. An empty path
// means DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return &Config{Profiles: Builtin()}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{Profiles: Builtin()}, nil
		}
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	f, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	return &Config{Profiles: Merge(Builtin(), f.Profiles), Source: path}, nil
}

// Parse decodes and validates a profile file.
func Parse(data []byte, source string) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return f, fmt.Errorf("parse YAML in %q: %w", source, err)
	}
	if errs := f.Validate(); len(errs) > 0 {
		return f, fmt.Errorf("invalid config in %q: %s", source, strings.Join(errs, "; "))
	}
	return f, nil
}

// Validate checks every profile in the file.
func (f File) Validate() []string {
	var errs []string
	seen := map[string]struct{}{}
	for i, p := range f.Profiles {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Sprintf("profiles[%d].name is required", i))
			continue
		}
		if _, ok := seen[p.Name]; ok {
			errs = append(errs, fmt.Sprintf("profiles[%d] duplicate name %q", i, p.Name))
		}
		seen[p.Name] = struct{}{}
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("profiles[%d] (%s): %v", i, p.Name, err))
		}
	}
	return errs
}

// Validate checks the profile's layout, globs and styles.
func (p Profile) Validate() error {
	var errs []error
	for _, pat := range p.Match {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("invalid match pattern %q", pat))
		}
	}
	if p.HasTable() {
		errs = append(errs, p.Layout.Validate())
	}
	t := p.Timings
	if t.ClickSettle < 0 || t.ChangeSettle < 0 || t.RowPacing < 0 || t.MarkerTTL < 0 {
		errs = append(errs, errors.New("timings must not be negative"))
	}
	for _, g := range p.Styles {
		errs = append(errs, g.Validate())
	}
	return errors.Join(errs...)
}

// Merge overlays user profiles on base. A user profile replaces the base
// profile with the same name; new names are appended.
func Merge(base, user []Profile) []Profile {
	out := make([]Profile, len(base))
	copy(out, base)
	for _, u := range user {
		replaced := false
		for i := range out {
			if out[i].Name == u.Name {
				out[i] = u
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, u)
		}
	}
	return out
}

// Find returns the profile called name.
func (c *Config) Find(name string) (Profile, error) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(c.Names(), ", "))
}

// ForURL returns the first profile whose patterns match rawURL.
func (c *Config) ForURL(rawURL string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.Matches(rawURL) {
			return p, true
		}
	}
	return Profile{}, false
}

// Names lists the profile names in order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Profiles))
	for i, p := range c.Profiles {
		names[i] = p.Name
	}
	return names
}
