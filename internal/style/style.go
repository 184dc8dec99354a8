// Package style renders typed CSS rule groups into stylesheets and installs
// them on a page.
package style

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/seller-cli/internal/platform"
)

// Declaration is one CSS property.
type Declaration struct {
	Property string `yaml:"property" json:"property"`
	Value    string `yaml:"value"    json:"value"`
}

// Rule applies declarations to a selector.
type Rule struct {
	Selector     string        `yaml:"selector"     json:"selector"`
	Declarations []Declaration `yaml:"declarations" json:"declarations"`
}

// Group is a named set of rules that is injected or removed as one sheet.
type Group struct {
	Name    string `yaml:"name"      json:"name"`
	Enabled bool   `yaml:"enabled"   json:"enabled"`
	// Important appends !important to every declaration.
	Important bool   `yaml:"important" json:"important"`
	Rules     []Rule `yaml:"rules"     json:"rules"`
}

// ID is the id of the style element holding the group.
func (g Group) ID() string {
	return "seller-cli-" + g.Name
}

// Render produces the group's stylesheet. Rules keep their order and are
// separated by a blank line.
func Render(g Group) string {
	blocks := make([]string, 0, len(g.Rules))
	for _, r := range g.Rules {
		var b strings.Builder
		b.WriteString(r.Selector)
		b.WriteString(" {\n")
		for _, d := range r.Declarations {
			fmt.Fprintf(&b, "  %s: %s", d.Property, d.Value)
			if g.Important {
				b.WriteString(" !important")
			}
			b.WriteString(";\n")
		}
		b.WriteString("}")
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// Validate reports groups that cannot be rendered.
func (g Group) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("style group without a name")
	}
	for i, r := range g.Rules {
		if strings.TrimSpace(r.Selector) == "" {
			return fmt.Errorf("style group %s: rule %d has no selector", g.Name, i)
		}
		for _, d := range r.Declarations {
			if d.Property == "" {
				return fmt.Errorf("style group %s: rule %s has a declaration without a property", g.Name, r.Selector)
			}
		}
	}
	return nil
}

// Sheet is an ordered list of groups.
type Sheet []Group

// Enabled returns the enabled groups in order.
func (s Sheet) Enabled() Sheet {
	var out Sheet
	for _, g := range s {
		if g.Enabled {
			out = append(out, g)
		}
	}
	return out
}

// Find returns the group called name.
func (s Sheet) Find(name string) (Group, bool) {
	for _, g := range s {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Toggle returns a copy of s with the named group switched on or off.
func (s Sheet) Toggle(name string, on bool) (Sheet, error) {
	out := make(Sheet, len(s))
	copy(out, s)
	for i := range out {
		if out[i].Name == name {
			out[i].Enabled = on
			return out, nil
		}
	}
	return nil, fmt.Errorf("unknown style group %q", name)
}

// Render concatenates the enabled groups.
func (s Sheet) Render() string {
	var parts []string
	for _, g := range s.Enabled() {
		if css := Render(g); css != "" {
			parts = append(parts, "/* "+g.Name+" */\n"+css)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Apply injects every enabled group and removes every disabled one. It
// returns the names of the injected groups.
func Apply(ctx context.Context, inj platform.StyleInjector, s Sheet) ([]string, error) {
	var applied []string
	for _, g := range s {
		if !g.Enabled {
			if err := inj.RemoveStyle(ctx, g.ID()); err != nil {
				return applied, fmt.Errorf("remove style %s: %w", g.Name, err)
			}
			continue
		}
		if err := inj.InjectStyle(ctx, g.ID(), Render(g)); err != nil {
			return applied, fmt.Errorf("inject style %s: %w", g.Name, err)
		}
		applied = append(applied, g.Name)
	}
	return applied, nil
}

// Remove takes every group of s off the page.
func Remove(ctx context.Context, inj platform.StyleInjector, s Sheet) error {
	for _, g := range s {
		if err := inj.RemoveStyle(ctx, g.ID()); err != nil {
			return fmt.Errorf("remove style %s: %w", g.Name, err)
		}
	}
	return nil
}

// Decl is shorthand for building declarations in code.
func Decl(property, value string) Declaration {
	return Declaration{Property: property, Value: value}
}
