// Package themes holds the colour palettes the web UI can switch between.
package themes

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed themes.yaml
var builtin []byte

// Theme is a named set of CSS custom properties
type Theme struct {
	Name        string            `yaml:"name" json:"name"`
	Label       string            `yaml:"label" json:"label"`
	ColorScheme string            `yaml:"color_scheme" json:"color_scheme"`
	Vars        map[string]string `yaml:"vars" json:"vars"`
}

// CSS renders the palette as declarations for a :root rule
func (t Theme) CSS() string {
	keys := make([]string, 0, len(t.Vars))
	for k := range t.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s; ", k, t.Vars[k])
	}
	fmt.Fprintf(&b, "color-scheme: %s;", t.ColorScheme)
	return b.String()
}

type file struct {
	Default string  `yaml:"default"`
	Themes  []Theme `yaml:"themes"`
}

// Registry resolves theme names to palettes
type Registry struct {
	themes []Theme
	byName map[string]int
	def    string
}

// Builtin returns the registry of the bundled themes
func Builtin() *Registry {
	r, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("bundled themes: %v", err))
	}
	return r
}

// LoadFile reads a theme file from disk
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML theme file. The default must name one of its themes.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse themes: %w", err)
	}
	if len(f.Themes) == 0 {
		return nil, fmt.Errorf("no themes defined")
	}

	r := &Registry{byName: make(map[string]int, len(f.Themes))}
	for _, t := range f.Themes {
		if t.Name == "" {
			return nil, fmt.Errorf("theme without a name")
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate theme %q", t.Name)
		}
		if t.ColorScheme == "" {
			t.ColorScheme = "dark"
		}
		r.byName[t.Name] = len(r.themes)
		r.themes = append(r.themes, t)
	}

	r.def = f.Default
	if r.def == "" {
		r.def = f.Themes[0].Name
	}
	if _, ok := r.byName[r.def]; !ok {
		return nil, fmt.Errorf("default theme %q is not defined", r.def)
	}
	return r, nil
}

// SetDefault changes the fallback theme. Unknown names are rejected.
func (r *Registry) SetDefault(name string) error {
	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	r.def = name
	return nil
}

// Default returns the fallback theme
func (r *Registry) Default() Theme {
	return r.themes[r.byName[r.def]]
}

// List returns the themes in file order
func (r *Registry) List() []Theme {
	return append([]Theme(nil), r.themes...)
}

// Get looks up a theme by name
func (r *Registry) Get(name string) (Theme, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Theme{}, false
	}
	return r.themes[i], true
}

// Resolve returns the named theme, or the default for unknown names
func (r *Registry) Resolve(name string) Theme {
	if t, ok := r.Get(name); ok {
		return t
	}
	return r.Default()
}

// Next returns the theme after name, wrapping around
func (r *Registry) Next(name string) Theme {
	i, ok := r.byName[name]
	if !ok {
		return r.Default()
	}
	return r.themes[(i+1)%len(r.themes)]
}
