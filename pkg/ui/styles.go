package ui

import (
	_ "embed"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/spinflip/pkg/errors"
)

// ColorDef is an adaptive color definition
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style definition referring to colors by name
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// StylesConfig is the styles.yaml document
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles
type Styles map[string]lipgloss.Style

//go:embed styles.yaml
var embeddedStyles []byte

// DefaultStyles returns the built-in styles, or unstyled entries if the
// embedded definition cannot be parsed.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	s, err := LoadStyles(embeddedStyles, r)
	if err != nil {
		return Styles{}
	}
	return s
}

// LoadStyles builds styles from a styles.yaml document
func LoadStyles(data []byte, r *lipgloss.Renderer) (Styles, error) {
	var cfg StylesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "failed to parse styles")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	out := make(Styles, len(cfg.Styles))
	for name, def := range cfg.Styles {
		out[name] = buildStyle(r, def, colors)
	}
	return out, nil
}

func buildStyle(r *lipgloss.Renderer, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := r.NewStyle()
	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if c, ok := colors[def.Foreground]; ok {
		style = style.Foreground(c)
	}
	if c, ok := colors[def.Background]; ok {
		style = style.Background(c)
	}
	return style
}

// Get returns the named style, or a plain one when it is not defined
func (s Styles) Get(name string) lipgloss.Style {
	if style, ok := s[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Render applies the named style to text
func (s Styles) Render(name, text string) string {
	return s.Get(name).Render(text)
}
