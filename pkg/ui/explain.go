package ui

import (
	_ "embed"

	"github.com/charmbracelet/glamour"
)

//go:embed explain.md
var explainDoc string

// ExplainDoc returns the flip-operations file documentation as markdown
func ExplainDoc() string {
	return explainDoc
}

// MarkdownRenderer renders markdown for the terminal
type MarkdownRenderer struct {
	Style string // "auto", "dark", "light", "notty" or a style file path
	Width int    // 0 keeps glamour's default wrapping
}

// NewMarkdownRenderer creates a renderer with automatic style detection
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{Style: "auto"}
}

// Render converts markdown to styled terminal output. On any glamour
// failure the markdown is returned unchanged.
func (r *MarkdownRenderer) Render(content string) string {
	var options []glamour.TermRendererOption

	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	case "dark", "light", "notty":
		options = append(options, glamour.WithStandardStyle(r.Style))
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// RenderExplain returns the documentation for format: styled markdown for
// the terminal, raw markdown otherwise.
func RenderExplain(format Format) string {
	if format == FormatTerminal {
		return NewMarkdownRenderer().Render(ExplainDoc())
	}
	return ExplainDoc()
}
