// Package ui renders spinflip's console output in terminal, plain text or
// JSON form. Report files are written by pkg/report; this package only
// tells the user what happened.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/report"
)

const sectionRule = "========================================"

// Renderer is the common interface for all console renderers
type Renderer interface {
	// RenderSummary renders the outcome of a run
	RenderSummary(s Summary) error

	// RenderInspection renders the per-operation classification table
	RenderInspection(in Inspection) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error
}

// NewRenderer creates a renderer for format. FormatAuto inspects output
// when it is a file and falls back to plain text otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		r := lipgloss.NewRenderer(output)
		return &consoleRenderer{w: output, styled: true, styles: DefaultStyles(r)}, nil
	case FormatText:
		return &consoleRenderer{w: output}, nil
	case FormatJSON:
		enc := json.NewEncoder(output)
		enc.SetIndent("", "  ")
		return &jsonRenderer{enc: enc}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// consoleRenderer writes the sectioned, human-oriented summary. When styled
// it uses lipgloss styles and pterm prefixes, otherwise bracketed plain
// prefixes.
type consoleRenderer struct {
	w      io.Writer
	styled bool
	styles Styles
	err    error
}

func (r *consoleRenderer) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *consoleRenderer) style(name, text string) string {
	if !r.styled {
		return text
	}
	return r.styles.Render(name, text)
}

func (r *consoleRenderer) section(title string) {
	rule := r.style("Rule", sectionRule)
	r.printf("%s\n%s\n%s\n", rule, r.style("Header", title), rule)
}

func (r *consoleRenderer) field(label, value, valueStyle string) {
	r.printf("%s %s\n", r.style("Label", label+":"), r.style(valueStyle, value))
}

func (r *consoleRenderer) info(msg string) {
	if r.err != nil {
		return
	}
	if r.styled {
		pterm.Info.WithWriter(r.w).Println(msg)
		return
	}
	r.printf("[INFO] %s\n", msg)
}

func (r *consoleRenderer) warning(msg string) {
	if r.err != nil {
		return
	}
	if r.styled {
		pterm.Warning.WithWriter(r.w).Println(msg)
		return
	}
	r.printf("[WARNING] %s\n", msg)
}

func (r *consoleRenderer) RenderSummary(s Summary) error {
	r.err = nil

	r.section("1. Structure Loading")
	r.printf("Successfully loaded '%s' containing %d atoms.\n", r.style("FilePath", s.Structure), s.Atoms)

	r.printf("\n")
	r.section("2. Non-Magnetic Space Group Analysis")
	if s.SpaceGroupFound {
		r.field("Space Group", s.SpaceGroup, "Value")
	} else {
		r.warning("Non-magnetic symmetry detection failed.")
	}

	r.printf("\n")
	r.section("3. Magnetic Configuration")
	r.printf("Using magnetic moments:\n")
	for i, m := range s.Moments {
		symbol := ""
		if i < len(s.Symbols) {
			symbol = s.Symbols[i]
		}
		r.printf("  %3d %-3s [0 0 %s]\n", i+1, symbol, report.FormatNumber(m))
	}
	if s.MomentsPadded > 0 {
		r.warning(fmt.Sprintf("%d atom(s) had no moment and were set to 0.", s.MomentsPadded))
	}
	if s.MomentsTruncated > 0 {
		r.warning(fmt.Sprintf("%d extra moment(s) ignored.", s.MomentsTruncated))
	}

	r.printf("\n")
	r.section("4. Spin Space Group Analysis")
	r.field("Spin-Only Group Type", s.SpinOnlyGroup, "Value")
	r.field("Magnetic Space Group", s.MagneticSpaceGroup, "Value")
	r.field("Total Symmetry Operations", strconv.Itoa(s.Operations), "Value")
	r.field("Spin-Flipping Operations", indexList(s.FlipIndices), "Flip")
	if len(s.Anomalous) > 0 {
		r.warning(fmt.Sprintf("Operations %s have spin rotation determinants far from +1 and -1; they were not counted as flips.",
			indexList(s.Anomalous)))
	}

	if s.LogFile != "" {
		r.printf("\n")
		r.section("5. Saving Results")
		r.info(fmt.Sprintf("All operations written to '%s'", s.LogFile))
		if s.FlipFile != "" {
			r.info(fmt.Sprintf("%d spin-flipping matrices written to '%s'", len(s.FlipIndices), s.FlipFile))
		} else {
			r.warning("No spin-flipping operations found! File not created.")
			if s.StaleFlipFile != "" {
				r.warning(fmt.Sprintf("'%s' is left over from an earlier run and does not describe this structure.", s.StaleFlipFile))
			}
		}
	}

	return r.err
}

func (r *consoleRenderer) RenderInspection(in Inspection) error {
	r.err = nil

	r.field("Non-Magnetic Label", in.NonMagnetic, "Value")
	r.field("Spin-Only Group Type", in.SpinOnlyGroup, "Value")
	r.field("Magnetic Space Group Label", in.MagneticSpaceGroup, "Value")
	r.printf("\n")

	rows := make([][]string, len(in.Rows))
	for i, row := range in.Rows {
		rows[i] = []string{strconv.Itoa(row.Index), report.FormatNumber(float64(row.Determinant)), row.Verdict}
	}

	t := table.New().
		Headers("#", "det(spin rotation)", "verdict").
		Rows(rows...)
	if r.styled {
		t = t.Border(lipgloss.RoundedBorder()).
			BorderStyle(r.styles.Get("Rule")).
			StyleFunc(func(row, col int) lipgloss.Style {
				base := lipgloss.NewStyle().Padding(0, 1)
				if row == table.HeaderRow {
					return base.Inherit(r.styles.Get("Header"))
				}
				if col != 2 || row < 0 || row >= len(in.Rows) {
					return base
				}
				return base.Inherit(r.styles.Get(verdictStyle(in.Rows[row].Verdict)))
			})
	} else {
		t = t.Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				return lipgloss.NewStyle().Padding(0, 1)
			})
	}
	r.printf("%s\n", t.Render())

	r.printf("\n")
	r.field("Spin-Flipping Operations", indexList(in.FlipIndices), "Flip")
	return r.err
}

func (r *consoleRenderer) RenderError(err error) error {
	r.err = nil
	r.printf("%s\n", r.style("Error", "Error: "+err.Error()))
	return r.err
}

func verdictStyle(verdict string) string {
	switch verdict {
	case "flip":
		return "Flip"
	case "anomalous":
		return "Anomalous"
	default:
		return "Preserve"
	}
}

// indexList renders [2, 4]
func indexList(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// jsonRenderer provides JSON output for machine consumption
type jsonRenderer struct {
	enc *json.Encoder
}

func (r *jsonRenderer) RenderSummary(s Summary) error {
	return r.enc.Encode(s)
}

func (r *jsonRenderer) RenderInspection(in Inspection) error {
	return r.enc.Encode(in)
}

func (r *jsonRenderer) RenderError(err error) error {
	obj := map[string]interface{}{
		"error": err.Error(),
		"code":  string(errors.GetErrorCode(err)),
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		obj["details"] = details
	}
	return r.enc.Encode(obj)
}
