// Package symmetry connects spinflip to the external symmetry analysis.
//
// Space-group detection, spin-space-group search and magnetic space group
// labelling are done by crystallographic tools outside this program. A
// Source hands their results over, either from an exported dataset file
// (FileSource) or by running a helper command (ExecSource).
package symmetry

import (
	"context"
	"fmt"

	"github.com/arthur-debert/spinflip/pkg/types"
)

// DefaultSymprec is the symmetry tolerance handed to the analysis
const DefaultSymprec = 1e-5

// SpinSymmetry is the result of a spin-space-group search
type SpinSymmetry struct {
	SpinOnlyGroup types.Label
	Operations    types.OperationSet
}

// SpaceGroupAnalyzer detects the non-magnetic space group. Failure degrades
// to an unavailable label.
type SpaceGroupAnalyzer interface {
	SpaceGroup(ctx context.Context, s types.Structure, symprec float64) types.Label
}

// SpinSymmetrySearcher finds the spin-space-group operations
type SpinSymmetrySearcher interface {
	SpinSymmetry(ctx context.Context, s types.Structure, moments types.Moments, symprec float64) (SpinSymmetry, error)
}

// MagneticLabeler names the magnetic space group. Failure degrades to an
// unavailable label.
type MagneticLabeler interface {
	MagneticSpaceGroup(ctx context.Context, s types.Structure, moments types.Moments, symprec float64) types.Label
}

// Source provides all three collaborators
type Source interface {
	SpaceGroupAnalyzer
	SpinSymmetrySearcher
	MagneticLabeler
}

// SpaceGroupLabel formats "<international> (<number>)"
func SpaceGroupLabel(sg *SpaceGroupData) types.Label {
	if sg == nil || sg.Symbol == "" {
		return types.UnavailableLabel(types.PlaceholderUnknown, "non-magnetic symmetry detection failed")
	}
	return types.FoundLabel(fmt.Sprintf("%s (%d)", sg.Symbol, sg.Number))
}

// MagneticLabel prefers the unified symbol with its number, then the
// international symbol.
func MagneticLabel(m *MagneticData) types.Label {
	switch {
	case m == nil:
		return types.UnavailableLabel(types.PlaceholderNotFound, "no magnetic dataset")
	case m.UniSymbol != "":
		return types.FoundLabel(fmt.Sprintf("%s (MSG No. %d)", m.UniSymbol, m.UniNumber))
	case m.International != "":
		return types.FoundLabel(m.International)
	default:
		return types.UnavailableLabel(types.PlaceholderNotFound, "magnetic dataset has no symbol")
	}
}

// SpinOnlyLabel wraps the spin-only group type
func SpinOnlyLabel(text string) types.Label {
	if text == "" {
		return types.UnavailableLabel(types.PlaceholderUnknown, "spin-only group type missing")
	}
	return types.FoundLabel(text)
}
