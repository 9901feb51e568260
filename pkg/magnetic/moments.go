// Package magnetic turns user-supplied scalar moments into per-atom
// magnetic moment vectors.
package magnetic

import (
	"math"
	"strconv"
	"strings"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// Count policies applied when the moment list length differs from the
// number of atoms.
const (
	PolicyPad    = "pad"
	PolicyStrict = "strict"
)

// Adjustment records what a policy did to the supplied list
type Adjustment struct {
	Supplied  int
	Atoms     int
	Padded    int
	Truncated int
}

// Changed reports whether the supplied list was padded or truncated
func (a Adjustment) Changed() bool {
	return a.Padded > 0 || a.Truncated > 0
}

// ParseValues parses whitespace- or comma-separated numbers such as "1 -1"
// or "2.5,-2.5". Empty input yields an empty list.
func ParseValues(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	values := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput,
				"invalid magnetic moment %q: please enter numbers", f).
				WithDetail("position", i+1)
		}
		values = append(values, v)
	}
	if err := checkFinite(values); err != nil {
		return nil, err
	}
	return values, nil
}

// checkFinite rejects NaN and infinite moments
func checkFinite(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrInvalidInput,
				"invalid magnetic moment %v: moments must be finite numbers", v).
				WithDetail("position", i+1)
		}
	}
	return nil
}

// Build makes one collinear moment vector [0, 0, m] per atom.
//
// Under PolicyPad a short list is padded with zero moments and a long list
// is truncated to numAtoms. Under PolicyStrict any mismatch is an error.
// NaN and infinite values are rejected under either policy.
func Build(values []float64, numAtoms int, policy string) (types.Moments, Adjustment, error) {
	adj := Adjustment{Supplied: len(values), Atoms: numAtoms}
	if err := checkFinite(values); err != nil {
		return nil, adj, err
	}

	switch policy {
	case PolicyPad:
	case PolicyStrict:
		if len(values) != numAtoms {
			return nil, adj, errors.Newf(errors.ErrInvalidInput,
				"got %d magnetic moments for %d atoms", len(values), numAtoms).
				WithDetail("supplied", len(values)).
				WithDetail("atoms", numAtoms)
		}
	default:
		return nil, adj, errors.Newf(errors.ErrConfigValid, "unknown moment policy %q", policy)
	}

	if len(values) < numAtoms {
		adj.Padded = numAtoms - len(values)
	} else if len(values) > numAtoms {
		adj.Truncated = len(values) - numAtoms
	}

	moments := make(types.Moments, numAtoms)
	for i := 0; i < numAtoms && i < len(values); i++ {
		moments[i] = types.Vector3{0, 0, values[i]}
	}
	return moments, adj, nil
}

// Scalars returns the z component of each moment, the form expected by
// magnetic space group labelers.
func Scalars(moments types.Moments) []float64 {
	out := make([]float64, len(moments))
	for i, m := range moments {
		out[i] = m[2]
	}
	return out
}
