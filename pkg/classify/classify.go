// Package classify decides which symmetry operations flip spin.
//
// An operation flips spin when the determinant of its spin rotation is
// close to -1. Closeness follows numpy.isclose semantics:
//
//	|det - target| <= ATol + RTol*|target|
//
// Determinants close to neither +1 nor -1 are anomalous. They are never
// counted as flips; AnomalyPolicy decides whether they are reported.
package classify

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/logging"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// Default tolerances, matching numpy.isclose
const (
	DefaultATol = 1e-8
	DefaultRTol = 1e-5
)

// AnomalyPolicy selects how anomalous determinants are surfaced
type AnomalyPolicy string

const (
	AnomalyIgnore AnomalyPolicy = "ignore"
	AnomalyWarn   AnomalyPolicy = "warn"
	AnomalyError  AnomalyPolicy = "error"
)

// Classifier holds the comparison tolerances. The zero value is not
// usable; construct with New or fill both tolerances.
type Classifier struct {
	ATol    float64
	RTol    float64
	Anomaly AnomalyPolicy
}

// New returns a Classifier with numpy default tolerances and the warn policy
func New() *Classifier {
	return &Classifier{
		ATol:    DefaultATol,
		RTol:    DefaultRTol,
		Anomaly: AnomalyWarn,
	}
}

// WithTolerance overrides the tolerances
func (c *Classifier) WithTolerance(atol, rtol float64) *Classifier {
	c.ATol = atol
	c.RTol = rtol
	return c
}

// WithAnomalyPolicy overrides the anomaly policy
func (c *Classifier) WithAnomalyPolicy(p AnomalyPolicy) *Classifier {
	c.Anomaly = p
	return c
}

// Determinant returns det(m)
func Determinant(m types.Matrix3) float64 {
	return mat.Det(mat.NewDense(3, 3, m.Flat()))
}

// close reports |a - target| <= atol + rtol*|target|
func (c *Classifier) close(a, target float64) bool {
	if math.IsNaN(a) {
		return false
	}
	return scalar.EqualWithinAbs(a, target, c.ATol+c.RTol*math.Abs(target))
}

// VerdictFor classifies a determinant value
func (c *Classifier) VerdictFor(det float64) types.Verdict {
	switch {
	case c.close(det, -1):
		return types.VerdictFlip
	case c.close(det, 1):
		return types.VerdictPreserve
	default:
		return types.VerdictAnomalous
	}
}

// IsSpinFlip reports whether the spin rotation inverts spin
func (c *Classifier) IsSpinFlip(spinRotation types.Matrix3) bool {
	return c.VerdictFor(Determinant(spinRotation)) == types.VerdictFlip
}

// ClassifyOne classifies a single operation at the given 1-based index
func (c *Classifier) ClassifyOne(index int, op types.SymmetryOperation) types.FlipClassification {
	det := Determinant(op.SpinRotation)
	verdict := c.VerdictFor(det)
	return types.FlipClassification{
		Index:       index,
		Flip:        verdict == types.VerdictFlip,
		Determinant: det,
		Verdict:     verdict,
	}
}

// Classify classifies every operation in input order. It only fails under
// AnomalyError, naming every anomalous operation.
func (c *Classifier) Classify(set types.OperationSet) ([]types.FlipClassification, error) {
	logger := logging.GetLogger("classify")
	classes := make([]types.FlipClassification, set.Len())
	var anomalous []int

	for i := 0; i < set.Len(); i++ {
		fc := c.ClassifyOne(i+1, set.At(i))
		classes[i] = fc

		if fc.Verdict != types.VerdictAnomalous {
			continue
		}
		anomalous = append(anomalous, fc.Index)
		if c.Anomaly == AnomalyWarn {
			logger.Warn().
				Int("operation", fc.Index).
				Float64("determinant", fc.Determinant).
				Msg("Spin rotation determinant is neither +1 nor -1, treating as spin-preserving")
		}
	}

	if len(anomalous) > 0 && c.Anomaly == AnomalyError {
		return nil, errors.Newf(errors.ErrDataQuality,
			"%d spin rotation(s) have a determinant far from +1 and -1", len(anomalous)).
			WithDetail("operations", anomalous)
	}

	logger.Debug().
		Int("operations", set.Len()).
		Int("flips", types.CountFlips(classes)).
		Int("anomalous", len(anomalous)).
		Msg("Classified operations")

	return classes, nil
}
