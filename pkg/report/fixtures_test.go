package report_test

import (
	"github.com/arthur-debert/spinflip/pkg/types"
)

var (
	identity = types.Identity3()
	swapXY   = types.Matrix3{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}}
	rot2z    = types.Matrix3{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}}
	mirrorXY = types.Matrix3{{0, -1, 0}, {-1, 0, 0}, {0, 0, 1}}
	minusI   = types.Matrix3{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
)

// fourOps has spin rotation determinants +1, -1, +1, -1
func fourOps() types.OperationSet {
	return types.OperationSetOf(
		types.SymmetryOperation{Rotation: identity, Translation: types.Vector3{0, 0, 0}, SpinRotation: identity},
		types.SymmetryOperation{Rotation: swapXY, Translation: types.Vector3{0, 0, 0.5}, SpinRotation: minusI},
		types.SymmetryOperation{Rotation: rot2z, Translation: types.Vector3{1.0 / 3, 2.0 / 3, 0}, SpinRotation: identity},
		types.SymmetryOperation{Rotation: mirrorXY, Translation: types.Vector3{0.5, 0.5, 0.5}, SpinRotation: minusI},
	)
}

func fourOpsClasses() []types.FlipClassification {
	return []types.FlipClassification{
		{Index: 1, Flip: false, Determinant: 1, Verdict: types.VerdictPreserve},
		{Index: 2, Flip: true, Determinant: -1, Verdict: types.VerdictFlip},
		{Index: 3, Flip: false, Determinant: 1, Verdict: types.VerdictPreserve},
		{Index: 4, Flip: true, Determinant: -1, Verdict: types.VerdictFlip},
	}
}

func noFlipClasses(n int) []types.FlipClassification {
	out := make([]types.FlipClassification, n)
	for i := range out {
		out[i] = types.FlipClassification{Index: i + 1, Determinant: 1, Verdict: types.VerdictPreserve}
	}
	return out
}

func sampleLabels() types.LabelInfo {
	return types.LabelInfo{
		NonMagnetic:        types.FoundLabel("P4/mmm (123)"),
		SpinOnlyGroup:      types.FoundLabel("collinear"),
		MagneticSpaceGroup: types.UnavailableLabel(types.PlaceholderNotFound, "labeler unavailable"),
	}
}
