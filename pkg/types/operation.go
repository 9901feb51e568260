package types

import (
	"github.com/arthur-debert/spinflip/pkg/errors"
)

// SymmetryOperation is a combined spatial and spin symmetry operation.
// Its identity is its 1-based position inside the OperationSet it came from.
type SymmetryOperation struct {
	Rotation     Matrix3
	Translation  Vector3
	SpinRotation Matrix3
}

// OperationSet is the ordered, read-only sequence of operations produced by
// a spin symmetry search. Operations are never reordered or merged.
type OperationSet struct {
	ops []SymmetryOperation
}

// NewOperationSet zips three index-aligned parallel sequences into an
// OperationSet. The sequences must have equal length; diverging lengths are
// rejected with ErrInvalidInput.
func NewOperationSet(rotations []Matrix3, translations []Vector3, spinRotations []Matrix3) (OperationSet, error) {
	if len(rotations) != len(translations) || len(rotations) != len(spinRotations) {
		return OperationSet{}, errors.Newf(errors.ErrInvalidInput,
			"operation sequences differ in length: %d rotations, %d translations, %d spin rotations",
			len(rotations), len(translations), len(spinRotations)).
			WithDetail("rotations", len(rotations)).
			WithDetail("translations", len(translations)).
			WithDetail("spin_rotations", len(spinRotations))
	}

	ops := make([]SymmetryOperation, len(rotations))
	for i := range rotations {
		ops[i] = SymmetryOperation{
			Rotation:     rotations[i],
			Translation:  translations[i],
			SpinRotation: spinRotations[i],
		}
	}
	return OperationSet{ops: ops}, nil
}

// OperationSetOf builds a set directly from operation triples
func OperationSetOf(ops ...SymmetryOperation) OperationSet {
	cp := make([]SymmetryOperation, len(ops))
	copy(cp, ops)
	return OperationSet{ops: cp}
}

// Len returns the number of operations
func (s OperationSet) Len() int {
	return len(s.ops)
}

// At returns the operation at the given 0-based position
func (s OperationSet) At(i int) SymmetryOperation {
	return s.ops[i]
}

// Operations returns a copy of the operations in their original order
func (s OperationSet) Operations() []SymmetryOperation {
	cp := make([]SymmetryOperation, len(s.ops))
	copy(cp, s.ops)
	return cp
}

// Rotations returns the spatial rotation sequence
func (s OperationSet) Rotations() []Matrix3 {
	out := make([]Matrix3, len(s.ops))
	for i, op := range s.ops {
		out[i] = op.Rotation
	}
	return out
}

// Translations returns the spatial translation sequence
func (s OperationSet) Translations() []Vector3 {
	out := make([]Vector3, len(s.ops))
	for i, op := range s.ops {
		out[i] = op.Translation
	}
	return out
}

// SpinRotations returns the spin rotation sequence
func (s OperationSet) SpinRotations() []Matrix3 {
	out := make([]Matrix3, len(s.ops))
	for i, op := range s.ops {
		out[i] = op.SpinRotation
	}
	return out
}
