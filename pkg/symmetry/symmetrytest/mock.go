// Package symmetrytest provides a testify mock of symmetry.Source
package symmetrytest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/arthur-debert/spinflip/pkg/symmetry"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// MockSource is a mock implementation of symmetry.Source
type MockSource struct {
	mock.Mock
}

var _ symmetry.Source = (*MockSource)(nil)

func (m *MockSource) SpaceGroup(ctx context.Context, s types.Structure, symprec float64) types.Label {
	args := m.Called(ctx, s, symprec)
	return args.Get(0).(types.Label)
}

func (m *MockSource) SpinSymmetry(ctx context.Context, s types.Structure, moments types.Moments, symprec float64) (symmetry.SpinSymmetry, error) {
	args := m.Called(ctx, s, moments, symprec)
	return args.Get(0).(symmetry.SpinSymmetry), args.Error(1)
}

func (m *MockSource) MagneticSpaceGroup(ctx context.Context, s types.Structure, moments types.Moments, symprec float64) types.Label {
	args := m.Called(ctx, s, moments, symprec)
	return args.Get(0).(types.Label)
}
