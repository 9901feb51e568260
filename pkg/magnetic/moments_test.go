package magnetic_test

import (
	"math"
	"testing"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/magnetic"
	"github.com/arthur-debert/spinflip/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []float64
	}{
		{name: "space_separated", input: "1 -1", want: []float64{1, -1}},
		{name: "comma_separated", input: "2.5,-2.5,0", want: []float64{2.5, -2.5, 0}},
		{name: "mixed_whitespace", input: "  3\t-3  \n", want: []float64{3, -3}},
		{name: "empty", input: "", want: []float64{}},
		{name: "scientific", input: "1e-1 -4E0", want: []float64{0.1, -4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := magnetic.ParseValues(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValues_RejectsNonNumeric(t *testing.T) {
	_, err := magnetic.ParseValues("1 up -1")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, 2, errors.GetErrorDetails(err)["position"])
}

func TestParseValues_RejectsNonFinite(t *testing.T) {
	for _, input := range []string{"1 inf", "1 -Inf", "1 NaN", "1 +infinity"} {
		t.Run(input, func(t *testing.T) {
			_, err := magnetic.ParseValues(input)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
			assert.Equal(t, 2, errors.GetErrorDetails(err)["position"])
		})
	}
}

func TestBuild_RejectsNonFinite(t *testing.T) {
	for _, policy := range []string{magnetic.PolicyPad, magnetic.PolicyStrict} {
		t.Run(policy, func(t *testing.T) {
			_, _, err := magnetic.Build([]float64{1, math.Inf(-1)}, 2, policy)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

			_, _, err = magnetic.Build([]float64{math.NaN(), 1}, 2, policy)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		})
	}
}

func TestBuild_Pad(t *testing.T) {
	t.Run("pads_short_list_with_zero", func(t *testing.T) {
		moments, adj, err := magnetic.Build([]float64{1, -1}, 4, magnetic.PolicyPad)
		require.NoError(t, err)
		assert.Equal(t, types.Moments{{0, 0, 1}, {0, 0, -1}, {0, 0, 0}, {0, 0, 0}}, moments)
		assert.Equal(t, 2, adj.Padded)
		assert.True(t, adj.Changed())
	})

	t.Run("truncates_long_list", func(t *testing.T) {
		moments, adj, err := magnetic.Build([]float64{1, -1, 5}, 2, magnetic.PolicyPad)
		require.NoError(t, err)
		assert.Equal(t, types.Moments{{0, 0, 1}, {0, 0, -1}}, moments)
		assert.Equal(t, 1, adj.Truncated)
	})

	t.Run("exact_length_unchanged", func(t *testing.T) {
		_, adj, err := magnetic.Build([]float64{1, -1}, 2, magnetic.PolicyPad)
		require.NoError(t, err)
		assert.False(t, adj.Changed())
	})

	t.Run("no_values_means_nonmagnetic", func(t *testing.T) {
		moments, _, err := magnetic.Build(nil, 3, magnetic.PolicyPad)
		require.NoError(t, err)
		assert.Len(t, moments, 3)
		assert.Equal(t, []float64{0, 0, 0}, magnetic.Scalars(moments))
	})
}

func TestBuild_Strict(t *testing.T) {
	_, _, err := magnetic.Build([]float64{1}, 2, magnetic.PolicyStrict)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	moments, _, err := magnetic.Build([]float64{1, -1}, 2, magnetic.PolicyStrict)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -1}, magnetic.Scalars(moments))
}

func TestBuild_UnknownPolicy(t *testing.T) {
	_, _, err := magnetic.Build([]float64{1}, 1, "stretch")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
