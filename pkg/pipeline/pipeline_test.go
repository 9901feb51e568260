package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/spinflip/pkg/config"
	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/pipeline"
	"github.com/arthur-debert/spinflip/pkg/symmetry"
	"github.com/arthur-debert/spinflip/pkg/symmetry/symmetrytest"
	"github.com/arthur-debert/spinflip/pkg/testutil"
	"github.com/arthur-debert/spinflip/pkg/types"
)

const poscar = `bcc Fe
1.0
2.87 0 0
0 2.87 0
0 0 2.87
Fe
2
Direct
0 0 0
0.5 0.5 0.5
`

const logPath = "/out/spin_operations.txt"
const flipPath = "/out/flip_spin_operations.txt"

var (
	identity = types.Identity3()
	minusI   = types.Matrix3{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
	swapXY   = types.Matrix3{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}}
)

func testConfig() config.Config {
	return config.Config{
		Structure: config.StructureConfig{Path: "POSCAR", Format: config.FormatAuto},
		Symmetry: config.SymmetryConfig{
			Source:  config.SourceFile,
			Dataset: "spin_symmetry.yaml",
			Symprec: symmetry.DefaultSymprec,
		},
		Moments:  config.MomentsConfig{Values: []float64{2.2}, Policy: config.PolicyPad},
		Classify: config.ClassifyConfig{ATol: 1e-8, RTol: 1e-5, Anomaly: config.AnomalyWarn},
		Output: config.OutputConfig{
			Dir:      "/out",
			LogFile:  "spin_operations.txt",
			FlipFile: "flip_spin_operations.txt",
		},
	}
}

func memFs(t *testing.T) afero.Fs {
	t.Helper()
	return testutil.MemFS(t, map[string]string{"POSCAR": poscar})
}

func opsWithSpins(spins ...types.Matrix3) types.OperationSet {
	ops := make([]types.SymmetryOperation, len(spins))
	for i, s := range spins {
		rot := identity
		if i%2 == 1 {
			rot = swapXY
		}
		ops[i] = types.SymmetryOperation{Rotation: rot, SpinRotation: s}
	}
	return types.OperationSetOf(ops...)
}

func mockSource(set types.OperationSet) *symmetrytest.MockSource {
	src := &symmetrytest.MockSource{}
	src.On("SpaceGroup", mock.Anything, mock.Anything, symmetry.DefaultSymprec).
		Return(types.FoundLabel("Im-3m (229)"))
	src.On("SpinSymmetry", mock.Anything, mock.Anything, mock.Anything, symmetry.DefaultSymprec).
		Return(symmetry.SpinSymmetry{SpinOnlyGroup: types.FoundLabel("collinear"), Operations: set}, nil)
	src.On("MagneticSpaceGroup", mock.Anything, mock.Anything, mock.Anything, symmetry.DefaultSymprec).
		Return(types.FoundLabel("Im-3m' (MSG No. 1620)"))
	return src
}

func TestRun_FlipsInMiddleAndEnd(t *testing.T) {
	fs := memFs(t)
	src := mockSource(opsWithSpins(identity, minusI, identity, minusI))

	res, err := pipeline.Run(context.Background(), testConfig(), pipeline.Deps{Fs: fs, Source: src})
	require.NoError(t, err)
	src.AssertExpectations(t)

	assert.Equal(t, 2, res.Flips())
	assert.Empty(t, res.Anomalous)
	assert.True(t, res.Outcome.FlipsWritten)
	assert.Equal(t, []int{2, 4}, res.Outcome.Flips.Indices)

	full, err := afero.ReadFile(fs, logPath)
	require.NoError(t, err)
	assert.Contains(t, string(full), "Total Symmetry Operations: 4\n")
	assert.Contains(t, string(full), "Non-Magnetic Label: Im-3m (229)\n")
	assert.Contains(t, string(full), "Magnetic Space Group Label: Im-3m' (MSG No. 1620)\n")
	assert.Equal(t, 4, strings.Count(string(full), "  Spin Rotation:\n"))

	flips, err := afero.ReadFile(fs, flipPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(flips),
		"# Found 2 spin-flipping operations\n# Original Indices: [2, 4]\nOperation_1\n0 1 0\n1 0 0\n0 0 1\n\nOperation_2\n"))
}

func TestRun_MomentsArePaddedCollinearVectors(t *testing.T) {
	fs := memFs(t)
	src := mockSource(opsWithSpins(identity))

	res, err := pipeline.Run(context.Background(), testConfig(), pipeline.Deps{Fs: fs, Source: src})
	require.NoError(t, err)

	want := types.Moments{{0, 0, 2.2}, {0, 0, 0}}
	assert.Equal(t, want, res.Moments)
	assert.Equal(t, 1, res.Adjustment.Padded)
	src.AssertCalled(t, "SpinSymmetry", mock.Anything, mock.Anything, want, symmetry.DefaultSymprec)
}

func TestRun_NoFlipsWritesOnlyLog(t *testing.T) {
	fs := memFs(t)
	src := mockSource(opsWithSpins(identity, identity))

	res, err := pipeline.Run(context.Background(), testConfig(), pipeline.Deps{Fs: fs, Source: src})
	require.NoError(t, err)
	assert.False(t, res.Outcome.FlipsWritten)

	exists, _ := afero.Exists(fs, logPath)
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, flipPath)
	assert.False(t, exists)
}

func TestRun_DegradedLabels(t *testing.T) {
	fs := memFs(t)
	src := &symmetrytest.MockSource{}
	src.On("SpaceGroup", mock.Anything, mock.Anything, mock.Anything).
		Return(types.UnavailableLabel(types.PlaceholderUnknown, "no dataset"))
	src.On("SpinSymmetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(symmetry.SpinSymmetry{SpinOnlyGroup: types.FoundLabel("collinear"), Operations: opsWithSpins(minusI)}, nil)
	src.On("MagneticSpaceGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(types.UnavailableLabel(types.PlaceholderNotFound, "no labeler"))

	_, err := pipeline.Run(context.Background(), testConfig(), pipeline.Deps{Fs: fs, Source: src})
	require.NoError(t, err)

	full, err := afero.ReadFile(fs, logPath)
	require.NoError(t, err)
	assert.Contains(t, string(full),
		"Non-Magnetic Label: Unknown\nSpin-Only Group Type: collinear\nMagnetic Space Group Label: Not found\n")
}

func TestRun_FatalErrorsLeaveNoOutput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		source func() *symmetrytest.MockSource
		code   errors.ErrorCode
	}{
		{
			name:   "missing_structure",
			mutate: func(c *config.Config) { c.Structure.Path = "CONTCAR" },
			source: func() *symmetrytest.MockSource { return mockSource(opsWithSpins(minusI)) },
			code:   errors.ErrFileNotFound,
		},
		{
			name:   "strict_moment_count",
			mutate: func(c *config.Config) { c.Moments.Policy = config.PolicyStrict },
			source: func() *symmetrytest.MockSource { return mockSource(opsWithSpins(minusI)) },
			code:   errors.ErrInvalidInput,
		},
		{
			name:   "anomalous_determinant_under_error_policy",
			mutate: func(c *config.Config) { c.Classify.Anomaly = config.AnomalyError },
			source: func() *symmetrytest.MockSource {
				return mockSource(opsWithSpins(minusI, types.Matrix3{{0.5, 0, 0}, {0, 1, 0}, {0, 0, 1}}))
			},
			code: errors.ErrDataQuality,
		},
		{
			name:   "invalid_config",
			mutate: func(c *config.Config) { c.Classify.Anomaly = "shout" },
			source: func() *symmetrytest.MockSource { return mockSource(opsWithSpins(minusI)) },
			code:   errors.ErrConfigValid,
		},
		{
			name:   "search_failure",
			mutate: func(*config.Config) {},
			source: func() *symmetrytest.MockSource {
				src := &symmetrytest.MockSource{}
				src.On("SpaceGroup", mock.Anything, mock.Anything, mock.Anything).Return(types.FoundLabel("Im-3m (229)"))
				src.On("SpinSymmetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(symmetry.SpinSymmetry{}, errors.New(errors.ErrSourceExecute, "helper crashed"))
				return src
			},
			code: errors.ErrSourceExecute,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFs(t)
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := pipeline.Run(context.Background(), cfg, pipeline.Deps{Fs: fs, Source: tt.source()})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)

			exists, _ := afero.DirExists(fs, "/out")
			assert.False(t, exists)
		})
	}
}

func TestRun_WriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(memFs(t))
	src := mockSource(opsWithSpins(identity, minusI))

	_, err := pipeline.Run(context.Background(), testConfig(), pipeline.Deps{Fs: fs, Source: src})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))
}

func TestRun_AnomaliesAreReportedNotFlipped(t *testing.T) {
	fs := memFs(t)
	odd := types.Matrix3{{0.5, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	src := mockSource(opsWithSpins(identity, odd, minusI))

	res, err := pipeline.Run(context.Background(), testConfig(), pipeline.Deps{Fs: fs, Source: src})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.Anomalous)
	assert.Equal(t, []int{3}, res.Outcome.Flips.Indices)
}

func TestAnalyze_WritesNothing(t *testing.T) {
	fs := memFs(t)
	src := mockSource(opsWithSpins(minusI))

	res, err := pipeline.Analyze(context.Background(), testConfig(), pipeline.Deps{Fs: fs, Source: src})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Flips())
	assert.Empty(t, res.Outcome.LogPath)

	exists, _ := afero.DirExists(fs, "/out")
	assert.False(t, exists)
}

func TestRun_DefaultFileSource(t *testing.T) {
	fs := memFs(t)
	dataset := `spin_only_group: collinear
space_group: {symbol: Im-3m, number: 229}
rotations: [[[1, 0, 0], [0, 1, 0], [0, 0, 1]], [[0, 1, 0], [1, 0, 0], [0, 0, 1]]]
translations: [[0, 0, 0], [0.5, 0.5, 0.5]]
spin_rotations: [[[1, 0, 0], [0, 1, 0], [0, 0, 1]], [[-1, 0, 0], [0, -1, 0], [0, 0, -1]]]
`
	testutil.WriteFile(t, fs, "spin_symmetry.yaml", dataset)

	res, err := pipeline.Run(context.Background(), testConfig(), pipeline.Deps{Fs: fs})
	require.NoError(t, err)
	assert.Equal(t, "Im-3m (229)", res.Labels.NonMagnetic.String())
	assert.Equal(t, "Not found", res.Labels.MagneticSpaceGroup.String())
	assert.Equal(t, []int{2}, res.Outcome.Flips.Indices)
}

func TestNewSource(t *testing.T) {
	fs := afero.NewMemMapFs()

	src, err := pipeline.NewSource(config.SymmetryConfig{Source: config.SourceFile, Dataset: "ds.json"}, fs)
	require.NoError(t, err)
	assert.IsType(t, &symmetry.FileSource{}, src)

	src, err = pipeline.NewSource(config.SymmetryConfig{Source: config.SourceExec, Command: []string{"spin-helper"}}, fs)
	require.NoError(t, err)
	assert.IsType(t, &symmetry.ExecSource{}, src)

	_, err = pipeline.NewSource(config.SymmetryConfig{Source: "carrier-pigeon"}, fs)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
