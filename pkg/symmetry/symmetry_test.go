package symmetry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/symmetry"
	"github.com/arthur-debert/spinflip/pkg/types"
)

func twoAtoms() types.Structure {
	return types.Structure{
		Lattice:   types.Matrix3{{4, 0, 0}, {0, 4, 0}, {0, 0, 3}},
		Positions: []types.Vector3{{0, 0, 0}, {0.5, 0.5, 0.5}},
		Numbers:   []int{25, 25},
	}
}

var minusI = types.Matrix3{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}

func TestFileSource_Encodings(t *testing.T) {
	tests := []struct {
		file     string
		magnetic string
		found    bool
	}{
		{"testdata/rutile.yaml", "P4'/mm'm (MSG No. 1200)", true},
		{"testdata/rutile.toml", "P4'/mm'm", true},
		{"testdata/rutile.json", types.PlaceholderNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			src := symmetry.NewFileSource(afero.NewOsFs(), tt.file)
			ctx := context.Background()

			sg := src.SpaceGroup(ctx, twoAtoms(), symmetry.DefaultSymprec)
			assert.True(t, sg.Found())
			assert.Equal(t, "P4/mmm (123)", sg.String())

			spin, err := src.SpinSymmetry(ctx, twoAtoms(), nil, symmetry.DefaultSymprec)
			require.NoError(t, err)
			assert.Equal(t, "collinear", spin.SpinOnlyGroup.String())
			require.Equal(t, 4, spin.Operations.Len())
			assert.Equal(t, types.Identity3(), spin.Operations.At(0).SpinRotation)
			assert.Equal(t, minusI, spin.Operations.At(1).SpinRotation)
			assert.Equal(t, types.Vector3{0, 0, 0.5}, spin.Operations.At(1).Translation)
			assert.Equal(t, types.Matrix3{{0, -1, 0}, {-1, 0, 0}, {0, 0, 1}}, spin.Operations.At(3).Rotation)

			msg := src.MagneticSpaceGroup(ctx, twoAtoms(), nil, symmetry.DefaultSymprec)
			assert.Equal(t, tt.found, msg.Found())
			assert.Equal(t, tt.magnetic, msg.String())
		})
	}
}

func TestFileSource_MissingDatasetDegradesLabels(t *testing.T) {
	src := symmetry.NewFileSource(afero.NewMemMapFs(), "spin_symmetry.yaml")
	ctx := context.Background()

	_, err := src.SpinSymmetry(ctx, twoAtoms(), nil, symmetry.DefaultSymprec)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))

	sg := src.SpaceGroup(ctx, twoAtoms(), symmetry.DefaultSymprec)
	assert.Equal(t, types.LabelUnavailable, sg.Status)
	assert.Equal(t, "Unknown", sg.String())

	msg := src.MagneticSpaceGroup(ctx, twoAtoms(), nil, symmetry.DefaultSymprec)
	assert.Equal(t, "Not found", msg.String())
}

func TestFileSource_AtomCountMismatch(t *testing.T) {
	src := symmetry.NewFileSource(afero.NewOsFs(), "testdata/rutile.yaml")
	s := twoAtoms()
	s.Positions = append(s.Positions, types.Vector3{0.25, 0.25, 0.25})
	s.Numbers = append(s.Numbers, 8)

	_, err := src.SpinSymmetry(context.Background(), s, nil, symmetry.DefaultSymprec)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDataQuality))
	assert.Equal(t, 2, errors.GetErrorDetails(err)["dataset_atoms"])
	assert.Equal(t, 3, errors.GetErrorDetails(err)["structure_atoms"])
}

func TestFileSource_MomentMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := `atoms: 2
magmoms: [1, -1]
spin_only_group: collinear
rotations: [[[1, 0, 0], [0, 1, 0], [0, 0, 1]]]
translations: [[0, 0, 0]]
spin_rotations: [[[1, 0, 0], [0, 1, 0], [0, 0, 1]]]
`
	require.NoError(t, afero.WriteFile(fs, "/data/spin.yaml", []byte(data), 0644))
	src := symmetry.NewFileSource(fs, "/data/spin.yaml")
	ctx := context.Background()

	t.Run("matching_moments", func(t *testing.T) {
		sym, err := src.SpinSymmetry(ctx, twoAtoms(), types.Moments{{0, 0, 1}, {0, 0, -1 + 1e-9}}, symmetry.DefaultSymprec)
		require.NoError(t, err)
		assert.Equal(t, 1, sym.Operations.Len())
	})

	t.Run("different_moments", func(t *testing.T) {
		_, err := src.SpinSymmetry(ctx, twoAtoms(), types.Moments{{0, 0, 1}, {0, 0, 1}}, symmetry.DefaultSymprec)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDataQuality))
		assert.Equal(t, 2, errors.GetErrorDetails(err)["atom"])
	})

	t.Run("different_count", func(t *testing.T) {
		_, err := src.SpinSymmetry(ctx, twoAtoms(), types.Moments{{0, 0, 1}}, symmetry.DefaultSymprec)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDataQuality))
	})
}

func TestFileSource_LoadsOnce(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "ds.json", []byte(`{"spin_only_group":"collinear"}`), 0644))
	src := symmetry.NewFileSource(fs, "ds.json")

	first, err := src.Load()
	require.NoError(t, err)
	require.NoError(t, fs.Remove("ds.json"))
	second, err := src.Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestDecodeDataset_Errors(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		in       string
		code     errors.ErrorCode
	}{
		{"empty_yaml", symmetry.EncodingYAML, "", errors.ErrParse},
		{"bad_yaml", symmetry.EncodingYAML, "rotations: [[[1, 0", errors.ErrParse},
		{"bad_json", symmetry.EncodingJSON, "{", errors.ErrParse},
		{"bad_toml", symmetry.EncodingTOML, "rotations = [", errors.ErrParse},
		{"wrong_type", symmetry.EncodingJSON, `{"rotations": "nope"}`, errors.ErrParse},
		{"unknown_encoding", "xml", "<x/>", errors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := symmetry.DecodeDataset(strings.NewReader(tt.in), tt.encoding, "inline")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestDataset_Operations(t *testing.T) {
	id := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	t.Run("length_mismatch", func(t *testing.T) {
		d := symmetry.Dataset{
			Rotations:     [][][]float64{id, id},
			Translations:  [][]float64{{0, 0, 0}},
			SpinRotations: [][][]float64{id, id},
		}
		_, err := d.Operations()
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("malformed_matrix", func(t *testing.T) {
		d := symmetry.Dataset{
			Rotations:     [][][]float64{id, {{1, 0}, {0, 1}}},
			Translations:  [][]float64{{0, 0, 0}, {0, 0, 0}},
			SpinRotations: [][][]float64{id, id},
		}
		_, err := d.Operations()
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
		assert.Equal(t, 2, errors.GetErrorDetails(err)["operation"])
	})

	t.Run("malformed_translation", func(t *testing.T) {
		d := symmetry.Dataset{
			Rotations:     [][][]float64{id},
			Translations:  [][]float64{{0, 0}},
			SpinRotations: [][][]float64{id},
		}
		_, err := d.Operations()
		assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
	})

	t.Run("empty", func(t *testing.T) {
		set, err := (&symmetry.Dataset{}).Operations()
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Unknown", symmetry.SpaceGroupLabel(nil).String())
	assert.Equal(t, "Fm-3m (225)", symmetry.SpaceGroupLabel(&symmetry.SpaceGroupData{Symbol: "Fm-3m", Number: 225}).String())

	assert.Equal(t, "Not found", symmetry.MagneticLabel(nil).String())
	assert.Equal(t, "Not found", symmetry.MagneticLabel(&symmetry.MagneticData{}).String())
	assert.Equal(t, "Cm'c'm (MSG No. 477)",
		symmetry.MagneticLabel(&symmetry.MagneticData{UniSymbol: "Cm'c'm", UniNumber: 477, International: "ignored"}).String())
	assert.Equal(t, "Pn'm'a", symmetry.MagneticLabel(&symmetry.MagneticData{International: "Pn'm'a"}).String())

	assert.Equal(t, types.LabelUnavailable, symmetry.SpinOnlyLabel("").Status)
	assert.Equal(t, "coplanar", symmetry.SpinOnlyLabel("coplanar").String())
}

func TestEncodingFor(t *testing.T) {
	assert.Equal(t, symmetry.EncodingYAML, symmetry.EncodingFor("spin_symmetry.yaml"))
	assert.Equal(t, symmetry.EncodingYAML, symmetry.EncodingFor("data.yml"))
	assert.Equal(t, symmetry.EncodingTOML, symmetry.EncodingFor("data.TOML"))
	assert.Equal(t, symmetry.EncodingJSON, symmetry.EncodingFor("out/data.json"))
	assert.Equal(t, symmetry.EncodingYAML, symmetry.EncodingFor("noext"))
}
