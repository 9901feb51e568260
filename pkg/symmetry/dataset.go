package symmetry

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/gonum/floats/scalar"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/magnetic"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// momentTol is the absolute tolerance used when comparing the moments a
// dataset was computed for with the moments of the current run.
const momentTol = 1e-6

// Dataset encodings
const (
	EncodingYAML = "yaml"
	EncodingTOML = "toml"
	EncodingJSON = "json"
)

// SpaceGroupData is the non-magnetic space group found by the analysis
type SpaceGroupData struct {
	Symbol string `json:"symbol" yaml:"symbol" toml:"symbol"`
	Number int    `json:"number" yaml:"number" toml:"number"`
}

// MagneticData is the magnetic space group found by the analysis
type MagneticData struct {
	UniSymbol     string `json:"uni_symbol,omitempty" yaml:"uni_symbol,omitempty" toml:"uni_symbol,omitempty"`
	UniNumber     int    `json:"uni_number,omitempty" yaml:"uni_number,omitempty" toml:"uni_number,omitempty"`
	International string `json:"international,omitempty" yaml:"international,omitempty" toml:"international,omitempty"`
}

// Dataset is the exchange format between spinflip and the external
// analysis. Operation arrays are parallel: entry i of each belongs to
// operation i+1. Magmoms, when present, holds the collinear moment of each
// atom the analysis was run with.
type Dataset struct {
	Atoms         int             `json:"atoms,omitempty" yaml:"atoms,omitempty" toml:"atoms,omitempty"`
	Magmoms       []float64       `json:"magmoms,omitempty" yaml:"magmoms,omitempty" toml:"magmoms,omitempty"`
	SpaceGroup    *SpaceGroupData `json:"space_group,omitempty" yaml:"space_group,omitempty" toml:"space_group,omitempty"`
	SpinOnlyGroup string          `json:"spin_only_group" yaml:"spin_only_group" toml:"spin_only_group"`
	Magnetic      *MagneticData   `json:"magnetic,omitempty" yaml:"magnetic,omitempty" toml:"magnetic,omitempty"`
	Rotations     [][][]float64   `json:"rotations" yaml:"rotations" toml:"rotations"`
	Translations  [][]float64     `json:"translations" yaml:"translations" toml:"translations"`
	SpinRotations [][][]float64   `json:"spin_rotations" yaml:"spin_rotations" toml:"spin_rotations"`
}

// EncodingFor picks the dataset encoding from a file extension, defaulting
// to YAML.
func EncodingFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return EncodingTOML
	case ".json":
		return EncodingJSON
	default:
		return EncodingYAML
	}
}

// DecodeDataset reads a dataset in the given encoding
func DecodeDataset(r io.Reader, encoding, source string) (*Dataset, error) {
	var d Dataset
	var err error
	switch encoding {
	case EncodingYAML:
		err = yaml.NewDecoder(r).Decode(&d)
	case EncodingTOML:
		err = toml.NewDecoder(r).Decode(&d)
	case EncodingJSON:
		err = json.NewDecoder(r).Decode(&d)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown dataset encoding %q", encoding).
			WithDetail("encoding", encoding)
	}
	if err != nil {
		if err == io.EOF {
			return nil, errors.Newf(errors.ErrParse, "symmetry dataset %s is empty", source).
				WithDetail("source", source)
		}
		return nil, errors.Wrapf(err, errors.ErrParse, "invalid %s symmetry dataset %s", encoding, source).
			WithDetail("source", source)
	}
	return &d, nil
}

// Operations converts the parallel arrays into an operation set. Malformed
// matrices are PARSE errors; arrays of different lengths are rejected by
// types.NewOperationSet.
func (d *Dataset) Operations() (types.OperationSet, error) {
	rotations, err := matrices(d.Rotations, "rotations")
	if err != nil {
		return types.OperationSet{}, err
	}
	spins, err := matrices(d.SpinRotations, "spin_rotations")
	if err != nil {
		return types.OperationSet{}, err
	}
	translations := make([]types.Vector3, len(d.Translations))
	for i, t := range d.Translations {
		v, ok := types.VectorFromSlice(t)
		if !ok {
			return types.OperationSet{}, errors.Newf(errors.ErrParse,
				"translation %d must have 3 components, got %d", i+1, len(t)).
				WithDetail("field", "translations").
				WithDetail("operation", i+1)
		}
		translations[i] = v
	}
	return types.NewOperationSet(rotations, translations, spins)
}

func matrices(raw [][][]float64, field string) ([]types.Matrix3, error) {
	out := make([]types.Matrix3, len(raw))
	for i, rows := range raw {
		m, ok := types.MatrixFromRows(rows)
		if !ok {
			return nil, errors.Newf(errors.ErrParse, "%s entry %d is not a 3x3 matrix", field, i+1).
				WithDetail("field", field).
				WithDetail("operation", i+1)
		}
		out[i] = m
	}
	return out, nil
}

// checkAtoms rejects a dataset computed for a different structure
func (d *Dataset) checkAtoms(s types.Structure) error {
	if d.Atoms == 0 || d.Atoms == s.NumAtoms() {
		return nil
	}
	return errors.Newf(errors.ErrDataQuality,
		"symmetry dataset describes %d atoms but the structure has %d", d.Atoms, s.NumAtoms()).
		WithDetail("dataset_atoms", d.Atoms).
		WithDetail("structure_atoms", s.NumAtoms())
}

// checkMoments rejects a dataset computed for different magnetic moments.
// Datasets without magmoms are accepted for any moments.
func (d *Dataset) checkMoments(moments types.Moments) error {
	if len(d.Magmoms) == 0 {
		return nil
	}
	got := magnetic.Scalars(moments)
	if len(got) != len(d.Magmoms) {
		return errors.Newf(errors.ErrDataQuality,
			"symmetry dataset lists %d magnetic moments but %d were given", len(d.Magmoms), len(got)).
			WithDetail("dataset_moments", d.Magmoms).
			WithDetail("moments", got)
	}
	for i, m := range d.Magmoms {
		if !scalar.EqualWithinAbs(m, got[i], momentTol) {
			return errors.Newf(errors.ErrDataQuality,
				"symmetry dataset was computed with moment %v on atom %d, not %v", m, i+1, got[i]).
				WithDetail("atom", i+1).
				WithDetail("dataset_moments", d.Magmoms).
				WithDetail("moments", got)
		}
	}
	return nil
}

func (d *Dataset) spinSymmetry(s types.Structure, moments types.Moments) (SpinSymmetry, error) {
	if err := d.checkAtoms(s); err != nil {
		return SpinSymmetry{}, err
	}
	if err := d.checkMoments(moments); err != nil {
		return SpinSymmetry{}, err
	}
	ops, err := d.Operations()
	if err != nil {
		return SpinSymmetry{}, err
	}
	return SpinSymmetry{SpinOnlyGroup: SpinOnlyLabel(d.SpinOnlyGroup), Operations: ops}, nil
}
