package structure

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gonum.org/v1/gonum/mat"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/logging"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// Supported formats
const (
	FormatAuto    = "auto"
	FormatPOSCAR  = "poscar"
	FormatVasprun = "vasprun"
)

// Reader parses one structure file format
type Reader interface {
	Parse(r io.Reader, source string) (types.Structure, error)
}

// ReaderFunc adapts a function to Reader
type ReaderFunc func(r io.Reader, source string) (types.Structure, error)

func (f ReaderFunc) Parse(r io.Reader, source string) (types.Structure, error) {
	return f(r, source)
}

var readers = map[string]Reader{
	FormatPOSCAR:  ReaderFunc(ParsePOSCAR),
	FormatVasprun: ReaderFunc(ParseVasprun),
}

// DetectFormat guesses the file format from its name. Anything that is not
// XML is treated as POSCAR, which covers CONTCAR and arbitrary names.
func DetectFormat(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(base, ".xml") || strings.HasPrefix(base, "vasprun") {
		return FormatVasprun
	}
	return FormatPOSCAR
}

// Read loads and validates the structure at path. format may be FormatAuto.
func Read(fs afero.Fs, path, format string) (types.Structure, error) {
	logger := logging.GetLogger("structure")

	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}
	reader, ok := readers[format]
	if !ok {
		return types.Structure{}, errors.Newf(errors.ErrInvalidInput, "unknown structure format %q", format).
			WithDetail("format", format)
	}

	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Structure{}, errors.Wrapf(err, errors.ErrFileNotFound, "structure file %s not found", path).
				WithDetail("path", path)
		}
		return types.Structure{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot open structure file %s", path).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	s, err := reader.Parse(f, path)
	if err != nil {
		return types.Structure{}, err
	}
	if err := s.Validate(); err != nil {
		return types.Structure{}, err
	}

	logger.Debug().
		Str("path", path).
		Str("format", format).
		Int("atoms", s.NumAtoms()).
		Msg("Structure loaded")
	return s, nil
}

func parseError(source string, line int, format string, args ...interface{}) error {
	err := errors.Newf(errors.ErrParse, format, args...).WithDetail("source", source)
	if line > 0 {
		err = err.WithDetail("line", line)
	}
	return err
}

func latticeDense(l types.Matrix3) *mat.Dense {
	return mat.NewDense(3, 3, l.Flat())
}

// toFractional converts Cartesian row vectors to fractional coordinates of
// the lattice whose rows are the basis vectors.
func toFractional(lattice types.Matrix3, cart []types.Vector3) ([]types.Vector3, error) {
	var inv mat.Dense
	if err := inv.Inverse(latticeDense(lattice)); err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "lattice is singular")
	}

	out := make([]types.Vector3, len(cart))
	for i, c := range cart {
		row := mat.NewDense(1, 3, c[:])
		var frac mat.Dense
		frac.Mul(row, &inv)
		out[i] = types.Vector3{frac.At(0, 0), frac.At(0, 1), frac.At(0, 2)}
	}
	return out, nil
}
