package symmetry

import (
	"context"
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/logging"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// FileSource serves a dataset exported by the external analysis. The file
// is read once, on first use.
type FileSource struct {
	fs       afero.Fs
	path     string
	encoding string

	once    sync.Once
	dataset *Dataset
	err     error
}

// NewFileSource creates a source for the dataset at path. The encoding is
// taken from the file extension.
func NewFileSource(fs afero.Fs, path string) *FileSource {
	return &FileSource{fs: fs, path: path, encoding: EncodingFor(path)}
}

// Path returns the dataset location
func (f *FileSource) Path() string {
	return f.path
}

// Load reads and decodes the dataset
func (f *FileSource) Load() (*Dataset, error) {
	f.once.Do(func() {
		f.dataset, f.err = f.load()
	})
	return f.dataset, f.err
}

func (f *FileSource) load() (*Dataset, error) {
	logger := logging.GetLogger("symmetry.file")

	file, err := f.fs.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "symmetry dataset %s not found", f.path).
				WithDetail("path", f.path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot open symmetry dataset %s", f.path).
			WithDetail("path", f.path)
	}
	defer func() { _ = file.Close() }()

	d, err := DecodeDataset(file, f.encoding, f.path)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("path", f.path).
		Str("encoding", f.encoding).
		Int("operations", len(d.Rotations)).
		Msg("Symmetry dataset loaded")
	return d, nil
}

// SpaceGroup implements SpaceGroupAnalyzer
func (f *FileSource) SpaceGroup(_ context.Context, _ types.Structure, _ float64) types.Label {
	d, err := f.Load()
	if err != nil {
		return types.UnavailableLabel(types.PlaceholderUnknown, err.Error())
	}
	return SpaceGroupLabel(d.SpaceGroup)
}

// SpinSymmetry implements SpinSymmetrySearcher
func (f *FileSource) SpinSymmetry(_ context.Context, s types.Structure, moments types.Moments, _ float64) (SpinSymmetry, error) {
	d, err := f.Load()
	if err != nil {
		return SpinSymmetry{}, err
	}
	return d.spinSymmetry(s, moments)
}

// MagneticSpaceGroup implements MagneticLabeler
func (f *FileSource) MagneticSpaceGroup(_ context.Context, _ types.Structure, _ types.Moments, _ float64) types.Label {
	d, err := f.Load()
	if err != nil {
		return types.UnavailableLabel(types.PlaceholderNotFound, err.Error())
	}
	return MagneticLabel(d.Magnetic)
}
