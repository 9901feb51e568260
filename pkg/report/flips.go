package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/logging"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// FlipSet is the filtered view of spin-flip operations. Indices are the
// original 1-based positions, strictly increasing; Rotations[k] belongs to
// Indices[k].
type FlipSet struct {
	Indices   []int
	Rotations []types.Matrix3
}

// Len returns the number of flip operations
func (f FlipSet) Len() int {
	return len(f.Indices)
}

// Empty reports whether no operation flips spin
func (f FlipSet) Empty() bool {
	return len(f.Indices) == 0
}

// FilterFlips keeps the spatial rotations of spin-flip operations in their
// original order. classes must hold one entry per operation, in order.
func FilterFlips(set types.OperationSet, classes []types.FlipClassification) (FlipSet, error) {
	if len(classes) != set.Len() {
		return FlipSet{}, errors.Newf(errors.ErrInvalidInput,
			"got %d classifications for %d operations", len(classes), set.Len())
	}

	var flips FlipSet
	for i, fc := range classes {
		if fc.Index != i+1 {
			return FlipSet{}, errors.Newf(errors.ErrInvalidInput,
				"classification %d refers to operation %d", i+1, fc.Index)
		}
		if !fc.Flip {
			continue
		}
		flips.Indices = append(flips.Indices, fc.Index)
		flips.Rotations = append(flips.Rotations, set.At(i).Rotation)
	}
	return flips, nil
}

// FlipOperations renders the flip-operations file content
func FlipOperations(flips FlipSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Found %d spin-flipping operations\n", flips.Len())
	fmt.Fprintf(&b, "# Original Indices: %s\n", formatIndexList(flips.Indices))
	for k, rot := range flips.Rotations {
		fmt.Fprintf(&b, "Operation_%d\n", k+1)
		for _, row := range rot {
			b.WriteString(formatRow(row) + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderFlipOperations writes the flip-operations content to w
func RenderFlipOperations(w io.Writer, flips FlipSet) error {
	if _, err := io.WriteString(w, FlipOperations(flips)); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write flip operations")
	}
	return nil
}

// WriteFlipOperations filters the spin-flip operations and writes them to
// path on fs. With no flips nothing is written, a warning is logged, and
// written is false.
func WriteFlipOperations(fs afero.Fs, path string, set types.OperationSet, classes []types.FlipClassification) (written bool, err error) {
	flips, err := FilterFlips(set, classes)
	if err != nil {
		return false, err
	}

	logger := logging.GetLogger("report")
	if flips.Empty() {
		logger.Warn().Str("path", path).Msg("No spin-flipping operations found, file not created")
		return false, nil
	}

	batch := NewBatch(fs)
	if err := batch.Stage(path, []byte(FlipOperations(flips))); err != nil {
		return false, err
	}
	if err := batch.Commit(); err != nil {
		return false, err
	}

	logger.Info().
		Str("path", path).
		Int("flips", flips.Len()).
		Ints("indices", flips.Indices).
		Msg("Spin-flipping matrices written")
	return true, nil
}
