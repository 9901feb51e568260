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

const (
	headerRule    = "========================================"
	sectionRule   = "----------------------------------------"
	operationRule = "--------------------"
)

// FullLog renders the complete human-readable log of every operation
func FullLog(set types.OperationSet, labels types.LabelInfo) string {
	var b strings.Builder

	b.WriteString(headerRule + "\n")
	b.WriteString("SPIN SYMMETRY LOG\n")
	b.WriteString(headerRule + "\n\n")
	b.WriteString(labels.String() + "\n\n")
	fmt.Fprintf(&b, "Total Symmetry Operations: %d\n", set.Len())
	b.WriteString(sectionRule + "\n")

	for i := 0; i < set.Len(); i++ {
		op := set.At(i)
		fmt.Fprintf(&b, "Operation %d:\n", i+1)
		b.WriteString("  Rotation:\n")
		b.WriteString(formatMatrix(op.Rotation) + "\n")
		b.WriteString("  Translation:\n")
		b.WriteString(formatVector(op.Translation) + "\n")
		b.WriteString("  Spin Rotation:\n")
		b.WriteString(formatMatrix(op.SpinRotation) + "\n")
		b.WriteString(operationRule + "\n")
	}

	return b.String()
}

// RenderFullLog writes the full log to w
func RenderFullLog(w io.Writer, set types.OperationSet, labels types.LabelInfo) error {
	if _, err := io.WriteString(w, FullLog(set, labels)); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write full log")
	}
	return nil
}

// WriteFullLog writes the full log to path on fs, replacing any existing
// content atomically.
func WriteFullLog(fs afero.Fs, path string, set types.OperationSet, labels types.LabelInfo) error {
	batch := NewBatch(fs)
	if err := batch.Stage(path, []byte(FullLog(set, labels))); err != nil {
		return err
	}
	if err := batch.Commit(); err != nil {
		return err
	}

	logger := logging.GetLogger("report")
	logger.Info().
		Str("path", path).
		Int("operations", set.Len()).
		Msg("All operations written")
	return nil
}
