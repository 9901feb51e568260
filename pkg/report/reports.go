package report

import (
	"github.com/spf13/afero"

	"github.com/arthur-debert/spinflip/pkg/logging"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// Paths names the two report destinations
type Paths struct {
	Log   string
	Flips string
}

// Outcome describes what WriteReports left on disk
type Outcome struct {
	LogPath      string
	FlipPath     string
	FlipsWritten bool
	Flips        FlipSet
	// StaleFlipPath names a flip file left by an earlier run when this run
	// found no flips and so did not replace it.
	StaleFlipPath string
}

// WriteReports writes the full log and, when any operation flips spin, the
// flip-operations file. Both are staged before either is committed, so a
// failure leaves neither destination modified.
func WriteReports(fs afero.Fs, paths Paths, set types.OperationSet, classes []types.FlipClassification, labels types.LabelInfo) (Outcome, error) {
	logger := logging.GetLogger("report")
	done := logging.LogOperationStart(logger, "write-reports")
	defer done()

	flips, err := FilterFlips(set, classes)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{LogPath: paths.Log, FlipPath: paths.Flips, Flips: flips}

	batch := NewBatch(fs)
	if err := batch.Stage(paths.Log, []byte(FullLog(set, labels))); err != nil {
		return Outcome{}, err
	}
	if !flips.Empty() {
		if err := batch.Stage(paths.Flips, []byte(FlipOperations(flips))); err != nil {
			return Outcome{}, err
		}
	}
	if err := batch.Commit(); err != nil {
		return Outcome{}, err
	}

	logger.Info().Str("path", paths.Log).Int("operations", set.Len()).Msg("All operations written")
	if flips.Empty() {
		logger.Warn().Str("path", paths.Flips).Msg("No spin-flipping operations found, file not created")
		if exists, _ := afero.Exists(fs, paths.Flips); exists {
			out.StaleFlipPath = paths.Flips
			logger.Warn().Str("path", paths.Flips).Msg("Flip file from an earlier run left unchanged")
		}
	} else {
		out.FlipsWritten = true
		logger.Info().Str("path", paths.Flips).Int("flips", flips.Len()).Msg("Spin-flipping matrices written")
	}
	return out, nil
}
