// Package pipeline runs the spin-flip classification end to end: load the
// structure, ask the symmetry source for its operations and labels,
// classify every operation, and write the two reports.
package pipeline

import (
	"context"

	"github.com/spf13/afero"

	"github.com/arthur-debert/spinflip/pkg/classify"
	"github.com/arthur-debert/spinflip/pkg/config"
	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/logging"
	"github.com/arthur-debert/spinflip/pkg/magnetic"
	"github.com/arthur-debert/spinflip/pkg/report"
	"github.com/arthur-debert/spinflip/pkg/structure"
	"github.com/arthur-debert/spinflip/pkg/symmetry"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// Deps are the collaborators of a run. Zero fields are filled from the
// configuration: the OS filesystem and the configured symmetry source.
type Deps struct {
	Fs     afero.Fs
	Source symmetry.Source
}

// Result is everything a run produced
type Result struct {
	Structure  types.Structure
	Moments    types.Moments
	Adjustment magnetic.Adjustment
	Labels     types.LabelInfo
	Operations types.OperationSet
	Classes    []types.FlipClassification
	Anomalous  []int

	// Outcome is zero when reports were not written
	Outcome report.Outcome
}

// Flips returns the number of spin-flip operations
func (r Result) Flips() int {
	return types.CountFlips(r.Classes)
}

// NewSource builds the symmetry source selected by cfg
func NewSource(cfg config.SymmetryConfig, fs afero.Fs) (symmetry.Source, error) {
	switch cfg.Source {
	case config.SourceFile:
		return symmetry.NewFileSource(fs, cfg.Dataset), nil
	case config.SourceExec:
		return symmetry.NewExecSource(cfg.Command), nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "unknown symmetry source %q", cfg.Source).
			WithDetail("key", "symmetry.source")
	}
}

func (d Deps) withDefaults(cfg config.Config) (Deps, error) {
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}
	if d.Source == nil {
		src, err := NewSource(cfg.Symmetry, d.Fs)
		if err != nil {
			return d, err
		}
		d.Source = src
	}
	return d, nil
}

// Analyze loads the structure, gathers labels and operations and classifies
// them. Nothing is written.
func Analyze(ctx context.Context, cfg config.Config, deps Deps) (Result, error) {
	logger := logging.GetLogger("pipeline")
	done := logging.LogOperationStart(logger, "analyze")
	defer done()

	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	deps, err := deps.withDefaults(cfg)
	if err != nil {
		return Result{}, err
	}

	var res Result
	res.Structure, err = structure.Read(deps.Fs, cfg.Structure.Path, cfg.Structure.Format)
	if err != nil {
		return Result{}, err
	}
	logger.Info().
		Str("path", cfg.Structure.Path).
		Int("atoms", res.Structure.NumAtoms()).
		Msg("Structure loaded")

	symprec := cfg.Symmetry.Symprec
	res.Labels.NonMagnetic = deps.Source.SpaceGroup(ctx, res.Structure, symprec)
	if !res.Labels.NonMagnetic.Found() {
		logger.Warn().Str("reason", res.Labels.NonMagnetic.Reason).Msg("Non-magnetic symmetry detection failed")
	}

	res.Moments, res.Adjustment, err = magnetic.Build(cfg.Moments.Values, res.Structure.NumAtoms(), cfg.Moments.Policy)
	if err != nil {
		return Result{}, err
	}
	if res.Adjustment.Changed() {
		logger.Warn().
			Int("supplied", res.Adjustment.Supplied).
			Int("atoms", res.Adjustment.Atoms).
			Int("padded", res.Adjustment.Padded).
			Int("truncated", res.Adjustment.Truncated).
			Msg("Moment list adjusted to atom count")
	}

	spin, err := deps.Source.SpinSymmetry(ctx, res.Structure, res.Moments, symprec)
	if err != nil {
		return Result{}, err
	}
	res.Operations = spin.Operations
	res.Labels.SpinOnlyGroup = spin.SpinOnlyGroup
	res.Labels.MagneticSpaceGroup = deps.Source.MagneticSpaceGroup(ctx, res.Structure, res.Moments, symprec)

	classifier := classify.New().
		WithTolerance(cfg.Classify.ATol, cfg.Classify.RTol).
		WithAnomalyPolicy(classify.AnomalyPolicy(cfg.Classify.Anomaly))
	res.Classes, err = classifier.Classify(res.Operations)
	if err != nil {
		return Result{}, err
	}
	for _, c := range res.Classes {
		if c.Verdict == types.VerdictAnomalous {
			res.Anomalous = append(res.Anomalous, c.Index)
		}
	}

	logger.Info().
		Int("operations", res.Operations.Len()).
		Int("flips", res.Flips()).
		Int("anomalous", len(res.Anomalous)).
		Msg("Operations classified")
	return res, nil
}

// Run analyzes the configured structure and writes both reports. On error
// no report destination is modified.
func Run(ctx context.Context, cfg config.Config, deps Deps) (Result, error) {
	deps, err := deps.withDefaults(cfg)
	if err != nil {
		return Result{}, err
	}

	res, err := Analyze(ctx, cfg, deps)
	if err != nil {
		return Result{}, err
	}

	paths := report.Paths{Log: cfg.Output.LogPath(), Flips: cfg.Output.FlipPath()}
	res.Outcome, err = report.WriteReports(deps.Fs, paths, res.Operations, res.Classes, res.Labels)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
