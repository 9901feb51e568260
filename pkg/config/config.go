package config

import (
	"path/filepath"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/magnetic"
	"github.com/arthur-debert/spinflip/pkg/structure"
)

// Structure formats
const (
	FormatAuto    = structure.FormatAuto
	FormatPOSCAR  = structure.FormatPOSCAR
	FormatVasprun = structure.FormatVasprun
)

// Symmetry sources
const (
	SourceFile = "file"
	SourceExec = "exec"
)

// Moment list policies. PolicyPad zero-pads short lists and truncates long
// ones to the atom count; PolicyStrict rejects any count mismatch.
const (
	PolicyPad    = magnetic.PolicyPad
	PolicyStrict = magnetic.PolicyStrict
)

// Anomalous determinant policies
const (
	AnomalyIgnore = "ignore"
	AnomalyWarn   = "warn"
	AnomalyError  = "error"
)

// Config is the complete run configuration
type Config struct {
	Structure StructureConfig `koanf:"structure"`
	Symmetry  SymmetryConfig  `koanf:"symmetry"`
	Moments   MomentsConfig   `koanf:"moments"`
	Classify  ClassifyConfig  `koanf:"classify"`
	Output    OutputConfig    `koanf:"output"`
}

// StructureConfig locates the crystal structure file
type StructureConfig struct {
	Path   string `koanf:"path"`
	Format string `koanf:"format"`
}

// SymmetryConfig selects the external spin symmetry source
type SymmetryConfig struct {
	Source  string   `koanf:"source"`
	Dataset string   `koanf:"dataset"`
	Command []string `koanf:"command"`
	Symprec float64  `koanf:"symprec"`
}

// MomentsConfig holds the scalar (collinear, along z) moment per atom
type MomentsConfig struct {
	Values []float64 `koanf:"values"`
	Policy string    `koanf:"policy"`
}

// ClassifyConfig holds the determinant comparison tolerances
type ClassifyConfig struct {
	ATol    float64 `koanf:"atol"`
	RTol    float64 `koanf:"rtol"`
	Anomaly string  `koanf:"anomaly"`
}

// OutputConfig names the report destinations
type OutputConfig struct {
	Dir      string `koanf:"dir"`
	LogFile  string `koanf:"log_file"`
	FlipFile string `koanf:"flip_file"`
}

// LogPath returns the full log destination
func (o OutputConfig) LogPath() string {
	return o.resolve(o.LogFile)
}

// FlipPath returns the filtered flip-operations destination
func (o OutputConfig) FlipPath() string {
	return o.resolve(o.FlipFile)
}

func (o OutputConfig) resolve(name string) string {
	if filepath.IsAbs(name) || o.Dir == "" {
		return name
	}
	return filepath.Join(o.Dir, name)
}

// Validate rejects unknown enum values and unusable tolerances
func (c Config) Validate() error {
	if c.Structure.Path == "" {
		return invalid("structure.path", c.Structure.Path, "must not be empty")
	}
	if !oneOf(c.Structure.Format, FormatAuto, FormatPOSCAR, FormatVasprun) {
		return invalid("structure.format", c.Structure.Format, "must be one of auto, poscar, vasprun")
	}

	switch c.Symmetry.Source {
	case SourceFile:
		if c.Symmetry.Dataset == "" {
			return invalid("symmetry.dataset", c.Symmetry.Dataset, "must not be empty for the file source")
		}
	case SourceExec:
		if len(c.Symmetry.Command) == 0 {
			return invalid("symmetry.command", c.Symmetry.Command, "must not be empty for the exec source")
		}
	default:
		return invalid("symmetry.source", c.Symmetry.Source, "must be one of file, exec")
	}
	if c.Symmetry.Symprec <= 0 {
		return invalid("symmetry.symprec", c.Symmetry.Symprec, "must be positive")
	}

	if !oneOf(c.Moments.Policy, PolicyPad, PolicyStrict) {
		return invalid("moments.policy", c.Moments.Policy, "must be one of pad, strict")
	}

	if c.Classify.ATol < 0 || c.Classify.RTol < 0 {
		return invalid("classify", []float64{c.Classify.ATol, c.Classify.RTol}, "tolerances must not be negative")
	}
	if c.Classify.ATol == 0 && c.Classify.RTol == 0 {
		return invalid("classify", []float64{c.Classify.ATol, c.Classify.RTol}, "atol and rtol cannot both be zero")
	}
	if !oneOf(c.Classify.Anomaly, AnomalyIgnore, AnomalyWarn, AnomalyError) {
		return invalid("classify.anomaly", c.Classify.Anomaly, "must be one of ignore, warn, error")
	}

	if c.Output.LogFile == "" {
		return invalid("output.log_file", c.Output.LogFile, "must not be empty")
	}
	if c.Output.FlipFile == "" {
		return invalid("output.flip_file", c.Output.FlipFile, "must not be empty")
	}
	if c.Output.LogPath() == c.Output.FlipPath() {
		return invalid("output.flip_file", c.Output.FlipFile, "must differ from output.log_file")
	}
	return nil
}

func invalid(key string, value interface{}, reason string) error {
	return errors.Newf(errors.ErrConfigValid, "invalid %s: %s", key, reason).
		WithDetail("key", key).
		WithDetail("value", value)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
