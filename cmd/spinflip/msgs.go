package spinflip

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Find the spin-flipping symmetry operations of a magnetic crystal"
	MsgRunShort        = "Classify operations and write the operation reports"
	MsgInspectShort    = "Print the determinant and verdict of every operation"
	MsgExplainShort    = "Describe the flip-operations file layout"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Prompts
	MsgPromptStructure = "Enter structure file name (default: %s): "
	MsgPromptMoments   = "Enter magnetic moments separated by spaces (e.g. 1 -1 0): "

	// Version output
	MsgVersionFormat = "spinflip version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrNoCommand  = "no command specified"
	MsgErrBadMoments = "invalid magnetic moments"

	// Flag descriptions
	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig          = "Config file (default: ./spinflip.toml)"
	MsgFlagFormat          = "Output format (auto, terminal, text, json)"
	MsgFlagStructure       = "Structure file (POSCAR or vasprun.xml)"
	MsgFlagStructureFormat = "Structure file format (auto, poscar, vasprun)"
	MsgFlagSource          = "Spin symmetry source (file, exec)"
	MsgFlagDataset         = "Exported spin symmetry dataset (yaml, toml or json)"
	MsgFlagExec            = "Helper command printing the spin symmetry as JSON"
	MsgFlagSymprec         = "Symmetry tolerance passed to the symmetry source"
	MsgFlagMoments         = "Scalar magnetic moment per atom, e.g. \"1 -1 0\""
	MsgFlagMomentPolicy    = "Moment count mismatch handling (pad, strict)"
	MsgFlagATol            = "Absolute tolerance for determinant comparison"
	MsgFlagRTol            = "Relative tolerance for determinant comparison"
	MsgFlagAnomaly         = "Handling of determinants near neither +1 nor -1 (ignore, warn, error)"
	MsgFlagOutputDir       = "Directory for the report files"
	MsgFlagLogFile         = "Name of the full operations report"
	MsgFlagFlipFile        = "Name of the flip-operations report"
	MsgFlagInteractive     = "Ask for the structure file and moments"
	MsgFlagManDir          = "Write one man page per command into this directory instead of stdout"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/inspect-long.txt
	msgInspectLongRaw string
	MsgInspectLong    = strings.TrimSpace(msgInspectLongRaw)

	//go:embed msgs/inspect-example.txt
	msgInspectExampleRaw string
	MsgInspectExample    = strings.TrimRight(msgInspectExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
