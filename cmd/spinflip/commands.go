package spinflip

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/spinflip/internal/version"
	"github.com/arthur-debert/spinflip/pkg/config"
	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/logging"
	"github.com/arthur-debert/spinflip/pkg/magnetic"
	"github.com/arthur-debert/spinflip/pkg/pipeline"
	"github.com/arthur-debert/spinflip/pkg/ui"
)

// flagKeys maps command-line flags to the configuration keys they override
var flagKeys = map[string]string{
	"structure":        "structure.path",
	"structure-format": "structure.format",
	"source":           "symmetry.source",
	"dataset":          "symmetry.dataset",
	"exec":             "symmetry.command",
	"symprec":          "symmetry.symprec",
	"moment-policy":    "moments.policy",
	"atol":             "classify.atol",
	"rtol":             "classify.rtol",
	"anomaly":          "classify.anomaly",
	"output-dir":       "output.dir",
	"log-file":         "output.log_file",
	"flip-file":        "output.flip_file",
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "spinflip",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().String("config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringP("format", "f", ui.FormatAuto.String(), MsgFlagFormat)

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newExplainCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// addAnalysisFlags registers the flags shared by run and inspect
func addAnalysisFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("structure", "s", "", MsgFlagStructure)
	flags.String("structure-format", "", MsgFlagStructureFormat)
	flags.String("source", "", MsgFlagSource)
	flags.StringP("dataset", "d", "", MsgFlagDataset)
	flags.StringSlice("exec", nil, MsgFlagExec)
	flags.Float64("symprec", 0, MsgFlagSymprec)
	flags.StringP("moments", "m", "", MsgFlagMoments)
	flags.String("moment-policy", "", MsgFlagMomentPolicy)
	flags.Float64("atol", 0, MsgFlagATol)
	flags.Float64("rtol", 0, MsgFlagRTol)
	flags.String("anomaly", "", MsgFlagAnomaly)
	flags.BoolP("interactive", "i", false, MsgFlagInteractive)

	_ = cmd.RegisterFlagCompletionFunc("source", fixedCompletion(config.SourceFile, config.SourceExec))
	_ = cmd.RegisterFlagCompletionFunc("structure-format",
		fixedCompletion(config.FormatAuto, config.FormatPOSCAR, config.FormatVasprun))
	_ = cmd.RegisterFlagCompletionFunc("moment-policy", fixedCompletion(config.PolicyPad, config.PolicyStrict))
	_ = cmd.RegisterFlagCompletionFunc("anomaly",
		fixedCompletion(config.AnomalyIgnore, config.AnomalyWarn, config.AnomalyError))
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// flagOverrides collects every flag the user set into dotted config keys
func flagOverrides(cmd *cobra.Command) (map[string]interface{}, error) {
	overrides := make(map[string]interface{})
	var firstErr error

	cmd.Flags().Visit(func(f *pflag.Flag) {
		if firstErr != nil {
			return
		}
		if f.Name == "moments" {
			values, err := magnetic.ParseValues(f.Value.String())
			if err != nil {
				firstErr = err
				return
			}
			overrides["moments.values"] = values
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		switch f.Value.Type() {
		case "float64":
			v, _ := cmd.Flags().GetFloat64(f.Name)
			overrides[key] = v
		case "stringSlice":
			v, _ := cmd.Flags().GetStringSlice(f.Name)
			overrides[key] = v
		default:
			overrides[key] = f.Value.String()
		}
	})

	return overrides, firstErr
}

// loadConfig layers defaults, config files, env vars and flags, then asks
// for missing input when the session is interactive.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	overrides, err := flagOverrides(cmd)
	if err != nil {
		return config.Config{}, err
	}
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return config.Config{}, err
	}

	if !wantsPrompt(cmd, cfg) {
		return cfg, nil
	}
	return promptConfig(cmd, cfg)
}

func wantsPrompt(cmd *cobra.Command, cfg config.Config) bool {
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		return true
	}
	stdin, ok := cmd.InOrStdin().(*os.File)
	if !ok || !ui.IsTerminal(stdin) {
		return false
	}
	return !cmd.Flags().Changed("structure") && len(cfg.Moments.Values) == 0
}

// promptConfig asks for the structure file and the moment list. Empty
// answers keep the configured values.
func promptConfig(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	p := ui.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

	path, err := p.Ask(fmt.Sprintf(MsgPromptStructure, cfg.Structure.Path), cfg.Structure.Path)
	if err != nil {
		return cfg, err
	}
	cfg.Structure.Path = path

	answer, err := p.Ask(MsgPromptMoments, "")
	if err != nil {
		return cfg, err
	}
	if answer != "" {
		values, err := magnetic.ParseValues(answer)
		if err != nil {
			return cfg, err
		}
		cfg.Moments.Values = values
	}

	return cfg, cfg.Validate()
}

// outputFormat resolves --format against the command's output
func outputFormat(cmd *cobra.Command) (ui.Format, error) {
	name, _ := cmd.Flags().GetString("format")
	format, err := ui.ParseFormat(name)
	if err != nil {
		return format, err
	}
	return resolveFormat(format, cmd.OutOrStdout()), nil
}

func resolveFormat(format ui.Format, w io.Writer) ui.Format {
	if format != ui.FormatAuto {
		return format
	}
	if file, ok := w.(*os.File); ok {
		return ui.DetectFormat(file)
	}
	return ui.FormatText
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"classify"},
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			res, err := pipeline.Run(cmd.Context(), cfg, pipeline.Deps{})
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cmd.run")
			logger.Info().
				Int("operations", res.Operations.Len()).
				Int("flips", res.Flips()).
				Msg("Run completed")

			return renderer.RenderSummary(ui.NewSummary(res))
		},
	}

	addAnalysisFlags(cmd)
	cmd.Flags().StringP("output-dir", "o", "", MsgFlagOutputDir)
	cmd.Flags().String("log-file", "", MsgFlagLogFile)
	cmd.Flags().String("flip-file", "", MsgFlagFlipFile)

	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspect",
		Short:   MsgInspectShort,
		Long:    MsgInspectLong,
		Example: MsgInspectExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			res, err := pipeline.Analyze(cmd.Context(), cfg, pipeline.Deps{})
			if err != nil {
				return err
			}
			return renderer.RenderInspection(ui.NewInspection(res))
		},
	}

	addAnalysisFlags(cmd)
	return cmd
}

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "explain",
		Short:   MsgExplainShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), ui.RenderExplain(format))
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return errors.Newf(errors.ErrInvalidInput, "unsupported shell %q", args[0])
		},
	}
}

func newManCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   strings.ToUpper(cmd.Root().Name()),
				Section: "1",
				Source:  "spinflip " + version.Version,
				Manual:  "spinflip manual",
			}

			dir, _ := cmd.Flags().GetString("dir")
			if dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", dir)
				}
				return doc.GenManTree(cmd.Root(), header, dir)
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("dir", "", MsgFlagManDir)
	return cmd
}
