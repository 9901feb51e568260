package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/logging"
	"github.com/arthur-debert/spinflip/pkg/magnetic"
)

// EnvPrefix prefixes every environment override, e.g. SPINFLIP_OUTPUT_DIR
const EnvPrefix = "SPINFLIP_"

// ProjectConfigNames are looked up, in order, in the working directory
var ProjectConfigNames = []string{"spinflip.toml", ".spinflip.toml"}

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFile is an explicit config path; it must exist and replaces the
	// project config lookup.
	ConfigFile string

	// WorkDir is searched for a project config. Defaults to ".".
	WorkDir string

	// SkipUserConfig disables the $XDG_CONFIG_HOME/spinflip/config.toml layer
	SkipUserConfig bool

	// Overrides are dotted keys set from the command line; they win over
	// every other layer.
	Overrides map[string]interface{}
}

// DefaultContent returns the embedded default configuration
func DefaultContent() string {
	return string(defaultConfig)
}

// Load builds the run configuration from all layers and validates it
func Load(opts LoadOptions) (Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config
	if !opts.SkipUserConfig {
		userPath := UserConfigPath()
		if fileExists(userPath) {
			if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
				return Config{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to load user config from %s", userPath)
			}
			logger.Debug().Str("path", userPath).Msg("Loaded user config")
		}
	}

	// 3. Explicit or project config
	if opts.ConfigFile != "" {
		if !fileExists(opts.ConfigFile) {
			return Config{}, errors.Newf(errors.ErrFileNotFound, "config file %s not found", opts.ConfigFile)
		}
		if err := k.Load(file.Provider(opts.ConfigFile), toml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", opts.ConfigFile)
		}
		logger.Debug().Str("path", opts.ConfigFile).Msg("Loaded config file")
	} else if path := findProjectConfig(opts.WorkDir); path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to load project config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded project config")
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Command-line flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load flag overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToFloatSliceHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UserConfigPath returns the per-user config location
func UserConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "spinflip", "config.toml")
}

// envKey maps SPINFLIP_OUTPUT_LOG_FILE to output.log_file: the first
// segment is the section, the rest is the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func findProjectConfig(dir string) string {
	if dir == "" {
		dir = "."
	}
	for _, name := range ProjectConfigNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// stringToFloatSliceHookFunc decodes "1 -1" or "1,-1" into []float64 so
// moment lists can come from env vars as plain text.
func stringToFloatSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf([]float64{}) {
			return data, nil
		}
		return magnetic.ParseValues(data.(string))
	}
}
