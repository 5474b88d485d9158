// Package config manages generator configuration from flags, environment
// variables and an optional YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
)

const envPrefix = "HUBSITE_"

// Config holds runtime configuration for the site generator.
type Config struct {
	BuildDir     string `yaml:"buildDir"`
	DataPath     string `yaml:"dataPath"`
	TemplatePath string `yaml:"templatePath"`
	StaticDir    string `yaml:"staticDir"`
	MinPython    string `yaml:"minPython"`
	MaxPython    string `yaml:"maxPython"`
	Watch        bool   `yaml:"watch"`
	Verbose      bool   `yaml:"verbose"`
}

// Default returns ready-to-use defaults prior to file/env/flag overrides.
// Empty DataPath and TemplatePath are later derived from BuildDir.
func Default() Config {
	return Config{
		BuildDir:  "_build",
		MinPython: "3.6",
		MaxPython: "3.11",
	}
}

// RegisterFlags attaches configuration flags to the provided FlagSet.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.BuildDir, "build-dir", "b", cfg.BuildDir, "build output directory")
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "plugin dataset CSV (default: <build-dir>/data/final_plugins.csv)")
	fs.StringVar(&cfg.TemplatePath, "template", cfg.TemplatePath, "detail page template (default: <build-dir>/templates/each_plugin_template.html)")
	fs.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "optional directory of static assets to copy into the build")
	fs.StringVar(&cfg.MinPython, "min-python", cfg.MinPython, "lowest interpreter version assumed when a specifier has no lower bound")
	fs.StringVar(&cfg.MaxPython, "max-python", cfg.MaxPython, "highest supported interpreter version when a specifier has no upper bound")
	fs.BoolVarP(&cfg.Watch, "watch", "w", cfg.Watch, "regenerate whenever the dataset or template change")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable verbose logging")
}

// ApplyEnvOverrides reads supported environment variables and overrides cfg
// in place.
func ApplyEnvOverrides(cfg *Config) {
	applyStringEnv("BUILD_DIR", func(v string) { cfg.BuildDir = v })
	applyStringEnv("DATA", func(v string) { cfg.DataPath = v })
	applyStringEnv("TEMPLATE", func(v string) { cfg.TemplatePath = v })
	applyStringEnv("STATIC", func(v string) { cfg.StaticDir = v })
	applyStringEnv("MIN_PYTHON", func(v string) { cfg.MinPython = v })
	applyStringEnv("MAX_PYTHON", func(v string) { cfg.MaxPython = v })
	applyBoolEnv("WATCH", func(v bool) { cfg.Watch = v })
	applyBoolEnv("VERBOSE", func(v bool) { cfg.Verbose = v })
}

// flagNames maps Config YAML keys to their flag names, for ApplyFile's
// explicit-flag precedence checks.
var flagNames = map[string]string{
	"buildDir":     "build-dir",
	"dataPath":     "data",
	"templatePath": "template",
	"staticDir":    "static",
	"minPython":    "min-python",
	"maxPython":    "max-python",
	"watch":        "watch",
	"verbose":      "verbose",
}

// ApplyFile overlays a YAML config file onto cfg. Values set explicitly on
// the command line win over the file; the file wins over defaults and
// environment overrides.
func ApplyFile(path string, fs *pflag.FlagSet, cfg *Config) error {
	raw, err := os.ReadFile(path) //nolint:gosec // path supplied on the command line
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fileCfg := *cfg
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	keep := func(name string) bool { return fs != nil && fs.Changed(flagNames[name]) }
	if !keep("buildDir") {
		cfg.BuildDir = fileCfg.BuildDir
	}
	if !keep("dataPath") {
		cfg.DataPath = fileCfg.DataPath
	}
	if !keep("templatePath") {
		cfg.TemplatePath = fileCfg.TemplatePath
	}
	if !keep("staticDir") {
		cfg.StaticDir = fileCfg.StaticDir
	}
	if !keep("minPython") {
		cfg.MinPython = fileCfg.MinPython
	}
	if !keep("maxPython") {
		cfg.MaxPython = fileCfg.MaxPython
	}
	if !keep("watch") {
		cfg.Watch = fileCfg.Watch
	}
	if !keep("verbose") {
		cfg.Verbose = fileCfg.Verbose
	}
	return nil
}

func applyStringEnv(key string, apply func(string)) {
	if raw, ok := lookupNonEmpty(key); ok {
		apply(raw)
	}
}

func applyBoolEnv(key string, apply func(bool)) {
	if raw, ok := lookupNonEmpty(key); ok {
		if value, err := strconv.ParseBool(raw); err == nil {
			apply(value)
		}
	}
}

func lookupNonEmpty(key string) (string, bool) {
	raw, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	return value, true
}

// Finalize validates and normalizes the configuration.
func Finalize(cfg *Config) error {
	if cfg.BuildDir == "" {
		cfg.BuildDir = "_build"
	}
	buildDir, err := filepath.Abs(cfg.BuildDir)
	if err != nil {
		return fmt.Errorf("resolve build directory: %w", err)
	}
	cfg.BuildDir = buildDir

	for _, bound := range []struct{ name, value string }{
		{"min-python", cfg.MinPython},
		{"max-python", cfg.MaxPython},
	} {
		if bound.value == "" {
			continue
		}
		if err := validateVersion(bound.value); err != nil {
			return fmt.Errorf("invalid %s: %w", bound.name, err)
		}
	}
	return nil
}

func validateVersion(v string) error {
	parts := strings.Split(v, ".")
	if len(parts) != 2 {
		return fmt.Errorf("version %q must have the form X.Y", v)
	}
	for _, part := range parts {
		if _, err := strconv.Atoi(part); err != nil {
			return fmt.Errorf("version %q must be numeric", v)
		}
	}
	return nil
}
