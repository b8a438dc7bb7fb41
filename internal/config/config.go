// Package config loads CLI configuration from defaults, a YAML file,
// LEADERBOARD_* environment variables, and explicitly set flags, in that
// order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-leaderboard/pkg/source"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. LEADERBOARD_BASE.
	EnvPrefix = "LEADERBOARD_"

	DefaultBase     = "."
	DefaultRenderer = "html"
	DefaultAddr     = ":8080"
	DefaultTimeout  = 10 * time.Second
	DefaultDebounce = 200 * time.Millisecond
)

// ConfigFileNames are searched in the working directory when no explicit
// --config is given.
var ConfigFileNames = []string{"leaderboard.yaml", "leaderboard.yml"}

// Config holds all CLI configuration options.
type Config struct {
	Base           string        `koanf:"base"`
	Path           string        `koanf:"path"`
	Renderer       string        `koanf:"renderer"`
	Output         string        `koanf:"output"`
	Title          string        `koanf:"title"`
	Caption        string        `koanf:"caption"`
	Timeout        time.Duration `koanf:"timeout"`
	Addr           string        `koanf:"addr"`
	Theme          string        `koanf:"theme"`
	Variant        string        `koanf:"variant"`
	ThemeFile      string        `koanf:"theme_file"`
	Verbose        bool          `koanf:"verbose"`
	Interactive    bool          `koanf:"interactive"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	Debounce       time.Duration `koanf:"debounce"`

	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"base":            DefaultBase,
		"path":            source.DefaultPath,
		"renderer":        DefaultRenderer,
		"output":          "",
		"title":           "",
		"caption":         "",
		"timeout":         DefaultTimeout.String(),
		"addr":            DefaultAddr,
		"verbose":         false,
		"interactive":     false,
		"allowed_origins": []string{},
		"debounce":        DefaultDebounce.String(),
	}
}

// findConfigFile returns explicit when set, else the first existing default
// file name.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration. flags may be nil; only flags the user set
// override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.ConfigFile = used
	cfg.AllowedOrigins = splitOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Renderer) == "" {
		errs = append(errs, errors.New("config: renderer is required"))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout))
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("config: debounce must not be negative, got %s", c.Debounce))
	}
	return errors.Join(errs...)
}

// Source resolves Base and Path into the leaderboard document source.
func (c *Config) Source() (source.Source, error) {
	return source.Resolve(c.Base, c.Path)
}

// splitOrigins flattens comma separated entries so env values like
// "a.example,b.example" and YAML lists behave the same.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
