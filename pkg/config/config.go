// Package config loads criteria engine configuration from defaults, a YAML
// file, CRITERIA_* environment variables and command line flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/pay-theory/criteria/pkg/compiler"
	criteriaErrors "github.com/pay-theory/criteria/pkg/errors"
	"github.com/pay-theory/criteria/pkg/naming"
	"github.com/pay-theory/criteria/pkg/query"
	"github.com/pay-theory/criteria/pkg/validation"
)

const (
	// EnvPrefix prefixes environment overrides: CRITERIA_LOG_LEVEL -> log.level
	EnvPrefix = "CRITERIA_"
	// DefaultConfigFile is looked up in the working directory when no file is given
	DefaultConfigFile = "criteria.yaml"

	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the engine settings
type Config struct {
	Naming   string         `koanf:"naming" yaml:"naming"`
	Strict   bool           `koanf:"strict" yaml:"strict"`
	Output   string         `koanf:"output" yaml:"output"`
	Wildcard WildcardConfig `koanf:"wildcard" yaml:"wildcard"`
	Paging   PagingConfig   `koanf:"paging" yaml:"paging"`
	Limits   LimitsConfig   `koanf:"limits" yaml:"limits"`
	Log      LogConfig      `koanf:"log" yaml:"log"`
}

// WildcardConfig controls Like wildcard handling
type WildcardConfig struct {
	Char string `koanf:"char" yaml:"char"` // Empty disables wildcard handling
	Mode string `koanf:"mode" yaml:"mode"` // trailing or both
}

// PagingConfig holds paging defaults
type PagingConfig struct {
	DefaultSize int `koanf:"default_size" yaml:"default_size"`
}

// LimitsConfig bounds untrusted expressions
type LimitsConfig struct {
	MaxExpressionLength int `koanf:"max_expression_length" yaml:"max_expression_length"`
	MaxPathDepth        int `koanf:"max_path_depth" yaml:"max_path_depth"`
	MaxValueLength      int `koanf:"max_value_length" yaml:"max_value_length"`
	MaxListItems        int `koanf:"max_list_items" yaml:"max_list_items"`
}

// LogConfig selects the log level and format
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// flagKeys maps flag names to config keys where they differ
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"wildcard":      "wildcard.char",
	"wildcard-mode": "wildcard.mode",
	"page-size":     "paging.default_size",
	"max-length":    "limits.max_expression_length",
	"max-depth":     "limits.max_path_depth",
}

// Defaults returns the default configuration
func Defaults() *Config {
	limits := validation.DefaultLimits()
	return &Config{
		Naming: naming.Preserve.String(),
		Output: FormatText,
		Wildcard: WildcardConfig{
			Mode: compiler.WildcardTrailing.String(),
		},
		Paging: PagingConfig{
			DefaultSize: query.DefaultPageSize,
		},
		Limits: LimitsConfig{
			MaxExpressionLength: limits.MaxExpressionLength,
			MaxPathDepth:        limits.MaxPathDepth,
			MaxValueLength:      limits.MaxValueLength,
			MaxListItems:        limits.MaxListItems,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultMap() map[string]any {
	d := Defaults()
	return map[string]any{
		"naming":                       d.Naming,
		"strict":                       d.Strict,
		"output":                       d.Output,
		"wildcard.char":                d.Wildcard.Char,
		"wildcard.mode":                d.Wildcard.Mode,
		"paging.default_size":          d.Paging.DefaultSize,
		"limits.max_expression_length": d.Limits.MaxExpressionLength,
		"limits.max_path_depth":        d.Limits.MaxPathDepth,
		"limits.max_value_length":      d.Limits.MaxValueLength,
		"limits.max_list_items":        d.Limits.MaxListItems,
		"log.level":                    d.Log.Level,
		"log.format":                   d.Log.Format,
	}
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// An empty cfgFile uses criteria.yaml from the working directory when present.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: CRITERIA_PAGING_DEFAULT_SIZE -> paging.default_size
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags explicitly set on the command line
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps CRITERIA_SECTION_NAME to section.name; the first underscore
// after the prefix separates the section
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Validate checks every setting
func (c *Config) Validate() error {
	var problems []string

	if _, err := naming.ParseConvention(c.Naming); err != nil {
		problems = append(problems, err.Error())
	}
	if utf8.RuneCountInString(c.Wildcard.Char) > 1 {
		problems = append(problems, fmt.Sprintf("wildcard must be a single character (got %q)", c.Wildcard.Char))
	}
	if _, err := compiler.ParseWildcardMode(c.Wildcard.Mode); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Paging.DefaultSize <= 0 {
		problems = append(problems, fmt.Sprintf("paging.default_size must be positive (got %d)", c.Paging.DefaultSize))
	}
	if c.Limits.MaxExpressionLength < 0 || c.Limits.MaxPathDepth < 0 ||
		c.Limits.MaxValueLength < 0 || c.Limits.MaxListItems < 0 {
		problems = append(problems, "limits cannot be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}
	switch c.Output {
	case FormatText, FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("unknown output format %q", c.Output))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", criteriaErrors.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Convention returns the naming convention for default condition names
func (c *Config) Convention() naming.Convention {
	conv, _ := naming.ParseConvention(c.Naming)
	return conv
}

// WildcardRune returns the Like wildcard, zero when disabled
func (c *Config) WildcardRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Wildcard.Char)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// WildcardMode returns where the wildcard is placed
func (c *Config) WildcardMode() compiler.WildcardMode {
	mode, _ := compiler.ParseWildcardMode(c.Wildcard.Mode)
	return mode
}

// ValidationLimits returns the expression limits
func (c *Config) ValidationLimits() validation.Limits {
	return validation.Limits{
		MaxExpressionLength: c.Limits.MaxExpressionLength,
		MaxPathDepth:        c.Limits.MaxPathDepth,
		MaxValueLength:      c.Limits.MaxValueLength,
		MaxListItems:        c.Limits.MaxListItems,
	}
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yamlv3.Marshal(c)
}
