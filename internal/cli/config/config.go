package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/CerenB/miss-hit/compiler/parser"
	"github.com/CerenB/miss-hit/internal/format"
)

// FileName is the configuration file looked up in the working directory,
// without its extension
const FileName = "miss_hit"

// EnvPrefix prefixes environment variables that override the file, for
// example MH_MAX_DEPTH or MH_FORMAT_INDENT_SIZE
const EnvPrefix = "MH"

// Config represents the miss_hit configuration
type Config struct {
	SuppressRule []string      `mapstructure:"suppress_rule"`
	Workers      int           `mapstructure:"workers"`
	MaxDepth     int           `mapstructure:"max_depth"`
	Octave       bool          `mapstructure:"octave"`
	Format       format.Config `mapstructure:"format"`

	// File is the configuration file that was read, empty when only
	// defaults and the environment apply
	File string `mapstructure:"-"`
}

// Load loads the configuration from miss_hit.yml in the working directory
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return load(v)
}

// LoadFile loads the configuration from an explicit path. Unlike Load, a
// missing file is an error.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	v := newViper()
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		v.SetConfigType("yaml")
	}
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := format.DefaultConfig()
	v.SetDefault("suppress_rule", []string{})
	v.SetDefault("workers", 0)
	v.SetDefault("max_depth", parser.DefaultMaxDepth)
	v.SetDefault("octave", false)
	v.SetDefault("format.indent_size", defaults.IndentSize)
	v.SetDefault("format.semicolons", defaults.Semicolons)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.File = v.ConfigFileUsed()

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Rules returns the parser checks left active by suppress_rule
func (c *Config) Rules() (parser.RuleSet, error) {
	return parser.NewRuleSet(c.SuppressRule)
}

// ParserOptions returns the parser options the configuration implies
func (c *Config) ParserOptions() ([]parser.Option, error) {
	rules, err := c.Rules()
	if err != nil {
		return nil, err
	}
	return []parser.Option{parser.WithRules(rules), parser.WithMaxDepth(c.MaxDepth)}, nil
}

// WorkerCount returns the number of files parsed in parallel. Zero means
// one per available CPU.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got: %d", cfg.Workers)
	}
	if cfg.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got: %d", cfg.MaxDepth)
	}
	if _, err := cfg.Rules(); err != nil {
		return fmt.Errorf("suppress_rule: %w", err)
	}
	if err := cfg.Format.Validate(); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}
