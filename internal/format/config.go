package format

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents formatting configuration options
type Config struct {
	IndentSize int  `yaml:"indent_size" mapstructure:"indent_size"`
	Semicolons bool `yaml:"semicolons" mapstructure:"semicolons"`
}

// DefaultConfig returns the default formatting configuration
func DefaultConfig() *Config {
	return &Config{
		IndentSize: 4,
		Semicolons: true,
	}
}

// Validate checks the option ranges
func (c *Config) Validate() error {
	if c.IndentSize < 1 || c.IndentSize > 8 {
		return fmt.Errorf("indent_size must be between 1 and 8, got %d", c.IndentSize)
	}
	return nil
}

// LoadConfig reads the 'format' section of a miss_hit.yml file. A missing
// file yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	wrapper := struct {
		Format *Config `yaml:"format"`
	}{Format: DefaultConfig()}

	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := wrapper.Format.Validate(); err != nil {
		return nil, err
	}
	return wrapper.Format, nil
}
