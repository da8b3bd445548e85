package format

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "miss_hit.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.IndentSize != 4 {
		t.Errorf("Expected default indent size 4, got %d", config.IndentSize)
	}
	if !config.Semicolons {
		t.Errorf("Expected semicolons by default")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected the default config to be valid, got %v", err)
	}
}

func TestConfigLoadDefault(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Loading nonexistent config should return default, got error: %v", err)
	}
	if *config != *DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", config)
	}
}

func TestConfigLoadFormatSection(t *testing.T) {
	path := writeConfig(t, `
suppress_rule:
  - builtin_shadow
format:
  indent_size: 2
  semicolons: false
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.IndentSize != 2 {
		t.Errorf("Expected indent size 2, got %d", config.IndentSize)
	}
	if config.Semicolons {
		t.Errorf("Expected semicolons false")
	}
}

func TestConfigPartialSettings(t *testing.T) {
	path := writeConfig(t, "format:\n  indent_size: 3\n")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.IndentSize != 3 {
		t.Errorf("Expected indent size 3, got %d", config.IndentSize)
	}
	if !config.Semicolons {
		t.Errorf("Expected unset options to keep their defaults")
	}
}

func TestConfigWithoutFormatSection(t *testing.T) {
	path := writeConfig(t, "workers: 4\n")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if *config != *DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", config)
	}
}

func TestConfigLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: yaml: content:\n  - bad")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected error loading invalid YAML")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Expected the error to name the file, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		indent int
		valid  bool
	}{
		{0, false},
		{1, true},
		{8, true},
		{9, false},
		{-2, false},
	}

	for _, tt := range tests {
		err := (&Config{IndentSize: tt.indent}).Validate()
		if (err == nil) != tt.valid {
			t.Errorf("IndentSize %d: expected valid=%v, got %v", tt.indent, tt.valid, err)
		}
	}

	path := writeConfig(t, "format:\n  indent_size: 0\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected LoadConfig to reject indent_size 0")
	}
}
