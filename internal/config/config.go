// Package config loads doxmd settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/agentic-research/doxmd/internal/entity"
	"github.com/agentic-research/doxmd/internal/selector"
)

// DefaultFile is looked up in the working directory when --config is not given.
const DefaultFile = "doxmd.yaml"

// Config represents the complete doxmd configuration
type Config struct {
	// Input is the root Doxygen XML document (e.g. build/xml/nuts-getopts_8h.xml)
	Input string `yaml:"input"`
	// Template is the text/template rendered against the selected entities (empty = built-in)
	Template string `yaml:"template"`
	// Output is the Markdown file written by render ("-" = stdout)
	Output string `yaml:"output"`
	// GitHub enables GitHub-flavoured output in templates
	GitHub bool `yaml:"github"`
	// Typedefs lists compound names documented as type aliases
	Typedefs []string `yaml:"typedefs"`
	// RefSuffix turns an innerclass refid into a sibling file name
	RefSuffix string `yaml:"ref_suffix"`

	Examples ExamplesConfig `yaml:"examples"`
}

// ExamplesConfig locates example sources exposed to templates
type ExamplesConfig struct {
	// Dir is the directory searched for examples (empty = none)
	Dir string `yaml:"dir"`
	// Pattern is a doublestar glob relative to Dir
	Pattern string `yaml:"pattern"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Typedefs:  append([]string(nil), entity.DefaultTypedefs...),
		RefSuffix: selector.DefaultRefSuffix,
		Examples: ExamplesConfig{
			Pattern: "*.c",
		},
	}
}

// Validate checks that the configuration is usable for rendering
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if c.RefSuffix == "" {
		return fmt.Errorf("ref_suffix must not be empty")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. Relative paths in the
// file are resolved against the file's directory.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&config.Input, &config.Template, &config.Output, &config.Examples.Dir} {
		if *p != "" && *p != "-" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return config, nil
}

// Load reads path if given, otherwise DefaultFile when it exists, otherwise
// returns the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return LoadFromFile(DefaultFile)
	}
	return DefaultConfig(), nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Input != "" {
		c.Input = other.Input
	}
	if other.Template != "" {
		c.Template = other.Template
	}
	if other.Output != "" {
		c.Output = other.Output
	}
	if other.GitHub {
		c.GitHub = true
	}
	if len(other.Typedefs) > 0 {
		c.Typedefs = other.Typedefs
	}
	if other.RefSuffix != "" {
		c.RefSuffix = other.RefSuffix
	}

	if other.Examples.Dir != "" {
		c.Examples.Dir = other.Examples.Dir
	}
	if other.Examples.Pattern != "" {
		c.Examples.Pattern = other.Examples.Pattern
	}
}
