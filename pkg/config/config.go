// Package config loads the optional lento.yaml settings file read by the
// command line front end.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lento-lang/lento/pkg/lexer"
)

// FileName is the settings file looked up in the working directory.
const FileName = "lento.yaml"

// Config holds the front end settings. Unset fields keep their defaults.
type Config struct {
	Encoding  string `yaml:"encoding"`
	Verbose   bool   `yaml:"verbose"`
	Pretty    bool   `yaml:"pretty"`
	TypeCheck bool   `yaml:"typecheck"`
	History   string `yaml:"history"`
	Prompt    string `yaml:"prompt"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Encoding:  lexer.DefaultEncoding,
		Pretty:    true,
		TypeCheck: true,
		History:   ".lento_history",
		Prompt:    "LI> ",
	}
}

// ValidationError aggregates settings validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads settings from path. An empty path looks for FileName in the
// working directory and returns the defaults if it does not exist; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	return cfg, nil
}

// Decode parses settings from r on top of the defaults. Unknown keys are
// an error. An empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var issues []string
	if _, err := lexer.LookupEncoding(c.Encoding); err != nil {
		issues = append(issues, err.Error())
	}
	if c.Prompt == "" {
		issues = append(issues, "prompt must not be empty")
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
