package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// improve readability and map naturally to flags/env.
type FileConfig struct {
	Source string `yaml:"source" json:"source"`

	Output struct {
		Markdown string `yaml:"markdown" json:"markdown"`
		JSON     string `yaml:"json" json:"json"`
		PDF      string `yaml:"pdf" json:"pdf"`
	} `yaml:"output" json:"output"`

	Check struct {
		// Timeout is a Go duration string, e.g. "10s".
		Timeout     string   `yaml:"timeout" json:"timeout"`
		Concurrency int      `yaml:"concurrency" json:"concurrency"`
		UserAgent   string   `yaml:"userAgent" json:"userAgent"`
		SkipHosts   []string `yaml:"skipHosts" json:"skipHosts"`
	} `yaml:"check" json:"check"`

	Feed           bool `yaml:"feed" json:"feed"`
	IncludeWorking bool `yaml:"includeWorking" json:"includeWorking"`
	Strict         bool `yaml:"strict" json:"strict"`
	Verbose        bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags should already have been parsed; this
// function lets file config supply defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.Source == "" && fc.Source != "" {
		cfg.Source = fc.Source
	}
	if cfg.OutputPath == "" && fc.Output.Markdown != "" {
		cfg.OutputPath = fc.Output.Markdown
	}
	if cfg.JSONPath == "" && fc.Output.JSON != "" {
		cfg.JSONPath = fc.Output.JSON
	}
	if cfg.PDFPath == "" && fc.Output.PDF != "" {
		cfg.PDFPath = fc.Output.PDF
	}
	if cfg.Timeout == 0 && fc.Check.Timeout != "" {
		if d, err := time.ParseDuration(fc.Check.Timeout); err == nil {
			cfg.Timeout = d
		}
	}
	if cfg.Concurrency == 0 && fc.Check.Concurrency > 0 {
		cfg.Concurrency = fc.Check.Concurrency
	}
	if cfg.UserAgent == "" && fc.Check.UserAgent != "" {
		cfg.UserAgent = fc.Check.UserAgent
	}
	if len(cfg.SkipHosts) == 0 && len(fc.Check.SkipHosts) > 0 {
		cfg.SkipHosts = append([]string{}, fc.Check.SkipHosts...)
	}
	if !cfg.Feed && fc.Feed {
		cfg.Feed = true
	}
	if !cfg.IncludeWorking && fc.IncludeWorking {
		cfg.IncludeWorking = true
	}
	if !cfg.Strict && fc.Strict {
		cfg.Strict = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Source) == "" {
		return errors.New("config: document source is required")
	}
	if cfg.Timeout < 0 {
		return errors.New("config: negative timeout is not allowed")
	}
	if cfg.Concurrency < 0 {
		return errors.New("config: negative concurrency is not allowed")
	}
	return nil
}
