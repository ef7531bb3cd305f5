package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkcheck.yaml")
	content := `source: https://docs.google.com/document/d/abc/edit
output:
  markdown: report.md
  json: report.json
check:
  timeout: 5s
  concurrency: 4
  skipHosts:
    - internal.example.com
strict: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.Source != "https://docs.google.com/document/d/abc/edit" {
		t.Fatalf("source = %q", fc.Source)
	}
	if fc.Output.Markdown != "report.md" || fc.Output.JSON != "report.json" {
		t.Fatalf("output = %+v", fc.Output)
	}
	if fc.Check.Timeout != "5s" || fc.Check.Concurrency != 4 {
		t.Fatalf("check = %+v", fc.Check)
	}
	if len(fc.Check.SkipHosts) != 1 || !fc.Strict {
		t.Fatalf("skipHosts/strict = %+v %v", fc.Check.SkipHosts, fc.Strict)
	}
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
	var fc FileConfig
	fc.Source = "file-source.html"
	fc.Check.Timeout = "5s"
	fc.Check.Concurrency = 4

	cfg := Config{Source: "flag-source.html", Timeout: 30 * time.Second}
	ApplyFileConfig(&cfg, fc)

	if cfg.Source != "flag-source.html" {
		t.Fatalf("flag source overridden: %q", cfg.Source)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("flag timeout overridden: %v", cfg.Timeout)
	}
	// Unset field is filled from file.
	if cfg.Concurrency != 4 {
		t.Fatalf("concurrency not filled: %d", cfg.Concurrency)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LINKCHECK_SOURCE", "https://example.com/doc")
	t.Setenv("LINKCHECK_TIMEOUT", "3s")
	t.Setenv("LINKCHECK_CONCURRENCY", "7")
	t.Setenv("LINKCHECK_SKIP_HOSTS", "a.example.com, b.example.com")
	t.Setenv("LINKCHECK_STRICT", "true")

	// Env overrides even fields already populated, e.g. by a config file.
	cfg := Config{Source: "file-source.html", Timeout: time.Minute}
	ApplyEnvOverrides(&cfg)

	if cfg.Source != "https://example.com/doc" {
		t.Fatalf("source = %q", cfg.Source)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
	if cfg.Concurrency != 7 {
		t.Fatalf("concurrency = %d", cfg.Concurrency)
	}
	if len(cfg.SkipHosts) != 2 || cfg.SkipHosts[1] != "b.example.com" {
		t.Fatalf("skipHosts = %+v", cfg.SkipHosts)
	}
	if !cfg.Strict {
		t.Fatalf("strict not set")
	}

	// A falsey boolean env var forces the field off.
	t.Setenv("LINKCHECK_STRICT", "0")
	cfg2 := Config{Strict: true}
	ApplyEnvOverrides(&cfg2)
	if cfg2.Strict {
		t.Fatalf("strict should be forced off by LINKCHECK_STRICT=0")
	}

	// Fields without a corresponding env var keep their values.
	cfg3 := Config{OutputPath: "report.md", Verbose: true}
	ApplyEnvOverrides(&cfg3)
	if cfg3.OutputPath != "report.md" || !cfg3.Verbose {
		t.Fatalf("unset env vars must not touch fields: %+v", cfg3)
	}
}

func TestConfigPrecedence_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkcheck.yaml")
	content := `check:
  userAgent: from-file
  concurrency: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LINKCHECK_USER_AGENT", "from-env")

	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same layering order as the CLI: file overlay first, env on top.
	var cfg Config
	ApplyFileConfig(&cfg, fc)
	ApplyEnvOverrides(&cfg)

	if cfg.UserAgent != "from-env" {
		t.Fatalf("env should beat config file; got %q", cfg.UserAgent)
	}
	// File values without an env counterpart survive.
	if cfg.Concurrency != 4 {
		t.Fatalf("concurrency = %d", cfg.Concurrency)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(Config{}); err == nil {
		t.Fatalf("expected error for missing source")
	}
	if err := ValidateConfig(Config{Source: "doc.html", Timeout: -time.Second}); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
	if err := ValidateConfig(Config{Source: "doc.html"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
