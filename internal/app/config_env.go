package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides forcefully overrides cfg fields with environment
// variables when the corresponding env vars are set. This runs after the
// config file overlay so that env takes precedence over file values; the CLI
// re-asserts explicitly set flags afterwards so flags remain the
// highest-precedence source.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("LINKCHECK_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv("LINKCHECK_OUTPUT"); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv("LINKCHECK_JSON"); v != "" {
		cfg.JSONPath = v
	}
	if v := os.Getenv("LINKCHECK_PDF"); v != "" {
		cfg.PDFPath = v
	}
	if v := os.Getenv("LINKCHECK_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	if s := os.Getenv("LINKCHECK_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Timeout = d
		}
	}
	if s := os.Getenv("LINKCHECK_CONCURRENCY"); s != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}

	if s := strings.TrimSpace(os.Getenv("LINKCHECK_SKIP_HOSTS")); s != "" {
		var hosts []string
		for _, p := range strings.Split(s, ",") {
			if v := strings.TrimSpace(p); v != "" {
				hosts = append(hosts, v)
			}
		}
		if len(hosts) > 0 {
			cfg.SkipHosts = hosts
		}
	}

	// Booleans override when the env var is present and truthy/falsey.
	setBool := func(dst *bool, envKey string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.Feed, "LINKCHECK_FEED")
	setBool(&cfg.IncludeWorking, "LINKCHECK_INCLUDE_WORKING")
	setBool(&cfg.Strict, "LINKCHECK_STRICT")
	setBool(&cfg.Verbose, "LINKCHECK_VERBOSE")
}
