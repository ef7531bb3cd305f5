package app

import "time"

// DefaultUserAgent identifies the tool; some hosts reject requests without a
// browser-looking agent, so this can be overridden per run.
const DefaultUserAgent = "linkcheck/1.0 (+https://github.com/hyperifyio/linkcheck)"

// Config holds runtime configuration for the application.
type Config struct {
	// Source is the document to scan: Google Docs URL, plain URL, or file path.
	Source string

	// Outputs. Empty paths disable the corresponding output; the console
	// report is always written.
	OutputPath string // Markdown report
	JSONPath   string // machine-readable report for CI
	PDFPath    string // rendered PDF report

	// Checking
	Timeout     time.Duration
	Concurrency int
	UserAgent   string
	SkipHosts   []string

	// Behavior
	Feed           bool // treat the document as an RSS/Atom feed
	IncludeWorking bool // list working links in console output
	Strict         bool // nonzero exit when broken/errored links exist
	Verbose        bool
}

// applyDefaults fills zero fields with the documented defaults.
func applyDefaults(cfg *Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
}
