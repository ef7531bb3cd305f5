package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/linkcheck/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		source         string
		configPath     string
		outputPath     string
		jsonPath       string
		pdfPath        string
		timeout        time.Duration
		concurrency    int
		userAgent      string
		skipHosts      string
		feedMode       bool
		includeWorking bool
		strict         bool
		verbose        bool
	)

	flag.StringVar(&source, "doc", "", "Document to check: Google Docs URL, plain URL, or local file")
	flag.StringVar(&configPath, "config", "", "Path to YAML/JSON config file")
	flag.StringVar(&outputPath, "output", "", "Path to write a Markdown report (optional)")
	flag.StringVar(&jsonPath, "json", "", "Path to write a JSON report for CI (optional)")
	flag.StringVar(&pdfPath, "pdf", "", "Path to write a PDF report (optional)")
	flag.DurationVar(&timeout, "timeout", 0, "Per-link timeout (default 10s)")
	flag.IntVar(&concurrency, "concurrency", 0, "Maximum concurrent link checks (default 10)")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent for all requests")
	flag.StringVar(&skipHosts, "skip", "", "Comma-separated hosts to skip (subdomains included)")
	flag.BoolVar(&feedMode, "feed", false, "Treat the document as an RSS/Atom feed")
	flag.BoolVar(&includeWorking, "include-working", false, "List working links in console output")
	flag.BoolVar(&strict, "strict", false, "Exit nonzero when broken or unreachable links are found")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	// The document may also be given as the sole positional argument.
	if source == "" && flag.NArg() > 0 {
		source = flag.Arg(0)
	}

	cfg := app.Config{
		Source:         source,
		OutputPath:     outputPath,
		JSONPath:       jsonPath,
		PDFPath:        pdfPath,
		Timeout:        timeout,
		Concurrency:    concurrency,
		UserAgent:      userAgent,
		Feed:           feedMode,
		IncludeWorking: includeWorking,
		Strict:         strict,
		Verbose:        verbose,
	}
	if s := strings.TrimSpace(skipHosts); s != "" {
		for _, p := range strings.Split(s, ",") {
			if v := strings.TrimSpace(p); v != "" {
				cfg.SkipHosts = append(cfg.SkipHosts, v)
			}
		}
	}

	// Precedence: flags > environment > config file > defaults. The file
	// overlay fills fields left unset by flags, env overrides file values,
	// and explicitly set flags are re-asserted last.
	fromFlags := cfg
	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("config", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	reassertFlags(&cfg, fromFlags, explicit)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\nUsage: linkcheck [flags] <document>\n", err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 1 for usage/config problems (handled above),
		// 2 for fetch/parse failures and for strict-mode broken links.
		os.Exit(2)
	}
}

// reassertFlags restores values the user gave on the command line, keeping
// flags the highest-precedence configuration source after the env overlay.
func reassertFlags(cfg *app.Config, fromFlags app.Config, explicit map[string]bool) {
	if fromFlags.Source != "" {
		cfg.Source = fromFlags.Source
	}
	if explicit["output"] {
		cfg.OutputPath = fromFlags.OutputPath
	}
	if explicit["json"] {
		cfg.JSONPath = fromFlags.JSONPath
	}
	if explicit["pdf"] {
		cfg.PDFPath = fromFlags.PDFPath
	}
	if explicit["timeout"] {
		cfg.Timeout = fromFlags.Timeout
	}
	if explicit["concurrency"] {
		cfg.Concurrency = fromFlags.Concurrency
	}
	if explicit["ua"] {
		cfg.UserAgent = fromFlags.UserAgent
	}
	if explicit["skip"] {
		cfg.SkipHosts = fromFlags.SkipHosts
	}
	if explicit["feed"] {
		cfg.Feed = fromFlags.Feed
	}
	if explicit["include-working"] {
		cfg.IncludeWorking = fromFlags.IncludeWorking
	}
	if explicit["strict"] {
		cfg.Strict = fromFlags.Strict
	}
	if explicit["v"] {
		cfg.Verbose = fromFlags.Verbose
	}
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Run(ctx); err != nil {
		if errors.Is(err, app.ErrBrokenLinks) {
			return err
		}
		return fmt.Errorf("check document: %w", err)
	}
	return nil
}
