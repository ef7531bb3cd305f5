package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/linkcheck/internal/check"
	"github.com/hyperifyio/linkcheck/internal/docs"
	"github.com/hyperifyio/linkcheck/internal/extract"
	"github.com/hyperifyio/linkcheck/internal/feed"
	"github.com/hyperifyio/linkcheck/internal/fetch"
	"github.com/hyperifyio/linkcheck/internal/report"
)

// ErrBrokenLinks is returned from Run in strict mode when at least one link
// came back broken or errored. Per the exit code policy, the CLI maps this to
// a non-zero exit.
var ErrBrokenLinks = errors.New("broken or unreachable links found")

// App wires the fetcher, extractor, checker and reporter together for one run.
type App struct {
	cfg     Config
	fetcher *fetch.Client
	checker *check.Checker

	// Stdout receives the console report; overridable for tests.
	Stdout io.Writer
}

func New(cfg Config) *App {
	applyDefaults(&cfg)
	return &App{
		cfg: cfg,
		fetcher: &fetch.Client{
			UserAgent:         cfg.UserAgent,
			MaxAttempts:       2,
			PerRequestTimeout: cfg.Timeout,
			RedirectMaxHops:   5,
		},
		checker: &check.Checker{
			UserAgent:     cfg.UserAgent,
			Timeout:       cfg.Timeout,
			MaxConcurrent: cfg.Concurrency,
			SkipHosts:     cfg.SkipHosts,
		},
		Stdout: os.Stdout,
	}
}

// Run executes the whole pipeline: resolve the source, fetch the document,
// extract links, check them, and write the requested reports.
func (a *App) Run(ctx context.Context) error {
	src, err := docs.Resolve(a.cfg.Source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	if src.Kind == docs.KindGoogleDoc {
		log.Info().Str("export", src.Location).Msg("resolved google doc to export URL")
	}

	body, contentType, base, err := a.loadDocument(ctx, src)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	log.Debug().Int("bytes", len(body)).Str("contentType", contentType).Msg("document loaded")

	links, title, err := a.collectLinks(body, contentType, base)
	if err != nil {
		return fmt.Errorf("extract links: %w", err)
	}
	if len(links) == 0 {
		log.Info().Str("document", src.Location).Msg("no links found in document")
	} else {
		log.Info().Int("links", len(links)).Msg("checking links")
	}

	results := a.checker.CheckAll(ctx, links)
	rep := report.New(src.Location, title, results)

	if err := a.writeOutputs(rep); err != nil {
		return err
	}

	log.Info().
		Int("working", rep.Summary.Working).
		Int("broken", rep.Summary.Broken).
		Int("errors", rep.Summary.Errored).
		Msg("check complete")

	if a.cfg.Strict && (rep.Summary.Broken > 0 || rep.Summary.Errored > 0) {
		return ErrBrokenLinks
	}
	return nil
}

// loadDocument reads the document body either from disk or over HTTP, and
// reports a content type plus the base URL for resolving relative links.
func (a *App) loadDocument(ctx context.Context, src docs.Source) ([]byte, string, *url.URL, error) {
	if src.Kind == docs.KindFile {
		body, err := os.ReadFile(src.Location)
		if err != nil {
			return nil, "", nil, fmt.Errorf("read file: %w", err)
		}
		return body, contentTypeForPath(src.Location), nil, nil
	}

	body, contentType, err := a.fetcher.Get(ctx, src.Location)
	if err != nil {
		return nil, "", nil, fmt.Errorf("fetch %s: %w", src.Location, err)
	}
	base, err := url.Parse(src.Location)
	if err != nil {
		base = nil
	}
	return body, contentType, base, nil
}

// collectLinks picks the extractor matching the document shape: feed, HTML,
// or plain text. Generic XML is tried as a feed first since that is the only
// XML flavor we know how to pull links from.
func (a *App) collectLinks(body []byte, contentType string, base *url.URL) ([]extract.Link, string, error) {
	ct := normalizeContentType(contentType)

	if a.cfg.Feed || isFeedContentType(ct) {
		links, title, err := feed.Links(body)
		if err != nil {
			if a.cfg.Feed {
				return nil, "", err
			}
			// Content sniffing got it wrong; fall back to a text scan.
			log.Debug().Err(err).Msg("feed parse failed, falling back to text scan")
			return extract.FromText(body), "", nil
		}
		return links, title, nil
	}

	if ct == "text/html" || ct == "application/xhtml+xml" {
		page, err := extract.FromHTML(body, base)
		if err != nil {
			return nil, "", err
		}
		return page.Links, page.Title, nil
	}

	return extract.FromText(body), "", nil
}

func (a *App) writeOutputs(rep report.Report) error {
	if err := report.WriteText(a.Stdout, rep, a.cfg.IncludeWorking); err != nil {
		return fmt.Errorf("write console report: %w", err)
	}
	if a.cfg.OutputPath != "" {
		if err := os.WriteFile(a.cfg.OutputPath, []byte(report.Markdown(rep)), 0o644); err != nil {
			return fmt.Errorf("write markdown report: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote markdown report")
	}
	if a.cfg.JSONPath != "" {
		data, err := report.JSON(rep)
		if err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		if err := os.WriteFile(a.cfg.JSONPath, data, 0o644); err != nil {
			return fmt.Errorf("write json report: %w", err)
		}
		log.Info().Str("out", a.cfg.JSONPath).Msg("wrote json report")
	}
	if a.cfg.PDFPath != "" {
		if err := report.WritePDF(rep, a.cfg.PDFPath); err != nil {
			return fmt.Errorf("write pdf report: %w", err)
		}
		log.Info().Str("out", a.cfg.PDFPath).Msg("wrote pdf report")
	}
	return nil
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func isFeedContentType(ct string) bool {
	switch ct {
	case "application/rss+xml", "application/atom+xml",
		"application/xml", "text/xml", "application/feed+json":
		return true
	}
	return false
}

func contentTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return "text/html"
	case ".xml", ".rss", ".atom":
		return "application/xml"
	case ".json":
		return "application/feed+json"
	default:
		return "text/plain"
	}
}
