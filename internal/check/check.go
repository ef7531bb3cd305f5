// Package check probes URLs for reachability and classifies the outcome.
package check

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/linkcheck/internal/extract"
)

const (
	// DefaultTimeout bounds a single link check, HEAD and fallback GET included.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxConcurrent is the default number of in-flight checks.
	DefaultMaxConcurrent = 10
)

// Outcome buckets a check result.
type Outcome int

const (
	// OutcomeWorking means the target answered with a 2xx/3xx status.
	OutcomeWorking Outcome = iota
	// OutcomeBroken means a 4xx/5xx status, or a URL we refuse to request.
	OutcomeBroken
	// OutcomeError means the request itself failed: timeout, TLS, DNS,
	// connection, redirect loop.
	OutcomeError
	// OutcomeSkipped means the host matched the skip list and was not probed.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWorking:
		return "working"
	case OutcomeBroken:
		return "broken"
	case OutcomeError:
		return "error"
	case OutcomeSkipped:
		return "skipped"
	}
	return "unknown"
}

// Result is the outcome of checking one link.
type Result struct {
	Link       extract.Link
	StatusCode int
	Outcome    Outcome
	// Reason is a short category for non-HTTP failures: timeout, tls, dns,
	// connection, redirect, canceled.
	Reason  string
	Elapsed time.Duration
	Err     error
}

// Checker issues one reachability probe per URL with a bounded worker pool.
type Checker struct {
	// HTTPClient overrides the default client; redirects are followed either way.
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds each link check. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxConcurrent bounds in-flight checks. Zero means DefaultMaxConcurrent.
	MaxConcurrent int
	// SkipHosts lists hosts (and their subdomains) that are reported as
	// skipped instead of probed.
	SkipHosts []string
}

// Check probes a single link. It tries HEAD first and falls back to GET when
// the server rejects or misreports HEAD (404, 405, 501), since plenty of
// servers only answer GET honestly.
func (c *Checker) Check(ctx context.Context, link extract.Link) Result {
	if c.skip(link.URL) {
		return Result{Link: link, Outcome: OutcomeSkipped, Reason: "host on skip list"}
	}
	u, err := url.Parse(link.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Result{Link: link, Outcome: OutcomeBroken, Reason: "invalid URL", Err: err}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	status, err := c.request(ctx, http.MethodHead, link.URL)
	if err == nil && headUnreliable(status) {
		// The GET verdict replaces the HEAD one entirely. A GET that fails
		// outright is a transport failure, not a 4xx answer.
		status, err = c.request(ctx, http.MethodGet, link.URL)
	}
	elapsed := time.Since(start)

	if err != nil {
		return Result{Link: link, Outcome: OutcomeError, Reason: classify(err), Elapsed: elapsed, Err: err}
	}

	res := Result{Link: link, StatusCode: status, Elapsed: elapsed}
	switch {
	case status >= 200 && status < 400:
		res.Outcome = OutcomeWorking
	default:
		res.Outcome = OutcomeBroken
	}
	return res
}

// CheckAll fans checks out over a bounded worker pool and returns results in
// input order. A canceled context surfaces as per-link error results rather
// than a hang.
func (c *Checker) CheckAll(ctx context.Context, links []extract.Link) []Result {
	maxConcurrent := c.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	results := make([]Result, len(links))
	semaphore := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for i, link := range links {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(i int, link extract.Link) {
			defer wg.Done()
			defer func() { <-semaphore }()

			r := c.Check(ctx, link)
			log.Debug().
				Str("url", link.URL).
				Int("status", r.StatusCode).
				Str("outcome", r.Outcome.String()).
				Dur("elapsed", r.Elapsed).
				Msg("checked link")
			results[i] = r
		}(i, link)
	}
	wg.Wait()
	return results
}

func (c *Checker) request(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	// Drain a bounded amount so keep-alive connections can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

func headUnreliable(status int) bool {
	return status == http.StatusNotFound ||
		status == http.StatusMethodNotAllowed ||
		status == http.StatusNotImplemented
}

func (c *Checker) skip(rawURL string) bool {
	if len(c.SkipHosts) == 0 {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, s := range c.SkipHosts {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}

// classify maps a transport error to a short, stable category for reports.
func classify(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return "timeout"
		}
		if strings.Contains(ue.Err.Error(), "redirects") {
			return "redirect"
		}
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return "tls"
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return "tls"
	}
	if strings.Contains(err.Error(), "certificate") {
		return "tls"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "connection"
	}
	return "request"
}
