// Package report aggregates check results and renders them for humans and CI.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/hyperifyio/linkcheck/internal/check"
)

// Summary holds the aggregate counts for one run.
type Summary struct {
	Total   int
	Working int
	Broken  int
	Errored int
	Skipped int
}

// Report is everything needed to render the outcome of one run.
type Report struct {
	// DocumentURL is the location that was scanned (export URL or file path).
	DocumentURL string
	// DocumentTitle is the page or feed title, when one was found.
	DocumentTitle string
	GeneratedAt   time.Time
	Results       []check.Result
	Summary       Summary
}

// New builds a Report with its summary filled in.
func New(documentURL, documentTitle string, results []check.Result) Report {
	return Report{
		DocumentURL:   documentURL,
		DocumentTitle: documentTitle,
		GeneratedAt:   time.Now().UTC(),
		Results:       results,
		Summary:       Summarize(results),
	}
}

// Summarize tallies results into buckets.
func Summarize(results []check.Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case check.OutcomeWorking:
			s.Working++
		case check.OutcomeBroken:
			s.Broken++
		case check.OutcomeError:
			s.Errored++
		case check.OutcomeSkipped:
			s.Skipped++
		}
	}
	return s
}

// WriteText renders the human console report: per-link lines in input order,
// a summary block, then details for anything broken or errored. Working links
// are listed only when includeWorking is set.
func WriteText(w io.Writer, r Report, includeWorking bool) error {
	for _, res := range r.Results {
		if res.Outcome == check.OutcomeWorking && !includeWorking {
			continue
		}
		fmt.Fprintln(w, statusLine(res))
	}

	fmt.Fprintf(w, "\nChecked %d links: %d working, %d broken, %d errors", r.Summary.Total, r.Summary.Working, r.Summary.Broken, r.Summary.Errored)
	if r.Summary.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", r.Summary.Skipped)
	}
	fmt.Fprintln(w)

	if r.Summary.Broken > 0 {
		fmt.Fprintln(w, "\nBroken links:")
		for _, res := range r.Results {
			if res.Outcome != check.OutcomeBroken {
				continue
			}
			writeDetail(w, res)
		}
	}
	if r.Summary.Errored > 0 {
		fmt.Fprintln(w, "\nLinks with errors:")
		for _, res := range r.Results {
			if res.Outcome != check.OutcomeError {
				continue
			}
			writeDetail(w, res)
		}
	}
	return nil
}

func statusLine(res check.Result) string {
	switch res.Outcome {
	case check.OutcomeWorking:
		return fmt.Sprintf("OK      [%d] %s", res.StatusCode, res.Link.URL)
	case check.OutcomeBroken:
		if res.StatusCode > 0 {
			return fmt.Sprintf("BROKEN  [%d] %s", res.StatusCode, res.Link.URL)
		}
		return fmt.Sprintf("BROKEN  (%s) %s", res.Reason, res.Link.URL)
	case check.OutcomeError:
		return fmt.Sprintf("ERROR   (%s) %s", res.Reason, res.Link.URL)
	case check.OutcomeSkipped:
		return fmt.Sprintf("SKIPPED %s", res.Link.URL)
	}
	return res.Link.URL
}

func writeDetail(w io.Writer, res check.Result) {
	fmt.Fprintf(w, "  %s\n", res.Link.URL)
	if res.Link.Text != "" {
		fmt.Fprintf(w, "    text:   %s\n", res.Link.Text)
	}
	if res.StatusCode > 0 {
		fmt.Fprintf(w, "    status: %d\n", res.StatusCode)
	}
	if res.Reason != "" {
		fmt.Fprintf(w, "    reason: %s\n", res.Reason)
	}
}
