package report

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/linkcheck/internal/check"
)

// Version is populated via -ldflags at build time. The default is meaningful
// for local development and tests.
var Version = "0.0.0-dev"

// Markdown renders the report as a Markdown document suitable for committing
// to a repo or attaching to an issue.
func Markdown(r Report) string {
	var b strings.Builder

	title := r.DocumentTitle
	if title == "" {
		title = r.DocumentURL
	}
	fmt.Fprintf(&b, "# Link check: %s\n\n", title)
	fmt.Fprintf(&b, "Document: %s\n\n", r.DocumentURL)

	b.WriteString("| Outcome | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Checked | %d |\n", r.Summary.Total)
	fmt.Fprintf(&b, "| Working | %d |\n", r.Summary.Working)
	fmt.Fprintf(&b, "| Broken | %d |\n", r.Summary.Broken)
	fmt.Fprintf(&b, "| Errors | %d |\n", r.Summary.Errored)
	if r.Summary.Skipped > 0 {
		fmt.Fprintf(&b, "| Skipped | %d |\n", r.Summary.Skipped)
	}

	writeSection(&b, "Broken links", r.Results, check.OutcomeBroken)
	writeSection(&b, "Links with errors", r.Results, check.OutcomeError)

	// Deterministic footer in the spirit of a reproducibility record: which
	// tool produced this, for which document, and when.
	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "Generated by linkcheck %s; document=%s; checked_at=%s\n",
		Version, r.DocumentURL, r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))
	return b.String()
}

func writeSection(b *strings.Builder, heading string, results []check.Result, outcome check.Outcome) {
	var lines []string
	for _, res := range results {
		if res.Outcome != outcome {
			continue
		}
		label := res.Link.Text
		if label == "" {
			label = res.Link.URL
		}
		detail := res.Reason
		if res.StatusCode > 0 {
			detail = fmt.Sprintf("%d", res.StatusCode)
		}
		lines = append(lines, fmt.Sprintf("- [%s](%s) — %s", label, res.Link.URL, detail))
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", heading)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
}
