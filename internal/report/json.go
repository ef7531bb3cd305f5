package report

import (
	"encoding/json"
	"time"

	"github.com/hyperifyio/linkcheck/internal/check"
)

// jsonReport is the machine-readable output for CI integration.
type jsonReport struct {
	Document    string       `json:"document"`
	Title       string       `json:"title,omitempty"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Summary     jsonSummary  `json:"summary"`
	Results     []jsonResult `json:"results"`
}

type jsonSummary struct {
	Total   int `json:"total"`
	Working int `json:"working"`
	Broken  int `json:"broken"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped,omitempty"`
}

type jsonResult struct {
	URL     string `json:"url"`
	Text    string `json:"text,omitempty"`
	Status  int    `json:"status,omitempty"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
	Broken  bool   `json:"broken"`
}

// JSON marshals the report for machine consumption.
func JSON(r Report) ([]byte, error) {
	out := jsonReport{
		Document:    r.DocumentURL,
		Title:       r.DocumentTitle,
		GeneratedAt: r.GeneratedAt,
		Summary: jsonSummary{
			Total:   r.Summary.Total,
			Working: r.Summary.Working,
			Broken:  r.Summary.Broken,
			Errors:  r.Summary.Errored,
			Skipped: r.Summary.Skipped,
		},
		Results: make([]jsonResult, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		jr := jsonResult{
			URL:     res.Link.URL,
			Text:    res.Link.Text,
			Status:  res.StatusCode,
			Outcome: res.Outcome.String(),
			Reason:  res.Reason,
			Broken:  res.Outcome == check.OutcomeBroken || res.Outcome == check.OutcomeError,
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		out.Results = append(out.Results, jr)
	}
	return json.MarshalIndent(out, "", "  ")
}
