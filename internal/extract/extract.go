package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is a single hyperlink found in a document.
type Link struct {
	// URL is the absolute target, after base resolution and redirector unwrapping.
	URL string
	// Text is the anchor text (or item title for feeds). May be empty.
	Text string
}

// Page is the link-bearing content extracted from one HTML document.
type Page struct {
	Title string
	Links []Link
}

// urlPattern finds URL-like substrings in plain text.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// FromHTML collects every anchor href from an HTML document. Fragment-only,
// mailto:, tel:, and javascript: links are skipped. Relative hrefs are
// resolved against base when it is non-nil. Duplicate targets keep their
// first-seen position and anchor text.
func FromHTML(body []byte, base *url.URL) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parse html: %w", err)
	}

	page := Page{Title: strings.TrimSpace(doc.Find("title").First().Text())}
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if skipHref(href) {
			return
		}
		target := resolveHref(href, base)
		if target == "" {
			return
		}
		target = UnwrapRedirect(target)
		if seen[target] {
			return
		}
		seen[target] = true
		page.Links = append(page.Links, Link{
			URL:  target,
			Text: strings.Join(strings.Fields(sel.Text()), " "),
		})
	})
	return page, nil
}

// FromText scans plain text for http(s) URLs. Trailing punctuation that is
// almost never part of the target is trimmed.
func FromText(body []byte) []Link {
	matches := urlPattern.FindAllString(string(body), -1)
	seen := make(map[string]bool)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?")
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		links = append(links, Link{URL: m})
	}
	return links
}

// UnwrapRedirect strips the Google redirector that Docs exports wrap around
// external links (https://www.google.com/url?q=<target>&...). Anything else
// is returned unchanged.
func UnwrapRedirect(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := strings.ToLower(u.Host)
	if (host != "www.google.com" && host != "google.com") || u.Path != "/url" {
		return raw
	}
	q := u.Query().Get("q")
	if q == "" {
		return raw
	}
	target, err := url.Parse(q)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		return raw
	}
	return q
}

func skipHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "javascript:")
}

// resolveHref returns an absolute http(s) URL for href, or "" when the href
// is unusable (bad syntax, non-web scheme, or relative with no known base).
func resolveHref(href string, base *url.URL) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return ""
		}
		return u.String()
	}
	if base == nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
