package docs

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// docIDPattern matches the document ID path segment of a Google Docs URL,
// e.g. https://docs.google.com/document/d/<id>/edit.
var docIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// Kind classifies where a document comes from.
type Kind int

const (
	// KindURL is any plain HTTP(S) URL.
	KindURL Kind = iota
	// KindGoogleDoc is a Google Docs sharing URL, resolved to its HTML export.
	KindGoogleDoc
	// KindFile is a local file path.
	KindFile
)

// Source is a resolved document location ready to fetch or read.
type Source struct {
	Kind Kind
	// Location is the URL to fetch, or the local path to read for KindFile.
	// For KindGoogleDoc this is the export endpoint, not the sharing URL.
	Location string
	// Original is the input exactly as the user gave it.
	Original string
}

// ExtractDocID pulls the document ID out of a Google Docs URL.
func ExtractDocID(raw string) (string, error) {
	m := docIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("no document ID in URL: %s", raw)
	}
	return m[1], nil
}

// ExportURL returns the HTML export endpoint for a document ID. Export works
// for any document whose sharing settings allow link access.
func ExportURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=html", id)
}

// Resolve classifies raw input as a Google Doc URL, a generic URL, or a local
// file path. Scheme-less inputs that clearly look like URLs (docs.google.com,
// www.) get https:// prepended; anything else without a scheme is treated as
// a local path.
func Resolve(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, fmt.Errorf("empty document source")
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		if strings.HasPrefix(candidate, "docs.google.com/") || strings.HasPrefix(candidate, "www.") {
			candidate = "https://" + candidate
		} else {
			return Source{Kind: KindFile, Location: raw, Original: raw}, nil
		}
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return Source{}, fmt.Errorf("parse source URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return Source{}, fmt.Errorf("unsupported URL scheme %q (need http or https)", u.Scheme)
	}

	if strings.EqualFold(u.Host, "docs.google.com") {
		id, err := ExtractDocID(u.Path)
		if err != nil {
			return Source{}, fmt.Errorf("google docs URL without /d/<id> segment: %s", raw)
		}
		return Source{Kind: KindGoogleDoc, Location: ExportURL(id), Original: raw}, nil
	}

	return Source{Kind: KindURL, Location: candidate, Original: raw}, nil
}
