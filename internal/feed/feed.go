// Package feed turns an RSS/Atom/JSON feed into a set of checkable links.
package feed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/hyperifyio/linkcheck/internal/extract"
)

// Links parses a feed document and returns one link per item, using the item
// title as the link text. A feed with zero items is not an error.
func Links(body []byte) ([]extract.Link, string, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("parse feed: %w", err)
	}

	seen := make(map[string]bool)
	links := make([]extract.Link, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		target := strings.TrimSpace(item.Link)
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		links = append(links, extract.Link{URL: target, Text: strings.TrimSpace(item.Title)})
	}
	return links, strings.TrimSpace(parsed.Title), nil
}
