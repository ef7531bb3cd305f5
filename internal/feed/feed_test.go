package feed

import "testing"

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com/</link>
    <item>
      <title>First post</title>
      <link>https://example.com/posts/1</link>
    </item>
    <item>
      <title>Second post</title>
      <link>https://example.com/posts/2</link>
    </item>
    <item>
      <title>Duplicate of first</title>
      <link>https://example.com/posts/1</link>
    </item>
    <item>
      <title>No link</title>
    </item>
  </channel>
</rss>`

func TestLinks(t *testing.T) {
	links, title, err := Links([]byte(sampleRSS))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title != "Example Feed" {
		t.Fatalf("title = %q", title)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d: %+v", len(links), links)
	}
	if links[0].URL != "https://example.com/posts/1" || links[0].Text != "First post" {
		t.Fatalf("unexpected first link: %+v", links[0])
	}
	if links[1].URL != "https://example.com/posts/2" {
		t.Fatalf("unexpected second link: %+v", links[1])
	}
}

func TestLinks_NotAFeed(t *testing.T) {
	_, _, err := Links([]byte("just some text, no markup"))
	if err == nil {
		t.Fatalf("expected parse error for non-feed input")
	}
}
