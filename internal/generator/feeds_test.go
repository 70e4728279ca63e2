package generator

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/inkpress/go-blog/internal/posts"
)

func TestBuildFeedItems(t *testing.T) {
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	published := now.Add(-72 * time.Hour)
	summary := "  A post   about feeds  "

	svc := &service{cfg: Config{BaseURL: "https://example.com"}}
	buildCtx := &BuildContext{
		GeneratedAt: now,
		Posts: []*posts.Post{
			{
				Slug:        "feed-post",
				Title:       "Feed Post",
				Summary:     &summary,
				PublishedAt: &published,
				UpdatedAt:   now,
			},
			{
				Slug:        "feed-post",
				Title:       "Duplicate Link",
				PublishedAt: &published,
			},
			nil,
		},
	}

	items := svc.buildFeedItems(buildCtx)
	if len(items) != 1 {
		t.Fatalf("expected duplicate links removed, got %d items", len(items))
	}
	item := items[0]
	if item.Link != "https://example.com/posts/feed-post/" {
		t.Fatalf("unexpected link %q", item.Link)
	}
	if item.GUID != item.Link {
		t.Fatalf("expected guid to match link, got %q", item.GUID)
	}
	if item.Summary != "A post about feeds" {
		t.Fatalf("expected whitespace collapsed, got %q", item.Summary)
	}
	if !item.PublishedAt.Equal(published) {
		t.Fatalf("unexpected publish time %v", item.PublishedAt)
	}
}

func TestBuildFeedItemsCapped(t *testing.T) {
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	records := make([]*posts.Post, 0, maxFeedItems+5)
	for i := 0; i < maxFeedItems+5; i++ {
		records = append(records, &posts.Post{
			Slug:      "post-" + strconv.Itoa(i),
			Title:     "Post",
			CreatedAt: now,
		})
	}

	svc := &service{cfg: Config{BaseURL: "https://example.com"}}
	items := svc.buildFeedItems(&BuildContext{GeneratedAt: now, Posts: records})
	if len(items) != maxFeedItems {
		t.Fatalf("expected feed capped at %d, got %d", maxFeedItems, len(items))
	}
}

func TestBuildRSSFeed(t *testing.T) {
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	site := SiteMetadata{
		BaseURL:     "https://example.com",
		Title:       "Example & Friends",
		Description: "Posts",
	}
	items := []feedItem{{
		Title:       "Hello <World>",
		Summary:     "Intro",
		Link:        "https://example.com/posts/hello/",
		GUID:        "https://example.com/posts/hello/",
		PublishedAt: now,
	}}

	feed := buildRSSFeed(site, items, now)
	if !strings.Contains(feed, "<title>Example &amp; Friends</title>") {
		t.Fatalf("expected escaped channel title, got %s", feed)
	}
	if !strings.Contains(feed, "<title>Hello &lt;World&gt;</title>") {
		t.Fatalf("expected escaped item title, got %s", feed)
	}
	if !strings.Contains(feed, "<pubDate>Mon, 01 Jul 2024 10:00:00 +0000</pubDate>") {
		t.Fatalf("expected RFC1123Z pub date, got %s", feed)
	}
}

func TestBuildAtomFeed(t *testing.T) {
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	site := SiteMetadata{BaseURL: "https://example.com", Title: "Example"}
	items := []feedItem{{
		Title:       "Hello",
		Link:        "https://example.com/posts/hello/",
		GUID:        "https://example.com/posts/hello/",
		PublishedAt: now,
		UpdatedAt:   now,
	}}

	feed := buildAtomFeed(site, items, now)
	if !strings.Contains(feed, "<id>https://example.com/feed.atom.xml</id>") {
		t.Fatalf("expected feed id, got %s", feed)
	}
	if !strings.Contains(feed, "<updated>2024-07-01T10:00:00Z</updated>") {
		t.Fatalf("expected RFC3339 updated, got %s", feed)
	}
	if !strings.Contains(feed, `<link rel="self" href="https://example.com/feed.atom.xml" />`) {
		t.Fatalf("expected self link, got %s", feed)
	}
}

func TestBaseURLWithFallback(t *testing.T) {
	if got := baseURLWithFallback("  "); got != "http://localhost" {
		t.Fatalf("expected localhost fallback, got %q", got)
	}
	if got := baseURLWithFallback("https://example.com/"); got != "https://example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", got)
	}
}
