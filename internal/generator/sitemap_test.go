package generator

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSitemap(t *testing.T) {
	fallback := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	modified := time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)

	pages := []RenderedPage{
		{Route: "/posts/zulu/", Metadata: DependencyMetadata{LastModified: modified}},
		{Route: "/"},
		{Route: "/posts/zulu/"},
		{Route: "posts/alpha/"},
	}

	content := buildSitemap("https://example.com", pages, fallback)

	alphaIdx := strings.Index(content, "<loc>https://example.com/posts/alpha/</loc>")
	zuluIdx := strings.Index(content, "<loc>https://example.com/posts/zulu/</loc>")
	homeIdx := strings.Index(content, "<loc>https://example.com/</loc>")
	if alphaIdx < 0 || zuluIdx < 0 || homeIdx < 0 {
		t.Fatalf("expected all locations present, got %s", content)
	}
	if !(homeIdx < alphaIdx && alphaIdx < zuluIdx) {
		t.Fatalf("expected sorted locations, got %s", content)
	}
	if strings.Count(content, "https://example.com/posts/zulu/") != 1 {
		t.Fatalf("expected duplicates collapsed, got %s", content)
	}
	if !strings.Contains(content, "<lastmod>2024-05-15T09:00:00Z</lastmod>") {
		t.Fatalf("expected page lastmod, got %s", content)
	}
	if !strings.Contains(content, "<lastmod>2024-06-01T00:00:00Z</lastmod>") {
		t.Fatalf("expected fallback lastmod, got %s", content)
	}
}

func TestBuildRobots(t *testing.T) {
	content := buildRobots("https://example.com", true)
	if !strings.Contains(content, "User-agent: *") {
		t.Fatalf("expected user agent line, got %s", content)
	}
	if !strings.Contains(content, "Sitemap: https://example.com/sitemap.xml") {
		t.Fatalf("expected sitemap line, got %s", content)
	}

	plain := buildRobots("https://example.com", false)
	if strings.Contains(plain, "Sitemap:") {
		t.Fatalf("expected no sitemap line, got %s", plain)
	}
}
