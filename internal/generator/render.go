package generator

import (
	"strings"
	"time"

	"github.com/inkpress/go-blog/internal/posts"
	"github.com/inkpress/go-blog/internal/tags"
)

// PageKind identifies the template family a page renders through.
type PageKind string

const (
	// KindPost renders a single post.
	KindPost PageKind = "post"
	// KindTagIndex renders the tag listing page.
	KindTagIndex PageKind = "tags"
	// KindHome renders the reverse-chronological archive.
	KindHome PageKind = "home"
)

// TemplateContext is the data contract passed to TemplateRenderer implementations.
type TemplateContext struct {
	Site    SiteMetadata
	Page    PageRenderingContext
	Build   BuildMetadata
	Helpers TemplateHelpers
}

// SiteMetadata exposes site-wide information required by templates.
type SiteMetadata struct {
	BaseURL     string
	Title       string
	Description string
	Metadata    map[string]any
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Options     BuildOptions
}

// PageRenderingContext contains the resolved dependencies for a single page.
type PageRenderingContext struct {
	Kind  PageKind
	Route string
	// Post is set for KindPost pages.
	Post *posts.Post
	// Posts is set for KindHome pages, ordered by date descending.
	Posts []*posts.Post
	// Tags is set for KindTagIndex pages.
	Tags tags.Index
	// Mermaid signals that the page needs client-side diagram rendering.
	Mermaid bool
}

// TemplateHelpers exposes convenience helpers for template authors.
type TemplateHelpers struct {
	baseURL string
}

func newTemplateHelpers(baseURL string) TemplateHelpers {
	return TemplateHelpers{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// AbsoluteURL resolves a site-relative route against the configured base URL.
func (h TemplateHelpers) AbsoluteURL(route string) string {
	return absoluteURL(h.baseURL, route)
}

// DisplayDate formats an instant for human-readable output.
func (h TemplateHelpers) DisplayDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("Jan 2, 2006")
}

// MachineDate formats an instant for the <time datetime> attribute.
func (h TemplateHelpers) MachineDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

// RenderedPage captures the rendered HTML output for a page.
type RenderedPage struct {
	Kind     PageKind
	Route    string
	Output   string
	Template string
	HTML     string
	Metadata DependencyMetadata
	Duration time.Duration
	Checksum string
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	Kind     PageKind
	Route    string
	Template string
	Duration time.Duration
	Skipped  bool
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}
