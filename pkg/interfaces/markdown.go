package interfaces

import (
	"context"
	"time"
)

// MarkdownParser converts raw Markdown bytes into HTML. Implementations must
// be safe for reuse across goroutines; per-call behaviour is adjusted through
// ParseOptions rather than parser state.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour. Names stay simple so
// they map cleanly onto configuration files and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService exposes the file-centric workflows: load documents from
// disk, render them to HTML, and reconcile them with the post store.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
	Import(ctx context.Context, doc *Document, opts ImportOptions) (*ImportResult, error)
	ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error)
	Sync(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error)
}

// Document is a Markdown file with parsed metadata. It is shared between the
// public contract and internal implementations so consumers can depend on a
// stable shape.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum holds a SHA-256 digest of the original file so sync workflows
	// can detect changes without re-importing unchanged files.
	Checksum []byte
}

// FrontMatter models the metadata prefixed to a post file. Layout names the
// template the post renders through and Mermaid toggles client-side diagram
// rendering; both pass through to templates untouched. Unrecognised keys are
// collected in Custom.
type FrontMatter struct {
	Layout  string         `yaml:"layout" json:"layout"`
	Title   string         `yaml:"title" json:"title"`
	Slug    string         `yaml:"slug" json:"slug"`
	Summary string         `yaml:"summary" json:"summary"`
	Author  string         `yaml:"author" json:"author"`
	Date    time.Time      `yaml:"date" json:"date"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Draft   bool           `yaml:"draft" json:"draft"`
	Mermaid bool           `yaml:"mermaid" json:"mermaid"`
	Custom  map[string]any `yaml:",inline" json:"custom"`
	Raw     map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}

// ImportOptions controls how documents are converted into posts.
type ImportOptions struct {
	DryRun bool
	// RenderHTML renders each document body before persisting so stored posts
	// carry their HTML alongside the Markdown source.
	RenderHTML bool
}

// ImportResult summarises an import run.
type ImportResult struct {
	CreatedSlugs []string
	UpdatedSlugs []string
	SkippedSlugs []string
	Errors       []error
}

// SyncOptions extends ImportOptions with orphan handling.
type SyncOptions struct {
	ImportOptions
	// DeleteOrphaned removes stored posts whose slug no longer maps to a
	// document on disk.
	DeleteOrphaned bool
}

// SyncResult summarises a sync run.
type SyncResult struct {
	Created int
	Updated int
	Skipped int
	Deleted int
	Errors  []error
}
