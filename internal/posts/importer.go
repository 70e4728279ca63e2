package posts

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/inkpress/go-blog/internal/logging"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

var (
	ErrPostServiceRequired = errors.New("markdown importer: post service is required")
	ErrTitleMissing        = errors.New("markdown importer: frontmatter title is required")
)

// ImporterConfig encapsulates dependencies required to persist documents.
type ImporterConfig struct {
	Posts  Service
	Logger interfaces.Logger
}

// Importer reconciles parsed Markdown documents with the post store. Posts
// are keyed on slug; the document checksum decides create, update, or skip.
type Importer struct {
	posts  Service
	logger interfaces.Logger
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		posts:  cfg.Posts,
		logger: logger,
	}
}

// ImportDocument imports a single document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}
	acc := newImportAccumulator()
	if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// ImportDocuments imports an arbitrary slice of documents.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}

	acc := newImportAccumulator()
	for _, doc := range docs {
		if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

// SyncDocuments imports all provided documents and optionally deletes posts
// whose slug no longer appears on disk.
func (i *Importer) SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}

	acc := newSyncAccumulator()
	slugs := make(map[string]struct{}, len(docs))

	for _, doc := range docs {
		res := newImportAccumulator()
		if err := i.applyDocument(ctx, doc, opts.ImportOptions, res); err != nil {
			res.addError(err)
		}
		if key, err := documentSlug(doc); err == nil {
			slugs[key] = struct{}{}
		}
		acc.merge(res.result())
	}

	if opts.DeleteOrphaned {
		if err := i.deleteOrphaned(ctx, slugs, opts, acc); err != nil {
			acc.addError(err)
		}
	}

	return acc.result(), firstError(acc.errors)
}

func (i *Importer) applyDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, acc *importAccumulator) error {
	postSlug, err := documentSlug(doc)
	if err != nil {
		return err
	}

	logger := logging.WithDocumentContext(i.logger, doc.FilePath, postSlug, "import")
	checksum := hex.EncodeToString(doc.Checksum)

	existing, err := i.posts.GetBySlug(ctx, postSlug)
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("markdown importer: post lookup %s: %w", postSlug, err)
	}

	if existing == nil {
		if opts.DryRun {
			acc.skip(postSlug)
			return nil
		}

		req := CreatePostRequest{
			Slug:        postSlug,
			Title:       documentTitle(doc, postSlug),
			Summary:     optionalString(doc.FrontMatter.Summary),
			Author:      optionalString(doc.FrontMatter.Author),
			Layout:      doc.FrontMatter.Layout,
			Tags:        doc.FrontMatter.Tags,
			Body:        string(doc.Body),
			BodyHTML:    string(doc.BodyHTML),
			Checksum:    checksum,
			SourcePath:  doc.FilePath,
			Mermaid:     doc.FrontMatter.Mermaid,
			Draft:       doc.FrontMatter.Draft,
			PublishedAt: documentDate(doc),
		}
		if _, err := i.posts.Create(ctx, req); err != nil {
			return fmt.Errorf("markdown importer: create post %s: %w", postSlug, err)
		}
		logger.Info("document imported", "action", "create")
		acc.created(postSlug)
		return nil
	}

	if existing.Checksum == checksum && checksum != "" {
		acc.skip(postSlug)
		return nil
	}

	if opts.DryRun {
		acc.skip(postSlug)
		return nil
	}

	title := documentTitle(doc, postSlug)
	body := string(doc.Body)
	bodyHTML := string(doc.BodyHTML)
	layout := doc.FrontMatter.Layout
	req := UpdatePostRequest{
		ID:          existing.ID,
		Title:       &title,
		Summary:     optionalString(doc.FrontMatter.Summary),
		Author:      optionalString(doc.FrontMatter.Author),
		Layout:      &layout,
		Tags:        append([]string{}, doc.FrontMatter.Tags...),
		Body:        &body,
		BodyHTML:    &bodyHTML,
		Checksum:    &checksum,
		SourcePath:  &doc.FilePath,
		Mermaid:     &doc.FrontMatter.Mermaid,
		Draft:       &doc.FrontMatter.Draft,
		PublishedAt: documentDate(doc),
	}
	if _, err := i.posts.Update(ctx, req); err != nil {
		return fmt.Errorf("markdown importer: update post %s: %w", postSlug, err)
	}
	logger.Info("document imported", "action", "update")
	acc.updated(postSlug)
	return nil
}

func (i *Importer) deleteOrphaned(ctx context.Context, slugs map[string]struct{}, opts interfaces.SyncOptions, acc *syncAccumulator) error {
	existing, err := i.posts.List(ctx, ListOptions{IncludeDrafts: true})
	if err != nil {
		return fmt.Errorf("markdown importer: list posts: %w", err)
	}

	for _, record := range existing {
		if _, ok := slugs[record.Slug]; ok {
			continue
		}
		if opts.DryRun {
			acc.deleted++
			continue
		}
		if err := i.posts.Delete(ctx, DeletePostRequest{ID: record.ID}); err != nil {
			return fmt.Errorf("markdown importer: delete post %s: %w", record.Slug, err)
		}
		logging.WithDocumentContext(i.logger, record.SourcePath, record.Slug, "delete").
			Info("orphaned post removed")
		acc.deleted++
	}

	return nil
}

// documentSlug derives the post slug: explicit frontmatter slug first, then
// the title.
func documentSlug(doc *interfaces.Document) (string, error) {
	if doc == nil {
		return "", errors.New("markdown importer: nil document")
	}
	if explicit := strings.TrimSpace(doc.FrontMatter.Slug); explicit != "" {
		return slug.Normalize(explicit)
	}
	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title == "" {
		return "", ErrTitleMissing
	}
	return slug.Normalize(title)
}

func documentTitle(doc *interfaces.Document, postSlug string) string {
	if title := strings.TrimSpace(doc.FrontMatter.Title); title != "" {
		return title
	}
	return strings.ReplaceAll(strings.Title(strings.ReplaceAll(postSlug, "-", " ")), "_", " ")
}

func documentDate(doc *interfaces.Document) *time.Time {
	if doc.FrontMatter.Date.IsZero() {
		return nil
	}
	date := doc.FrontMatter.Date
	return &date
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

type importAccumulator struct {
	createdSlugs []string
	updatedSlugs []string
	skippedSlugs []string
	errors       []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		createdSlugs: []string{},
		updatedSlugs: []string{},
		skippedSlugs: []string{},
		errors:       []error{},
	}
}

func (a *importAccumulator) created(slug string) {
	if slug != "" {
		a.createdSlugs = append(a.createdSlugs, slug)
	}
}

func (a *importAccumulator) updated(slug string) {
	if slug != "" {
		a.updatedSlugs = append(a.updatedSlugs, slug)
	}
}

func (a *importAccumulator) skip(slug string) {
	if slug != "" {
		a.skippedSlugs = append(a.skippedSlugs, slug)
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		CreatedSlugs: a.createdSlugs,
		UpdatedSlugs: a.updatedSlugs,
		SkippedSlugs: a.skippedSlugs,
		Errors:       a.errors,
	}
}

type syncAccumulator struct {
	created int
	updated int
	deleted int
	skipped int
	errors  []error
}

func newSyncAccumulator() *syncAccumulator {
	return &syncAccumulator{
		errors: []error{},
	}
}

func (s *syncAccumulator) merge(res *interfaces.ImportResult) {
	if res == nil {
		return
	}
	s.created += len(res.CreatedSlugs)
	s.updated += len(res.UpdatedSlugs)
	s.skipped += len(res.SkippedSlugs)
	s.errors = append(s.errors, res.Errors...)
}

func (s *syncAccumulator) addError(err error) {
	if err != nil {
		s.errors = append(s.errors, err)
	}
}

func (s *syncAccumulator) result() *interfaces.SyncResult {
	return &interfaces.SyncResult{
		Created: s.created,
		Updated: s.updated,
		Skipped: s.skipped,
		Deleted: s.deleted,
		Errors:  s.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
