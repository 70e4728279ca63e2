package posts

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/inkpress/go-blog/pkg/interfaces"
)

func TestImporterCreatesPost(t *testing.T) {
	svc := newTestPostService(t)
	importer := NewImporter(ImporterConfig{Posts: svc})

	doc := testDocument("hello.md", "Hello World", "hello body", "go", "launch")
	result, err := importer.ImportDocument(context.Background(), doc, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}

	if len(result.CreatedSlugs) != 1 || result.CreatedSlugs[0] != "hello-world" {
		t.Fatalf("expected created slug hello-world, got %#v", result.CreatedSlugs)
	}

	post, err := svc.GetBySlug(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if post.SourcePath != "hello.md" {
		t.Fatalf("expected source path recorded, got %q", post.SourcePath)
	}
	if len(post.Tags) != 2 {
		t.Fatalf("expected tags carried over, got %#v", post.Tags)
	}
}

func TestImporterSkipsUnchangedChecksum(t *testing.T) {
	svc := newTestPostService(t)
	importer := NewImporter(ImporterConfig{Posts: svc})
	ctx := context.Background()

	doc := testDocument("hello.md", "Hello World", "hello body")
	if _, err := importer.ImportDocument(ctx, doc, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	result, err := importer.ImportDocument(ctx, doc, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.SkippedSlugs) != 1 {
		t.Fatalf("expected skip on identical checksum, got %#v", result)
	}
}

func TestImporterUpdatesChangedDocument(t *testing.T) {
	svc := newTestPostService(t)
	importer := NewImporter(ImporterConfig{Posts: svc})
	ctx := context.Background()

	doc := testDocument("hello.md", "Hello World", "hello body")
	if _, err := importer.ImportDocument(ctx, doc, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	changed := testDocument("hello.md", "Hello World", "revised body")
	result, err := importer.ImportDocument(ctx, changed, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.UpdatedSlugs) != 1 {
		t.Fatalf("expected update on changed checksum, got %#v", result)
	}

	post, err := svc.GetBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if post.Body != "revised body" {
		t.Fatalf("expected body replaced, got %q", post.Body)
	}
}

func TestImporterDryRun(t *testing.T) {
	svc := newTestPostService(t)
	importer := NewImporter(ImporterConfig{Posts: svc})
	ctx := context.Background()

	doc := testDocument("hello.md", "Hello World", "hello body")
	result, err := importer.ImportDocument(ctx, doc, interfaces.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if len(result.SkippedSlugs) != 1 {
		t.Fatalf("expected dry run to skip, got %#v", result)
	}
	if _, err := svc.GetBySlug(ctx, "hello-world"); !IsNotFound(err) {
		t.Fatalf("expected no post persisted, got %v", err)
	}
}

func TestImporterSyncDeletesOrphans(t *testing.T) {
	svc := newTestPostService(t)
	importer := NewImporter(ImporterConfig{Posts: svc})
	ctx := context.Background()

	keep := testDocument("keep.md", "Keep Me", "keep body")
	gone := testDocument("gone.md", "Delete Me", "gone body")
	if _, err := importer.ImportDocuments(ctx, []*interfaces.Document{keep, gone}, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("seed import: %v", err)
	}

	result, err := importer.SyncDocuments(ctx, []*interfaces.Document{keep}, interfaces.SyncOptions{
		DeleteOrphaned: true,
	})
	if err != nil {
		t.Fatalf("SyncDocuments: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected 1 deleted post, got %d", result.Deleted)
	}

	if _, err := svc.GetBySlug(ctx, "delete-me"); !IsNotFound(err) {
		t.Fatalf("expected orphan removed, got %v", err)
	}
	if _, err := svc.GetBySlug(ctx, "keep-me"); err != nil {
		t.Fatalf("expected kept post, got %v", err)
	}
}

func TestImporterMissingTitle(t *testing.T) {
	svc := newTestPostService(t)
	importer := NewImporter(ImporterConfig{Posts: svc})

	doc := testDocument("untitled.md", "", "body")
	result, err := importer.ImportDocument(context.Background(), doc, interfaces.ImportOptions{})
	if err == nil {
		t.Fatalf("expected error for missing title")
	}
	if result == nil || len(result.Errors) != 1 {
		t.Fatalf("expected error recorded in result, got %#v", result)
	}
}

func testDocument(path, title, body string, docTags ...string) *interfaces.Document {
	date := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	sum := sha256.Sum256([]byte(body))
	return &interfaces.Document{
		FilePath: path,
		FrontMatter: interfaces.FrontMatter{
			Title: title,
			Date:  date,
			Tags:  docTags,
		},
		Body:         []byte(body),
		Checksum:     sum[:],
		LastModified: date,
	}
}
