package generator

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/inkpress/go-blog/pkg/interfaces"
)

// Operation names understood by storage providers wired to the generator.
const (
	storageOpEnsureDir = "generator.ensure_dir"
	storageOpWrite     = "generator.write"
	storageOpRead      = "generator.read"
	storageOpRemove    = "generator.remove"
)

type writeCategory string

const (
	categoryPage     writeCategory = "page"
	categorySitemap  writeCategory = "sitemap"
	categoryRobots   writeCategory = "robots"
	categoryFeed     writeCategory = "feed"
	categoryManifest writeCategory = "manifest"
)

// writeFileRequest describes a file write operation routed through the artifact writer.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    writeCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// artifactWriter abstracts storage provider specifics for generator outputs.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
	Remove(ctx context.Context, path string) error
}

func newArtifactWriter(storage interfaces.StorageProvider) artifactWriter {
	if storage == nil {
		return noopWriter{}
	}
	return &storageWriter{storage: storage}
}

type storageWriter struct {
	storage interfaces.StorageProvider
}

func (w *storageWriter) EnsureDir(ctx context.Context, path string) error {
	if blank(path) || path == "." {
		return nil
	}
	return w.exec(ctx, storageOpEnsureDir, path)
}

func (w *storageWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	switch {
	case req.Content == nil:
		return errors.New("generator: write requires content reader")
	case blank(req.Path):
		return errors.New("generator: write requires path")
	}
	if req.Metadata == nil {
		req.Metadata = map[string]string{}
	}
	return w.exec(ctx, storageOpWrite,
		req.Path,
		req.Content,
		req.Size,
		string(req.Category),
		req.ContentType,
		req.Checksum,
		req.Metadata,
	)
}

func (w *storageWriter) Remove(ctx context.Context, path string) error {
	if blank(path) {
		return nil
	}
	return w.exec(ctx, storageOpRemove, path)
}

func (w *storageWriter) exec(ctx context.Context, op string, args ...any) error {
	_, err := w.storage.Exec(ctx, op, args...)
	return err
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error           { return nil }
func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }
func (noopWriter) Remove(context.Context, string) error              { return nil }
