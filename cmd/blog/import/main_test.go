package main

import (
	"context"
	"testing"

	"github.com/inkpress/go-blog/cmd/blog/internal/bootstrap"
	"github.com/inkpress/go-blog/internal/logging"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

type stubMarkdownService struct {
	importCalls int
	importDir   string
	importOpts  interfaces.ImportOptions
	syncCalls   int
	syncOpts    interfaces.SyncOptions
}

func (s *stubMarkdownService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) Import(context.Context, *interfaces.Document, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubMarkdownService) ImportDirectory(_ context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.importCalls++
	s.importDir = dir
	s.importOpts = opts
	return &interfaces.ImportResult{}, nil
}

func (s *stubMarkdownService) Sync(_ context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	s.syncCalls++
	s.importDir = dir
	s.syncOpts = opts
	return &interfaces.SyncResult{}, nil
}

func TestRunImportCallsImportDirectory(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubMarkdownService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Markdown: svc,
			Logger:   logging.NoOp(),
		}, nil
	}

	if err := runImport([]string{"-directory", "docs", "-dry-run"}); err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if svc.importCalls != 1 {
		t.Fatalf("expected one import call, got %d", svc.importCalls)
	}
	if svc.importDir != "docs" {
		t.Fatalf("expected directory docs, got %q", svc.importDir)
	}
	if !svc.importOpts.DryRun || !svc.importOpts.RenderHTML {
		t.Fatalf("unexpected import options %+v", svc.importOpts)
	}
}

func TestRunImportSyncMode(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubMarkdownService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Markdown: svc,
			Logger:   logging.NoOp(),
		}, nil
	}

	if err := runImport([]string{"-sync", "-delete-orphaned"}); err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if svc.syncCalls != 1 {
		t.Fatalf("expected one sync call, got %d", svc.syncCalls)
	}
	if !svc.syncOpts.DeleteOrphaned {
		t.Fatalf("expected delete orphaned option, got %+v", svc.syncOpts)
	}
	if svc.importCalls != 0 {
		t.Fatal("expected plain import to be skipped in sync mode")
	}
}
