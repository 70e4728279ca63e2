package main

import (
	"context"
	"testing"

	"github.com/inkpress/go-blog/cmd/blog/internal/bootstrap"
	"github.com/inkpress/go-blog/internal/generator"
	"github.com/inkpress/go-blog/internal/logging"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

type stubGenerator struct {
	buildCalls int
	buildOpts  generator.BuildOptions
}

func (s *stubGenerator) Build(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	s.buildCalls++
	s.buildOpts = opts
	return &generator.BuildResult{PagesBuilt: 3}, nil
}

func (s *stubGenerator) BuildPost(context.Context, string) error { return nil }

func (s *stubGenerator) Clean(context.Context) error { return nil }

type stubImportService struct {
	importCalls int
}

func (s *stubImportService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubImportService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubImportService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubImportService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubImportService) Import(context.Context, *interfaces.Document, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubImportService) ImportDirectory(context.Context, string, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.importCalls++
	return &interfaces.ImportResult{}, nil
}

func (s *stubImportService) Sync(context.Context, string, interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	return nil, nil
}

func TestRunBuildImportsThenBuilds(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	markdown := &stubImportService{}
	gen := &stubGenerator{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Markdown:  markdown,
			Generator: gen,
			Logger:    logging.NoOp(),
		}, nil
	}

	if err := runBuild([]string{"-slugs", "hello-world, second-post", "-dry-run"}); err != nil {
		t.Fatalf("runBuild: %v", err)
	}
	if markdown.importCalls != 1 {
		t.Fatalf("expected content import, got %d calls", markdown.importCalls)
	}
	if gen.buildCalls != 1 {
		t.Fatalf("expected one build, got %d", gen.buildCalls)
	}
	if !gen.buildOpts.DryRun {
		t.Fatalf("expected dry run option, got %+v", gen.buildOpts)
	}
	if len(gen.buildOpts.Slugs) != 2 || gen.buildOpts.Slugs[0] != "hello-world" || gen.buildOpts.Slugs[1] != "second-post" {
		t.Fatalf("expected parsed slugs, got %#v", gen.buildOpts.Slugs)
	}
}

func TestRunBuildSkipImport(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	markdown := &stubImportService{}
	gen := &stubGenerator{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Markdown:  markdown,
			Generator: gen,
			Logger:    logging.NoOp(),
		}, nil
	}

	if err := runBuild([]string{"-skip-import"}); err != nil {
		t.Fatalf("runBuild: %v", err)
	}
	if markdown.importCalls != 0 {
		t.Fatal("expected import to be skipped")
	}
	if gen.buildCalls != 1 {
		t.Fatalf("expected one build, got %d", gen.buildCalls)
	}
}
