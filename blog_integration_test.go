package blog_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	blog "github.com/inkpress/go-blog"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

func TestModuleImportAndBuild(t *testing.T) {
	ctx := context.Background()

	contentDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "dist")
	writeContentFile(t, contentDir, "hello-world.md", `---
layout: post
title: Hello World
date: 2024-01-15T09:00:00Z
tags:
  - go
  - launch
summary: The first post.
---

# Welcome

First post body.
`)
	writeContentFile(t, contentDir, "notes/flowcharts.md", `---
layout: post
title: Flowcharts
date: 2024-02-20T09:00:00Z
tags:
  - diagrams
mermaid: true
---

## Diagram

`+"```mermaid\ngraph TD;\n  A-->B;\n```"+`
`)
	writeContentFile(t, contentDir, "wip.md", `---
title: Work In Progress
draft: true
---

Not ready.
`)

	cfg := blog.DefaultConfig()
	cfg.Site.Title = "Example Blog"
	cfg.Site.BaseURL = "https://example.com"
	cfg.Content.ContentDir = contentDir
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = outputDir
	cfg.Generator.GenerateRobots = true
	cfg.Generator.Workers = 1

	module, err := blog.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	importResult, err := module.Markdown().ImportDirectory(ctx, "", interfaces.ImportOptions{RenderHTML: true})
	if err != nil {
		t.Fatalf("import directory: %v", err)
	}
	if len(importResult.CreatedSlugs) != 3 {
		t.Fatalf("expected 3 posts imported, got %#v", importResult)
	}

	buildResult, err := module.Generator().Build(ctx, blog.BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// two published posts plus home and tag listing; the draft is excluded
	if buildResult.PagesBuilt != 4 {
		t.Fatalf("expected 4 pages built, got %d", buildResult.PagesBuilt)
	}

	home := readOutputFile(t, outputDir, "index.html")
	if !strings.Contains(home, `<a href="/posts/hello-world/">Hello World</a>`) {
		t.Fatalf("expected home to list post, got %s", home)
	}
	if strings.Contains(home, "Work In Progress") {
		t.Fatalf("expected draft excluded from home, got %s", home)
	}

	post := readOutputFile(t, outputDir, "posts/hello-world/index.html")
	if !strings.Contains(post, `<h1 id="welcome">Welcome</h1>`) {
		t.Fatalf("expected rendered markdown with heading anchor, got %s", post)
	}
	if !strings.Contains(post, `<a href="/tags/#go">go</a>`) {
		t.Fatalf("expected tag link, got %s", post)
	}
	if strings.Contains(post, "mermaid.initialize") {
		t.Fatalf("expected no mermaid bootstrap on plain post, got %s", post)
	}

	diagram := readOutputFile(t, outputDir, "posts/flowcharts/index.html")
	if !strings.Contains(diagram, "mermaid.initialize") {
		t.Fatalf("expected mermaid bootstrap on diagram post, got %s", diagram)
	}

	tagsPage := readOutputFile(t, outputDir, "tags/index.html")
	for _, fragment := range []string{
		`<h3 id="diagrams">diagrams</h3>`,
		`<h3 id="go">go</h3>`,
		`<a href="/posts/hello-world/">Hello World</a> <time datetime="2024-01-15T09:00:00Z">`,
	} {
		if !strings.Contains(tagsPage, fragment) {
			t.Fatalf("expected tags page fragment %q, got %s", fragment, tagsPage)
		}
	}

	sitemap := readOutputFile(t, outputDir, "sitemap.xml")
	if !strings.Contains(sitemap, "<loc>https://example.com/posts/hello-world/</loc>") {
		t.Fatalf("expected sitemap entry, got %s", sitemap)
	}
	if strings.Contains(sitemap, "wip") {
		t.Fatalf("expected draft excluded from sitemap, got %s", sitemap)
	}

	feed := readOutputFile(t, outputDir, "feed.xml")
	if !strings.Contains(feed, "<title>Hello World</title>") {
		t.Fatalf("expected feed item, got %s", feed)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "robots.txt")); err != nil {
		t.Fatalf("expected robots.txt, got %v", err)
	}
}

func TestModuleSyncRemovesDeletedFiles(t *testing.T) {
	ctx := context.Background()

	contentDir := t.TempDir()
	writeContentFile(t, contentDir, "keep.md", `---
title: Keep Me
date: 2024-03-01T00:00:00Z
---

keep body
`)
	writeContentFile(t, contentDir, "gone.md", `---
title: Delete Me
date: 2024-03-02T00:00:00Z
---

gone body
`)

	cfg := blog.DefaultConfig()
	cfg.Content.ContentDir = contentDir
	cfg.Features.Generator = false

	module, err := blog.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	if _, err := module.Markdown().Sync(ctx, "", interfaces.SyncOptions{}); err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	if err := os.Remove(filepath.Join(contentDir, "gone.md")); err != nil {
		t.Fatalf("remove file: %v", err)
	}

	result, err := module.Markdown().Sync(ctx, "", interfaces.SyncOptions{DeleteOrphaned: true})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected 1 deleted post, got %d", result.Deleted)
	}

	if _, err := module.Posts().GetBySlug(ctx, "keep-me"); err != nil {
		t.Fatalf("expected kept post, got %v", err)
	}
	if _, err := module.Posts().GetBySlug(ctx, "delete-me"); err == nil {
		t.Fatal("expected orphaned post removed")
	}
}

func writeContentFile(tb testing.TB, dir, name, content string) {
	tb.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", name, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
}

func readOutputFile(tb testing.TB, outputDir, rel string) string {
	tb.Helper()
	data, err := os.ReadFile(filepath.Join(outputDir, filepath.FromSlash(rel)))
	if err != nil {
		tb.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}
