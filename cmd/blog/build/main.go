package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	blog "github.com/inkpress/go-blog"
	"github.com/inkpress/go-blog/cmd/blog/internal/bootstrap"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("blog build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("blog-build", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	outputDir := fs.String("output", "dist", "Directory where the static site is written")
	templateDir := fs.String("templates", "", "Directory with template overrides (embedded defaults otherwise)")
	baseURL := fs.String("base-url", "", "Absolute base URL used in feeds and the sitemap")
	title := fs.String("title", "", "Site title")
	description := fs.String("description", "", "Site description")
	incremental := fs.Bool("incremental", false, "Skip pages whose inputs are unchanged since the last build")
	clean := fs.Bool("clean", true, "Remove previous output before building")
	workers := fs.Int("workers", 0, "Render worker count (defaults to the number of CPUs)")
	slugs := fs.String("slugs", "", "Comma separated post slugs to rebuild (aggregates always rebuild)")
	skipImport := fs.Bool("skip-import", false, "Build from the existing post store without importing")
	dryRun := fs.Bool("dry-run", false, "Render without writing artifacts")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:      *contentDir,
		Pattern:         *pattern,
		Recursive:       true,
		OutputDir:       *outputDir,
		TemplateDir:     *templateDir,
		BaseURL:         *baseURL,
		SiteTitle:       *title,
		SiteDescription: *description,
		CleanBuild:      *clean,
		Incremental:     *incremental,
		Workers:         *workers,
		Verbose:         *verbose,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()

	if !*skipImport {
		result, err := module.Markdown.ImportDirectory(ctx, ".", interfaces.ImportOptions{RenderHTML: true})
		if err != nil {
			return fmt.Errorf("import content: %w", err)
		}
		fmt.Fprintf(os.Stdout, "imported %d created, %d updated, %d skipped\n",
			len(result.CreatedSlugs), len(result.UpdatedSlugs), len(result.SkippedSlugs))
	}

	build, err := module.Generator.Build(ctx, blog.BuildOptions{
		Slugs:  bootstrap.SplitSlugs(*slugs),
		DryRun: *dryRun,
	})
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	fmt.Fprintf(os.Stdout, "built %d pages (%d skipped, %d feeds) in %s\n",
		build.PagesBuilt, build.PagesSkipped, build.FeedsBuilt, build.Duration)
	return nil
}
