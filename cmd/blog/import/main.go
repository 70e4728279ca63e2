package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/inkpress/go-blog/cmd/blog/internal/bootstrap"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("blog import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("blog-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	directory := fs.String("directory", ".", "Directory to import, relative to the content root")
	dsn := fs.String("dsn", "", "SQLite DSN for the post store (defaults to in-memory repositories)")
	sync := fs.Bool("sync", false, "Reconcile the store with the filesystem instead of a plain import")
	deleteOrphaned := fs.Bool("delete-orphaned", false, "With -sync, delete posts whose source files are gone")
	renderHTML := fs.Bool("render", true, "Render markdown bodies to HTML during import")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting posts")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
		DSN:        *dsn,
		Verbose:    *verbose,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()
	importOpts := interfaces.ImportOptions{
		DryRun:     *dryRun,
		RenderHTML: *renderHTML,
	}

	if *sync {
		result, err := module.Markdown.Sync(ctx, *directory, interfaces.SyncOptions{
			ImportOptions:  importOpts,
			DeleteOrphaned: *deleteOrphaned,
		})
		if err != nil {
			return fmt.Errorf("sync directory: %w", err)
		}
		fmt.Fprintf(os.Stdout, "sync complete: %d created, %d updated, %d skipped, %d deleted\n",
			result.Created, result.Updated, result.Skipped, result.Deleted)
		return nil
	}

	result, err := module.Markdown.ImportDirectory(ctx, *directory, importOpts)
	if err != nil {
		return fmt.Errorf("import directory: %w", err)
	}
	fmt.Fprintf(os.Stdout, "import complete: %d created, %d updated, %d skipped\n",
		len(result.CreatedSlugs), len(result.UpdatedSlugs), len(result.SkippedSlugs))
	return nil
}
