// Package bootstrap assembles blog modules for the CLI entry points.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	blog "github.com/inkpress/go-blog"
	"github.com/inkpress/go-blog/internal/logging"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

// Options captures configuration for the blog CLI bootstraps.
type Options struct {
	ContentDir      string
	Pattern         string
	Recursive       bool
	OutputDir       string
	TemplateDir     string
	BaseURL         string
	SiteTitle       string
	SiteDescription string
	CleanBuild      bool
	Incremental     bool
	Workers         int
	DSN             string
	Verbose         bool
	LoggerProvider  interfaces.LoggerProvider
}

// Module wraps the blog module and the services the CLIs operate on.
type Module struct {
	Module    *blog.Module
	Markdown  interfaces.MarkdownService
	Generator blog.GeneratorService
	Logger    interfaces.Logger
	DB        *bun.DB
}

// BuildModule constructs a blog module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := blog.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"
	cfg.Logging.Format = "console"
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}

	if trimmed := strings.TrimSpace(opts.ContentDir); trimmed != "" {
		cfg.Content.ContentDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Content.Pattern = trimmed
	}
	cfg.Content.Recursive = opts.Recursive

	cfg.Site.BaseURL = strings.TrimSpace(opts.BaseURL)
	if trimmed := strings.TrimSpace(opts.SiteTitle); trimmed != "" {
		cfg.Site.Title = trimmed
	}
	cfg.Site.Description = strings.TrimSpace(opts.SiteDescription)

	cfg.Generator.Enabled = true
	if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
		cfg.Generator.OutputDir = trimmed
	}
	cfg.Generator.TemplateDir = strings.TrimSpace(opts.TemplateDir)
	cfg.Generator.CleanBuild = opts.CleanBuild
	cfg.Generator.Incremental = opts.Incremental
	if opts.Workers > 0 {
		cfg.Generator.Workers = opts.Workers
	}

	blogOpts := []blog.Option{}
	if opts.LoggerProvider != nil {
		blogOpts = append(blogOpts, blog.WithLoggerProvider(opts.LoggerProvider))
	}

	var db *bun.DB
	if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
		if err := blog.CreateSchema(context.Background(), db); err != nil {
			_ = db.Close()
			return nil, err
		}
		blogOpts = append(blogOpts, blog.WithBunDB(db))
		cfg.Storage.Provider = "bun"
		cfg.Storage.DSN = dsn
	}

	module, err := blog.New(cfg, blogOpts...)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("initialise blog module: %w", err)
	}

	service := module.Markdown()
	if service == nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("markdown service not configured")
	}

	logger := logging.MarkdownLogger(module.Container().LoggerProvider())

	return &Module{
		Module:    module,
		Markdown:  service,
		Generator: module.Generator(),
		Logger:    logger,
		DB:        db,
	}, nil
}

// SplitSlugs parses a comma separated slug list into a trimmed slice.
func SplitSlugs(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	slugs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			slugs = append(slugs, trimmed)
		}
	}
	return slugs
}
