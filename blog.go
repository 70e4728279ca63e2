// Package blog is an embeddable markdown blog engine. It ingests markdown
// documents with front matter into a post store and renders a static site
// with per-tag listings, feeds, and a sitemap.
package blog

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/inkpress/go-blog/internal/di"
	"github.com/inkpress/go-blog/internal/generator"
	"github.com/inkpress/go-blog/internal/posts"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

// PostService exports the post service contract for consumers of the blog package.
type PostService = posts.Service

// PostRepository exports the post repository contract.
type PostRepository = posts.Repository

// Post exports the post model.
type Post = posts.Post

// MarkdownService exports the markdown ingestion contract.
type MarkdownService = interfaces.MarkdownService

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// BuildOptions exports the generator build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator build result.
type BuildResult = generator.BuildResult

// Option overrides a dependency binding during construction.
type Option = di.Option

// WithStorage overrides the artifact storage provider.
func WithStorage(sp interfaces.StorageProvider) Option {
	return di.WithStorage(sp)
}

// WithRenderer overrides the template renderer.
func WithRenderer(tr interfaces.TemplateRenderer) Option {
	return di.WithRenderer(tr)
}

// WithLoggerProvider overrides the logger provider.
func WithLoggerProvider(lp interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(lp)
}

// WithBunDB binds a bun database so posts persist to SQL storage.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

// WithClock overrides the time source used by services.
func WithClock(now func() time.Time) Option {
	return di.WithClock(now)
}

// WithPostRepository overrides the post repository binding.
func WithPostRepository(repo posts.Repository) Option {
	return di.WithPostRepository(repo)
}

// WithPostService overrides the post service binding.
func WithPostService(svc posts.Service) Option {
	return di.WithPostService(svc)
}

// WithMarkdownService overrides the markdown service binding.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return di.WithMarkdownService(svc)
}

// WithGeneratorService overrides the generator service binding.
func WithGeneratorService(svc generator.Service) Option {
	return di.WithGeneratorService(svc)
}

// Module represents the top level blog runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional
// dependency overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying dependency container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the configured post service.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Markdown returns the configured markdown ingestion service.
func (m *Module) Markdown() MarkdownService {
	return m.container.MarkdownService()
}

// Generator returns the configured static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}
