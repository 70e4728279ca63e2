// Package di wires module dependencies behind a small container so the root
// facade stays declarative.
package di

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/inkpress/go-blog/internal/adapters/storage"
	"github.com/inkpress/go-blog/internal/generator"
	"github.com/inkpress/go-blog/internal/logging"
	"github.com/inkpress/go-blog/internal/logging/gologger"
	"github.com/inkpress/go-blog/internal/markdown"
	"github.com/inkpress/go-blog/internal/posts"
	"github.com/inkpress/go-blog/internal/render"
	"github.com/inkpress/go-blog/internal/runtimeconfig"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	storage        interfaces.StorageProvider
	renderer       interfaces.TemplateRenderer
	loggerProvider interfaces.LoggerProvider
	bunDB          *bun.DB
	clock          func() time.Time

	postRepo     posts.Repository
	postSvc      posts.Service
	markdownSvc  interfaces.MarkdownService
	generatorSvc generator.Service
}

// Option overrides a container binding.
type Option func(*Container)

// WithStorage overrides the default storage provider.
func WithStorage(sp interfaces.StorageProvider) Option {
	return func(c *Container) {
		c.storage = sp
	}
}

// WithRenderer overrides the default template renderer.
func WithRenderer(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.renderer = tr
	}
}

// WithLoggerProvider overrides the default logger provider.
func WithLoggerProvider(lp interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = lp
	}
}

// WithBunDB binds a bun database so repositories persist to SQL storage.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithClock overrides the time source used by services.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.clock = now
	}
}

// WithPostRepository overrides the default post repository binding.
func WithPostRepository(repo posts.Repository) Option {
	return func(c *Container) {
		c.postRepo = repo
	}
}

// WithPostService overrides the default post service binding.
func WithPostService(svc posts.Service) Option {
	return func(c *Container) {
		c.postSvc = svc
	}
}

// WithMarkdownService overrides the default markdown service binding.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// WithGeneratorService overrides the default generator service binding.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureRepositories()

	if c.postSvc == nil {
		c.postSvc = posts.NewService(
			c.postRepo,
			posts.WithClock(c.clock),
			posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
		)
	}

	if c.markdownSvc == nil {
		importer := posts.NewImporter(posts.ImporterConfig{
			Posts:  c.postSvc,
			Logger: logging.ImporterLogger(c.loggerProvider),
		})
		svc, err := markdown.NewService(markdown.Config{
			BasePath:  cfg.Content.ContentDir,
			Pattern:   cfg.Content.Pattern,
			Recursive: cfg.Content.Recursive,
			Parser:    parserOptions(cfg.Content.Parser),
		}, nil, importer)
		if err != nil {
			return nil, err
		}
		c.markdownSvc = svc
	}

	if err := c.configureGenerator(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    loggingFormat(c.Config.Logging),
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureRepositories() {
	if c.postRepo != nil {
		return
	}
	if c.bunDB != nil {
		c.postRepo = posts.NewBunPostRepository(c.bunDB)
		return
	}
	c.postRepo = posts.NewMemoryPostRepository()
}

func (c *Container) configureGenerator() error {
	if c.generatorSvc != nil {
		return nil
	}
	genCfg := c.Config.Generator
	if !c.Config.Features.Generator || !genCfg.Enabled {
		c.generatorSvc = generator.NewDisabledService()
		return nil
	}
	if c.renderer == nil {
		renderer, err := render.NewRenderer(genCfg.TemplateDir)
		if err != nil {
			return err
		}
		c.renderer = renderer
	}
	if c.storage == nil {
		c.storage = storage.NewFilesystemStorage(genCfg.OutputDir, genCfg.OutputDir)
	}
	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:       genCfg.OutputDir,
		BaseURL:         c.Config.Site.BaseURL,
		SiteTitle:       c.Config.Site.Title,
		SiteDescription: c.Config.Site.Description,
		CleanBuild:      genCfg.CleanBuild,
		Incremental:     genCfg.Incremental,
		GenerateSitemap: genCfg.GenerateSitemap,
		GenerateRobots:  genCfg.GenerateRobots,
		GenerateFeeds:   genCfg.GenerateFeeds,
		Workers:         genCfg.Workers,
	}, generator.Dependencies{
		Posts:    c.postSvc,
		Renderer: c.renderer,
		Storage:  c.storage,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	})
	return nil
}

// StorageProvider exposes the artifact storage binding.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// TemplateRenderer exposes the template renderer binding.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.renderer
}

// LoggerProvider exposes the logger provider binding, which may be nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// PostRepository exposes the post repository binding.
func (c *Container) PostRepository() posts.Repository {
	return c.postRepo
}

// PostService returns the configured post service.
func (c *Container) PostService() posts.Service {
	return c.postSvc
}

// MarkdownService returns the configured markdown service.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// GeneratorService returns the configured generator service.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

func parserOptions(cfg runtimeconfig.ParserConfig) interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: cfg.Extensions,
		Sanitize:   cfg.Sanitize,
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
	}
}

func loggingFormat(cfg runtimeconfig.LoggingConfig) string {
	if provider := cfg.Provider; provider == "console" && cfg.Format == "" {
		return "console"
	}
	return cfg.Format
}
