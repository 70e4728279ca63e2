package posts

import (
	"context"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/inkpress/go-blog/internal/logging"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

// Service is the post management contract.
type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, req UpdatePostRequest) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, opts ListOptions) ([]*Post, error)
	Delete(ctx context.Context, req DeletePostRequest) error
}

// Option customises service construction.
type Option func(*service)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger interfaces.Logger
}

// NewService wires a post service over the supplied repository.
func NewService(repo Repository, opts ...Option) Service {
	svc := &service{
		repo:   repo,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Validate checks the create request before it reaches the repository.
func (r CreatePostRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = validation.NewError("blog.posts.title_required", "title is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		errs["body"] = validation.NewError("blog.posts.body_required", "body is required")
	}
	if trimmed := strings.TrimSpace(r.Slug); trimmed != "" && !slug.IsValid(trimmed) {
		errs["slug"] = validation.NewError("blog.posts.slug_invalid", "slug contains invalid characters")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks the update request shape.
func (r UpdatePostRequest) Validate() error {
	errs := validation.Errors{}
	if r.ID == uuid.Nil {
		errs["id"] = validation.NewError("blog.posts.id_required", "post id is required")
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		errs["title"] = validation.NewError("blog.posts.title_required", "title is required")
	}
	if r.Body != nil && strings.TrimSpace(*r.Body) == "" {
		errs["body"] = validation.NewError("blog.posts.body_required", "body is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	postSlug, err := s.resolveSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetBySlug(ctx, postSlug); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil && !IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	record := &Post{
		ID:          uuid.New(),
		Slug:        postSlug,
		Title:       strings.TrimSpace(req.Title),
		Summary:     req.Summary,
		Author:      req.Author,
		Layout:      defaultLayout(req.Layout),
		Tags:        normalizeTags(req.Tags),
		Body:        req.Body,
		BodyHTML:    req.BodyHTML,
		Checksum:    req.Checksum,
		SourcePath:  req.SourcePath,
		Mermaid:     req.Mermaid,
		Draft:       req.Draft,
		PublishedAt: req.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("post created", "slug", created.Slug, "draft", created.Draft)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		existing.Title = strings.TrimSpace(*req.Title)
	}
	if req.Summary != nil {
		existing.Summary = req.Summary
	}
	if req.Author != nil {
		existing.Author = req.Author
	}
	if req.Layout != nil {
		existing.Layout = defaultLayout(*req.Layout)
	}
	if req.Tags != nil {
		existing.Tags = normalizeTags(req.Tags)
	}
	if req.Body != nil {
		existing.Body = *req.Body
	}
	if req.BodyHTML != nil {
		existing.BodyHTML = *req.BodyHTML
	}
	if req.Checksum != nil {
		existing.Checksum = *req.Checksum
	}
	if req.SourcePath != nil {
		existing.SourcePath = *req.SourcePath
	}
	if req.Mermaid != nil {
		existing.Mermaid = *req.Mermaid
	}
	if req.Draft != nil {
		existing.Draft = *req.Draft
	}
	if req.PublishedAt != nil {
		existing.PublishedAt = req.PublishedAt
	}
	existing.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("post updated", "slug", updated.Slug)
	return updated, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, postSlug string) (*Post, error) {
	postSlug = strings.TrimSpace(postSlug)
	if postSlug == "" {
		return nil, ErrSlugRequired
	}
	return s.repo.GetBySlug(ctx, postSlug)
}

// List returns posts ordered by date descending with ties broken on title
// then slug so output stays deterministic. Drafts are excluded unless
// requested.
func (s *service) List(ctx context.Context, opts ListOptions) ([]*Post, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Post, 0, len(records))
	for _, rec := range records {
		if rec == nil || rec.DeletedAt != nil {
			continue
		}
		if rec.Draft && !opts.IncludeDrafts {
			continue
		}
		if opts.Tag != "" && !hasTag(rec, opts.Tag) {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		left, right := out[i].Date(), out[j].Date()
		if !left.Equal(right) {
			return left.After(right)
		}
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].Slug < out[j].Slug
	})

	return out, nil
}

func (s *service) Delete(ctx context.Context, req DeletePostRequest) error {
	if req.ID == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, req.ID)
}

// resolveSlug prefers an explicit slug and derives one from the title
// otherwise.
func (s *service) resolveSlug(explicit, title string) (string, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		candidate = strings.TrimSpace(title)
	}
	if candidate == "" {
		return "", ErrSlugRequired
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}

func defaultLayout(layout string) string {
	layout = strings.TrimSpace(layout)
	if layout == "" {
		return "post"
	}
	return layout
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func hasTag(post *Post, tag string) bool {
	for _, candidate := range post.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}
