package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is the canonical record for a blog entry. Body holds the Markdown
// source; BodyHTML the rendered form when the importer was asked to render.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug        string     `bun:"slug,notnull,unique" json:"slug"`
	Title       string     `bun:"title,notnull" json:"title"`
	Summary     *string    `bun:"summary" json:"summary,omitempty"`
	Author      *string    `bun:"author" json:"author,omitempty"`
	Layout      string     `bun:"layout,notnull,default:'post'" json:"layout"`
	Tags        []string   `bun:"tags,type:jsonb" json:"tags,omitempty"`
	Body        string     `bun:"body,notnull" json:"body"`
	BodyHTML    string     `bun:"body_html" json:"body_html,omitempty"`
	Checksum    string     `bun:"checksum" json:"checksum,omitempty"`
	SourcePath  string     `bun:"source_path" json:"source_path,omitempty"`
	Mermaid     bool       `bun:"mermaid,notnull,default:false" json:"mermaid"`
	Draft       bool       `bun:"draft,notnull,default:false" json:"draft"`
	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	DeletedAt   *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Date reports the instant used for ordering and display: the publish date
// when present, otherwise the record creation time.
func (p *Post) Date() time.Time {
	if p == nil {
		return time.Time{}
	}
	if p.PublishedAt != nil && !p.PublishedAt.IsZero() {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// URL returns the canonical site-relative route for the post.
func (p *Post) URL() string {
	if p == nil || p.Slug == "" {
		return "/"
	}
	return "/posts/" + p.Slug + "/"
}

// CreatePostRequest carries the fields accepted when creating a post.
type CreatePostRequest struct {
	Slug        string
	Title       string
	Summary     *string
	Author      *string
	Layout      string
	Tags        []string
	Body        string
	BodyHTML    string
	Checksum    string
	SourcePath  string
	Mermaid     bool
	Draft       bool
	PublishedAt *time.Time
}

// UpdatePostRequest carries the fields accepted when updating a post. Nil
// pointer fields leave the stored value untouched.
type UpdatePostRequest struct {
	ID          uuid.UUID
	Title       *string
	Summary     *string
	Author      *string
	Layout      *string
	Tags        []string
	Body        *string
	BodyHTML    *string
	Checksum    *string
	SourcePath  *string
	Mermaid     *bool
	Draft       *bool
	PublishedAt *time.Time
}

// DeletePostRequest identifies a post to remove.
type DeletePostRequest struct {
	ID uuid.UUID
}

// ListOptions narrows List results.
type ListOptions struct {
	// IncludeDrafts returns draft posts alongside published ones.
	IncludeDrafts bool
	// Tag filters to posts carrying the given tag (exact match).
	Tag string
}
