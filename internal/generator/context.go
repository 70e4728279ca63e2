package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/inkpress/go-blog/internal/posts"
	"github.com/inkpress/go-blog/internal/tags"
)

var errPostsServiceRequired = errors.New("generator: posts service is required")

// BuildContext aggregates the resolved post data required to execute a static build.
type BuildContext struct {
	GeneratedAt time.Time
	Posts       []*posts.Post
	Tags        tags.Index
	Pages       []*PageData
	Options     BuildOptions
}

// PageData encapsulates a single page to be rendered.
type PageData struct {
	Kind     PageKind
	Route    string
	Template string
	Post     *posts.Post
	Metadata DependencyMetadata
}

// DependencyMetadata tracks hashes and timestamps for incremental builds.
type DependencyMetadata struct {
	Sources      map[string]string
	Hash         string
	LastModified time.Time
}

func (s *service) loadContext(ctx context.Context, opts BuildOptions) (*BuildContext, error) {
	if s.deps.Posts == nil {
		return nil, errPostsServiceRequired
	}

	published, err := s.deps.Posts.List(ctx, posts.ListOptions{})
	if err != nil {
		return nil, err
	}

	index := tags.BuildIndex(published)

	requested := slugFilter(opts.Slugs)
	pages := make([]*PageData, 0, len(published)+2)
	for _, post := range published {
		if post == nil {
			continue
		}
		if requested != nil {
			if _, ok := requested[strings.ToLower(post.Slug)]; !ok {
				continue
			}
		}
		pages = append(pages, &PageData{
			Kind:     KindPost,
			Route:    post.URL(),
			Template: templateForPost(post),
			Post:     post,
			Metadata: postDependencyMetadata(post),
		})
	}

	// Aggregate pages depend on every post, so they rebuild whenever any
	// post changes regardless of the slug filter.
	pages = append(pages,
		&PageData{
			Kind:     KindHome,
			Route:    "/",
			Template: "home",
			Metadata: aggregateDependencyMetadata("home", published),
		},
		&PageData{
			Kind:     KindTagIndex,
			Route:    "/tags/",
			Template: "tags",
			Metadata: aggregateDependencyMetadata("tags", published),
		},
	)

	buildCtx := &BuildContext{
		GeneratedAt: s.now(),
		Posts:       published,
		Tags:        index,
		Pages:       pages,
		Options:     opts,
	}
	return buildCtx, nil
}

func slugFilter(slugs []string) map[string]struct{} {
	if len(slugs) == 0 {
		return nil
	}
	filter := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if slug == "" {
			continue
		}
		filter[slug] = struct{}{}
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}

func templateForPost(post *posts.Post) string {
	layout := strings.TrimSpace(post.Layout)
	if layout == "" {
		return "post"
	}
	return layout
}

func postDependencyMetadata(post *posts.Post) DependencyMetadata {
	sources := map[string]string{
		"post:" + post.Slug: postFingerprint(post),
	}
	return DependencyMetadata{
		Sources:      sources,
		Hash:         hashSources(sources),
		LastModified: post.UpdatedAt,
	}
}

func aggregateDependencyMetadata(kind string, published []*posts.Post) DependencyMetadata {
	sources := make(map[string]string, len(published)+1)
	sources["kind"] = kind
	var lastModified time.Time
	for _, post := range published {
		if post == nil {
			continue
		}
		sources["post:"+post.Slug] = postFingerprint(post)
		if post.UpdatedAt.After(lastModified) {
			lastModified = post.UpdatedAt
		}
	}
	return DependencyMetadata{
		Sources:      sources,
		Hash:         hashSources(sources),
		LastModified: lastModified,
	}
}

// postFingerprint captures everything a rendered page can observe about a
// post, so metadata edits invalidate cached output even when the body is
// unchanged.
func postFingerprint(post *posts.Post) string {
	parts := []string{
		post.Slug,
		post.Title,
		post.Layout,
		post.Checksum,
		strings.Join(post.Tags, ","),
	}
	if post.Summary != nil {
		parts = append(parts, *post.Summary)
	}
	if !post.Date().IsZero() {
		parts = append(parts, post.Date().UTC().Format(time.RFC3339))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

func hashSources(sources map[string]string) string {
	keys := make([]string, 0, len(sources))
	for key := range sources {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(sources[key])
		builder.WriteString("\n")
	}
	sum := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(sum[:])
}
