package posts_test

import (
	"context"
	"testing"
	"time"

	"github.com/inkpress/go-blog/internal/posts"
	"github.com/inkpress/go-blog/pkg/testsupport"
)

func TestBunPostRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()

	bunDB := testsupport.OpenSQLite(t)

	if _, err := bunDB.NewCreateTable().Model((*posts.Post)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create posts table: %v", err)
	}

	repo := posts.NewBunPostRepository(bunDB)
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	svc := posts.NewService(repo, posts.WithClock(func() time.Time { return now }))

	created, err := svc.Create(ctx, posts.CreatePostRequest{
		Title: "Persisted Post",
		Body:  "stored in sqlite",
		Tags:  []string{"go", "storage"},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if created.Slug != "persisted-post" {
		t.Fatalf("expected derived slug, got %q", created.Slug)
	}

	fetched, err := repo.GetBySlug(ctx, "persisted-post")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected matching id, got %s vs %s", fetched.ID, created.ID)
	}
	if len(fetched.Tags) != 2 || fetched.Tags[0] != "go" {
		t.Fatalf("expected tags persisted, got %#v", fetched.Tags)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Slug != created.Slug {
		t.Fatalf("expected slug %q, got %q", created.Slug, byID.Slug)
	}

	if _, err := repo.GetBySlug(ctx, "missing-post"); !posts.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.Delete(ctx, posts.DeletePostRequest{ID: created.ID}); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); !posts.IsNotFound(err) {
		t.Fatalf("expected deleted post lookup to fail, got %v", err)
	}
}
