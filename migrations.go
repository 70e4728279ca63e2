package blog

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/inkpress/go-blog/internal/posts"
)

// Models lists the bun models owned by the module, in creation order.
func Models() []any {
	return []any{
		(*posts.Post)(nil),
	}
}

// CreateSchema creates the module tables when they do not exist. Hosts with
// their own migration tooling can use Models instead.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("blog: create table %T: %w", model, err)
		}
	}
	return nil
}
