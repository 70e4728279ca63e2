package testsupport

import (
	"database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite returns an in-memory SQLite database wrapped in bun, closed when
// the test finishes. The pool is pinned to a single connection so the shared
// cache survives for the whole test.
func OpenSQLite(tb testing.TB) *bun.DB {
	tb.Helper()

	sqlDB, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db
}
