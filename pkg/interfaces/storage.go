package interfaces

import "context"

// StorageProvider encapsulates the persistence operations used by the
// generator and repositories. Artifacts are routed through Exec/Query with
// operation identifiers so providers can back the engine with a database,
// the filesystem, or object storage.
type StorageProvider interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Transaction(ctx context.Context, fn func(tx Transaction) error) error
}

// Rows is a minimal cursor over query results.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

// Result reports the outcome of a write operation.
type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

// Transaction scopes a group of storage operations.
type Transaction interface {
	StorageProvider
	Commit() error
	Rollback() error
}
