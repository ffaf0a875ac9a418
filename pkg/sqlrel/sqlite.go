package sqlrel

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // cgo-free sqlite driver
)

// OpenSQLite opens a SQLite database. Use ":memory:" for an in-memory
// database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return db, nil
}
