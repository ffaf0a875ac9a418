// Package sqlrel provides a minimal lazy relational handle over
// database/sql: a pointer to data living in a SQL engine, plus the
// query text that produces it. A Relation is the "native object" of
// the SQL backend family. Building derived relations is pure string
// work, and only Query touches the engine.
package sqlrel

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leapstack-labs/crossframe/pkg/sqlrel/dialect"
)

// Relation is a deferred handle to tabular data inside a SQL engine.
// It never caches rows; every Query re-executes against the engine.
type Relation struct {
	db      *sql.DB
	dialect *dialect.Dialect
	from    string // FROM-able fragment: quoted table or (subquery) alias
}

// NewRelation creates a handle over an existing table. The dialect
// name must be registered (see pkg/sqlrel/dialect).
func NewRelation(db *sql.DB, dialectName, table string) (*Relation, error) {
	d, ok := dialect.Get(dialectName)
	if !ok {
		return nil, fmt.Errorf("unknown SQL dialect %q (registered: %v)", dialectName, dialect.List())
	}
	if db == nil {
		return nil, fmt.Errorf("relation requires an open database handle")
	}
	if table == "" {
		return nil, fmt.Errorf("relation requires a table name")
	}
	return &Relation{
		db:      db,
		dialect: d,
		from:    d.QuoteIdent(table),
	}, nil
}

// Derive returns a new relation whose data is produced by the given
// SELECT statement. No query is executed.
func (r *Relation) Derive(selectSQL string) *Relation {
	alias := "cf_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	return &Relation{
		db:      r.db,
		dialect: r.dialect,
		from:    "(" + selectSQL + ") AS " + alias,
	}
}

// DB returns the underlying database handle.
func (r *Relation) DB() *sql.DB { return r.db }

// Dialect returns the relation's SQL dialect.
func (r *Relation) Dialect() *dialect.Dialect { return r.dialect }

// From returns the FROM-able SQL fragment naming this relation.
func (r *Relation) From() string { return r.from }

// SelectAll returns the SELECT statement materializing the relation.
func (r *Relation) SelectAll() string {
	return "SELECT * FROM " + r.from
}

// Query executes the relation and returns its rows. This is the only
// method that reaches the engine.
func (r *Relation) Query(ctx context.Context) (*sql.Rows, error) {
	rows, err := r.db.QueryContext(ctx, r.SelectAll())
	if err != nil {
		return nil, fmt.Errorf("failed to execute relation query: %w", err)
	}
	return rows, nil
}

// Probe runs the relation with LIMIT 0 to discover its column names
// and engine types without transferring data.
func (r *Relation) Probe(ctx context.Context) ([]*sql.ColumnType, error) {
	rows, err := r.db.QueryContext(ctx, r.SelectAll()+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("failed to probe relation schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schema probe: %w", err)
	}
	return types, nil
}
