package sqlrel

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/crossframe/pkg/sqlrel/dialect"
)

// LoadCSV loads a CSV file (with header row) into a table, creating
// the table with an inferred schema. DuckDB gets a native fast path;
// other engines fall back to parsed inserts.
func LoadCSV(ctx context.Context, db *sql.DB, dialectName, table, path string) error {
	d, ok := dialect.Get(dialectName)
	if !ok {
		return fmt.Errorf("unknown SQL dialect %q", dialectName)
	}

	if d.Name == "duckdb" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		query := fmt.Sprintf(
			"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto('%s', header=true)",
			d.QuoteIdent(table),
			strings.ReplaceAll(absPath, "'", "''"),
		)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to load CSV: %w", err)
		}
		return nil
	}

	return loadCSVGeneric(ctx, db, d, table, path)
}

// loadCSVGeneric parses the file, infers a column type per header and
// inserts row by row inside one transaction.
func loadCSVGeneric(ctx context.Context, db *sql.DB, d *dialect.Dialect, table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("CSV file %s is empty", path)
	}

	header := records[0]
	rows := records[1:]
	types := inferColumnTypes(header, rows)

	cols := make([]string, len(header))
	placeholders := make([]string, len(header))
	for i, name := range header {
		cols[i] = fmt.Sprintf("%s %s", d.QuoteIdent(name), types[i])
		placeholders[i] = d.FormatPlaceholder(i + 1)
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(table), strings.Join(cols, ", "))
	insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)", d.QuoteIdent(table), strings.Join(placeholders, ", "))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		args := make([]any, len(row))
		for i, field := range row {
			args[i] = convertField(field, types[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit CSV load: %w", err)
	}
	return nil
}

// inferColumnTypes picks BIGINT, DOUBLE PRECISION or TEXT per column
// based on the values seen. Empty fields are treated as nulls and do
// not influence the type.
func inferColumnTypes(header []string, rows [][]string) []string {
	types := make([]string, len(header))
	for col := range header {
		isInt, isFloat, seen := true, true, false
		for _, row := range rows {
			if col >= len(row) || row[col] == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseInt(row[col], 10, 64); err != nil {
				isInt = false
			}
			if _, err := strconv.ParseFloat(row[col], 64); err != nil {
				isFloat = false
			}
		}
		switch {
		case seen && isInt:
			types[col] = "BIGINT"
		case seen && isFloat:
			types[col] = "DOUBLE PRECISION"
		default:
			types[col] = "TEXT"
		}
	}
	return types
}

func convertField(field, sqlType string) any {
	if field == "" {
		return nil
	}
	switch sqlType {
	case "BIGINT":
		v, _ := strconv.ParseInt(field, 10, 64)
		return v
	case "DOUBLE PRECISION":
		v, _ := strconv.ParseFloat(field, 64)
		return v
	default:
		return field
	}
}
