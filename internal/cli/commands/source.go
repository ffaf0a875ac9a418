package commands

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/crossframe/internal/config"
	"github.com/leapstack-labs/crossframe/pkg/backends/arrowdf"
	"github.com/leapstack-labs/crossframe/pkg/backends/sqldf"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/leapstack-labs/crossframe/pkg/frame"
	"github.com/leapstack-labs/crossframe/pkg/sqlrel"
)

// openedFrame is a source opened under either backend.
type openedFrame struct {
	eager bool
	df    frame.DataFrame
	lf    frame.LazyFrame
}

// schema returns the source's schema under either backend.
func (o *openedFrame) schema(ctx context.Context) (core.Schema, error) {
	if o.eager {
		return o.df.Schema()
	}
	return o.lf.Schema(ctx)
}

// collect materializes a lazy source; eager sources pass through.
func (o *openedFrame) collect(ctx context.Context) (frame.DataFrame, error) {
	if o.eager {
		return o.df, nil
	}
	return o.lf.Collect(ctx)
}

// openSource opens a CSV file or SQL table as a frame using the
// configured backend. The cleanup function must be called when the
// command is done with the frame.
func openSource(ctx context.Context, cc *CommandContext, source string) (*openedFrame, func(), error) {
	switch cc.Cfg.DefaultBackend {
	case "sql":
		return openSQLSource(ctx, cc, source)
	default:
		return openArrowSource(cc, source)
	}
}

func openArrowSource(cc *CommandContext, source string) (*openedFrame, func(), error) {
	if !isCSV(source) {
		return nil, nil, fmt.Errorf("arrow backend reads CSV files, got %q (use --backend sql for tables)", source)
	}
	ns := arrowdf.NewNamespace(arrowdf.Options{Logger: cc.Logger})
	rec, err := arrowdf.ReadCSV(ns, source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	df, err := frame.DataFrameFromNative(rec)
	if err != nil {
		rec.Release()
		return nil, nil, err
	}
	cleanup := func() { rec.Release() }
	return &openedFrame{eager: true, df: df}, cleanup, nil
}

func openSQLSource(ctx context.Context, cc *CommandContext, source string) (*openedFrame, func(), error) {
	db, err := openTarget(ctx, &cc.Cfg.Target)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = db.Close() }

	table := source
	if isCSV(source) {
		table = tableNameFor(source)
		if err := sqlrel.LoadCSV(ctx, db, cc.Cfg.Target.Type, table, source); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to load %s: %w", source, err)
		}
	}

	rel, err := sqlrel.NewRelation(db, cc.Cfg.Target.Type, table)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	ns := sqldf.NewNamespace(sqldf.Options{Policy: cc.Cfg.Policy(), Logger: cc.Logger})
	clf, err := ns.Scan(rel)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return &openedFrame{lf: frame.NewLazyFrame(clf)}, cleanup, nil
}

// openTarget opens the configured SQL engine.
func openTarget(ctx context.Context, target *config.TargetConfig) (*sql.DB, error) {
	switch target.Type {
	case "duckdb":
		return sqlrel.OpenDuckDB(ctx, target.Path)
	case "sqlite":
		return sqlrel.OpenSQLite(ctx, target.Path)
	case "postgres":
		return sqlrel.OpenPostgres(ctx, target.DSN)
	default:
		return nil, fmt.Errorf("unknown target type %q", target.Type)
	}
}

func isCSV(source string) bool {
	return strings.EqualFold(filepath.Ext(source), ".csv")
}

// tableNameFor derives a safe table name from a CSV file path.
func tableNameFor(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "t_" + name
	}
	return name
}
