package sqldf

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/leapstack-labs/crossframe/pkg/sqlrel"
)

// Frame wraps exactly one *sqlrel.Relation: a deferred execution plan
// over a SQL engine. Select, WithColumns and Filter derive new
// relations by string composition only; no query runs until Collect.
type Frame struct {
	rel *sqlrel.Relation
	ns  *Namespace
}

// BackendID returns the SQL backend identity.
func (f *Frame) BackendID() core.BackendID { return BackendID }

// Version returns the backend version marker.
func (f *Frame) Version() string { return Version }

// Kind reports the lazy frame shape.
func (f *Frame) Kind() core.Kind { return core.KindLazyFrame }

// Native returns the wrapped relation handle.
func (f *Frame) Native() any { return f.rel }

// Namespace returns the namespace this frame was built by.
func (f *Frame) Namespace() compliant.Namespace { return f.ns }

// Schema probes the engine's metadata for the plan's output columns.
func (f *Frame) Schema(ctx context.Context) (core.Schema, error) {
	types, err := f.rel.Probe(ctx)
	if err != nil {
		return nil, &core.NativeError{Backend: BackendID, Op: "schema", Err: err}
	}
	schema := make(core.Schema, len(types))
	for i, ct := range types {
		schema[i] = core.Column{Name: ct.Name(), Type: dbTypeToDType(ct.DatabaseTypeName())}
	}
	return schema, nil
}

// Columns returns the plan's output column names.
func (f *Frame) Columns(ctx context.Context) ([]string, error) {
	schema, err := f.Schema(ctx)
	if err != nil {
		return nil, err
	}
	return schema.Names(), nil
}

// Select extends the plan with a projection. Expression rendering
// performs the dialect capability checks; the engine is not touched.
func (f *Frame) Select(exprs ...compliant.Expr) (compliant.LazyFrame, error) {
	if len(exprs) == 0 {
		return nil, fmt.Errorf("at least one expression is required")
	}
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		se, err := asExpr(e)
		if err != nil {
			return nil, err
		}
		frag, err := se.render(f.rel.Dialect())
		if err != nil {
			return nil, err
		}
		parts[i] = frag + " AS " + f.rel.Dialect().QuoteIdent(se.name)
	}
	query := "SELECT " + strings.Join(parts, ", ") + " FROM " + f.rel.From()
	return &Frame{rel: f.rel.Derive(query), ns: f.ns}, nil
}

// WithColumns appends computed columns to the plan. Unlike the eager
// backend it does not replace same-named existing columns; replacing
// would require a schema probe during plan construction.
func (f *Frame) WithColumns(exprs ...compliant.Expr) (compliant.LazyFrame, error) {
	if len(exprs) == 0 {
		return nil, fmt.Errorf("at least one expression is required")
	}
	parts := []string{"*"}
	for _, e := range exprs {
		se, err := asExpr(e)
		if err != nil {
			return nil, err
		}
		frag, err := se.render(f.rel.Dialect())
		if err != nil {
			return nil, err
		}
		parts = append(parts, frag+" AS "+f.rel.Dialect().QuoteIdent(se.name))
	}
	query := "SELECT " + strings.Join(parts, ", ") + " FROM " + f.rel.From()
	return &Frame{rel: f.rel.Derive(query), ns: f.ns}, nil
}

// Filter extends the plan with a row predicate.
func (f *Frame) Filter(pred compliant.Expr) (compliant.LazyFrame, error) {
	se, err := asExpr(pred)
	if err != nil {
		return nil, err
	}
	frag, err := se.render(f.rel.Dialect())
	if err != nil {
		return nil, err
	}
	query := "SELECT * FROM " + f.rel.From() + " WHERE " + frag
	return &Frame{rel: f.rel.Derive(query), ns: f.ns}, nil
}

func dbTypeToDType(dbType string) core.DType {
	t := strings.ToUpper(dbType)
	switch {
	case strings.Contains(t, "BOOL"):
		return core.DTypeBool
	case strings.Contains(t, "INT"):
		return core.DTypeInt64
	case strings.Contains(t, "DOUBLE"), strings.Contains(t, "FLOAT"),
		strings.Contains(t, "REAL"), strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "DECIMAL"):
		return core.DTypeFloat64
	case strings.Contains(t, "CHAR"), strings.Contains(t, "TEXT"),
		strings.Contains(t, "STRING"):
		return core.DTypeString
	default:
		return core.DTypeUnknown
	}
}

// ensure the contract is satisfied
var _ compliant.LazyFrame = (*Frame)(nil)
