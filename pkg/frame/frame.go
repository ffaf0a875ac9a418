// Package frame is the single user-facing API of CrossFrame. Its
// types hold exactly one compliant object each and forward every call
// to it, rewrapping compliant results back into interface objects. No
// business logic lives here.
package frame

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/leapstack-labs/crossframe/pkg/expr"
)

// Object is the common surface of every interface wrapper.
type Object interface {
	// BackendID returns the wrapped object's backend identity.
	BackendID() core.BackendID

	// ToNative unwraps one level, returning the native object held at
	// construction (or its transformed descendant) unchanged in type.
	ToNative() any
}

// Frame is implemented by DataFrame and LazyFrame. It exists so that
// multi-frame floating functions can accept either shape and report
// capability errors uniformly.
type Frame interface {
	Object
	compliantFrame() compliant.Frame
}

// DataFrame wraps one eager compliant frame.
type DataFrame struct {
	inner compliant.DataFrame
}

// NewDataFrame wraps an existing compliant frame. Most callers should
// use FromNative instead.
func NewDataFrame(inner compliant.DataFrame) DataFrame {
	return DataFrame{inner: inner}
}

func (d DataFrame) compliantFrame() compliant.Frame { return d.inner }

// BackendID returns the frame's backend identity.
func (d DataFrame) BackendID() core.BackendID { return d.inner.BackendID() }

// Version returns the backend's native library version marker.
func (d DataFrame) Version() string { return d.inner.Version() }

// ToNative unwraps back to the native ecosystem.
func (d DataFrame) ToNative() any { return d.inner.Native() }

// Schema returns the frame's columns and normalized types.
func (d DataFrame) Schema() (core.Schema, error) {
	return d.inner.Schema(context.Background())
}

// Columns returns the column names in order.
func (d DataFrame) Columns() ([]string, error) {
	return d.inner.Columns(context.Background())
}

// NumRows returns the materialized row count.
func (d DataFrame) NumRows() int64 { return d.inner.NumRows() }

// Rows returns the data row-major with values boxed as any.
func (d DataFrame) Rows() ([][]any, error) { return d.inner.Rows() }

// Select compiles the expressions against the frame's backend and
// returns a new frame with exactly those columns.
func (d DataFrame) Select(exprs ...expr.Expr) (DataFrame, error) {
	compiled, err := compile(d.inner.Namespace(), exprs)
	if err != nil {
		return DataFrame{}, err
	}
	out, err := d.inner.Select(compiled...)
	if err != nil {
		return DataFrame{}, err
	}
	return DataFrame{inner: out}, nil
}

// WithColumns appends (or replaces) the computed columns.
func (d DataFrame) WithColumns(exprs ...expr.Expr) (DataFrame, error) {
	compiled, err := compile(d.inner.Namespace(), exprs)
	if err != nil {
		return DataFrame{}, err
	}
	out, err := d.inner.WithColumns(compiled...)
	if err != nil {
		return DataFrame{}, err
	}
	return DataFrame{inner: out}, nil
}

// Filter keeps the rows for which the predicate is true.
func (d DataFrame) Filter(pred expr.Expr) (DataFrame, error) {
	compiled, err := pred.ToCompliant(d.inner.Namespace())
	if err != nil {
		return DataFrame{}, err
	}
	out, err := d.inner.Filter(compiled)
	if err != nil {
		return DataFrame{}, err
	}
	return DataFrame{inner: out}, nil
}

// GetColumn extracts one column as a Series.
func (d DataFrame) GetColumn(name string) (Series, error) {
	out, err := d.inner.GetColumn(name)
	if err != nil {
		return Series{}, err
	}
	return Series{inner: out}, nil
}

// LazyFrame wraps one lazy compliant frame: a deferred execution plan.
// Building the plan performs no I/O; Collect is the single blocking
// point.
type LazyFrame struct {
	inner compliant.LazyFrame
}

// NewLazyFrame wraps an existing compliant lazy frame.
func NewLazyFrame(inner compliant.LazyFrame) LazyFrame {
	return LazyFrame{inner: inner}
}

func (l LazyFrame) compliantFrame() compliant.Frame { return l.inner }

// BackendID returns the frame's backend identity.
func (l LazyFrame) BackendID() core.BackendID { return l.inner.BackendID() }

// Version returns the backend's native library version marker.
func (l LazyFrame) Version() string { return l.inner.Version() }

// ToNative unwraps back to the native ecosystem.
func (l LazyFrame) ToNative() any { return l.inner.Native() }

// Schema returns the plan's output columns. This may consult the
// native engine's metadata.
func (l LazyFrame) Schema(ctx context.Context) (core.Schema, error) {
	return l.inner.Schema(ctx)
}

// Columns returns the plan's output column names.
func (l LazyFrame) Columns(ctx context.Context) ([]string, error) {
	return l.inner.Columns(ctx)
}

// Select extends the plan with a projection.
func (l LazyFrame) Select(exprs ...expr.Expr) (LazyFrame, error) {
	compiled, err := compile(l.inner.Namespace(), exprs)
	if err != nil {
		return LazyFrame{}, err
	}
	out, err := l.inner.Select(compiled...)
	if err != nil {
		return LazyFrame{}, err
	}
	return LazyFrame{inner: out}, nil
}

// WithColumns extends the plan with additional computed columns.
func (l LazyFrame) WithColumns(exprs ...expr.Expr) (LazyFrame, error) {
	compiled, err := compile(l.inner.Namespace(), exprs)
	if err != nil {
		return LazyFrame{}, err
	}
	out, err := l.inner.WithColumns(compiled...)
	if err != nil {
		return LazyFrame{}, err
	}
	return LazyFrame{inner: out}, nil
}

// Filter extends the plan with a row predicate.
func (l LazyFrame) Filter(pred expr.Expr) (LazyFrame, error) {
	compiled, err := pred.ToCompliant(l.inner.Namespace())
	if err != nil {
		return LazyFrame{}, err
	}
	out, err := l.inner.Filter(compiled)
	if err != nil {
		return LazyFrame{}, err
	}
	return LazyFrame{inner: out}, nil
}

// Collect materializes the plan into an eager DataFrame.
func (l LazyFrame) Collect(ctx context.Context) (DataFrame, error) {
	out, err := l.inner.Collect(ctx)
	if err != nil {
		return DataFrame{}, err
	}
	return DataFrame{inner: out}, nil
}

// Series wraps one compliant series.
type Series struct {
	inner compliant.Series
}

// NewSeries wraps an existing compliant series.
func NewSeries(inner compliant.Series) Series {
	return Series{inner: inner}
}

// BackendID returns the series' backend identity.
func (s Series) BackendID() core.BackendID { return s.inner.BackendID() }

// Version returns the backend's native library version marker.
func (s Series) Version() string { return s.inner.Version() }

// ToNative unwraps back to the native ecosystem.
func (s Series) ToNative() any { return s.inner.Native() }

// Name returns the column name.
func (s Series) Name() string { return s.inner.Name() }

// Len returns the number of values.
func (s Series) Len() int64 { return s.inner.Len() }

// DType returns the normalized data type.
func (s Series) DType() core.DType { return s.inner.DType() }

// Values returns the values boxed as any, nil for nulls.
func (s Series) Values() ([]any, error) { return s.inner.Values() }

func compile(ns compliant.Namespace, exprs []expr.Expr) ([]compliant.Expr, error) {
	if len(exprs) == 0 {
		return nil, fmt.Errorf("at least one expression is required")
	}
	out := make([]compliant.Expr, len(exprs))
	for i, e := range exprs {
		ce, err := e.ToCompliant(ns)
		if err != nil {
			return nil, err
		}
		out[i] = ce
	}
	return out, nil
}
