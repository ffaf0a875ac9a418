// Package compliant defines the capability contracts that every
// backend adapter family must satisfy. Each backend implements these
// interfaces once, translating uniform calls into its native library's
// operations. The interface layer (pkg/frame) talks only to these
// contracts and never to native objects directly.
//
// Three capability sets exist: the base contract common to every
// backend, the eager extension for backends with materialized data,
// and the lazy extension for backends that build deferred plans. A
// concrete backend implements exactly the subset matching its native
// library's execution model.
package compliant

import (
	"context"

	"github.com/leapstack-labs/crossframe/pkg/core"
)

// Object is the base contract shared by every compliant wrapper. An
// Object owns exactly one native object for its whole lifetime, and
// its backend identity always matches the identity of the backend
// that produced the native object.
type Object interface {
	// BackendID returns the identity of the backend family.
	BackendID() core.BackendID

	// Version returns the backend's native library version marker.
	Version() string

	// Kind reports the shape of the wrapped native object.
	Kind() core.Kind

	// Native returns the wrapped native object, unchanged in type.
	Native() any
}

// Frame is the base contract for tabular compliant objects, eager or
// lazy. Schema access may reach the native engine for lazy backends,
// so it takes a context.
type Frame interface {
	Object

	// Namespace returns the namespace this frame was built by.
	Namespace() Namespace

	// Schema returns the frame's column names and normalized types.
	Schema(ctx context.Context) (core.Schema, error)

	// Columns returns the column names in order.
	Columns(ctx context.Context) ([]string, error)
}

// DataFrame is the eager frame contract. All operations are direct
// synchronous calls over materialized, randomly accessible data.
type DataFrame interface {
	Frame

	// Select evaluates the expressions against the frame and returns
	// a new frame containing exactly those columns.
	Select(exprs ...Expr) (DataFrame, error)

	// WithColumns evaluates the expressions and appends (or replaces)
	// the resulting columns, keeping all existing ones.
	WithColumns(exprs ...Expr) (DataFrame, error)

	// Filter keeps the rows for which the boolean predicate is true.
	Filter(pred Expr) (DataFrame, error)

	// GetColumn extracts one column as a compliant series.
	GetColumn(name string) (Series, error)

	// NumRows returns the materialized row count.
	NumRows() int64

	// Rows returns the data row-major with values boxed as any.
	// Intended for rendering and tests, not bulk transfer.
	Rows() ([][]any, error)
}

// LazyFrame is the deferred-plan contract. Plan construction performs
// no I/O; Collect is the single blocking point where control passes to
// the native engine.
type LazyFrame interface {
	Frame

	Select(exprs ...Expr) (LazyFrame, error)
	WithColumns(exprs ...Expr) (LazyFrame, error)
	Filter(pred Expr) (LazyFrame, error)

	// Collect materializes the plan into an eager frame.
	Collect(ctx context.Context) (DataFrame, error)
}

// Series is the single-column contract.
type Series interface {
	Object

	Name() string
	Len() int64
	DType() core.DType

	// Values returns the column values boxed as any, nil for nulls.
	Values() ([]any, error)
}

// Expr is a backend-compiled expression, opaque outside its own
// backend family. Instances are produced by a Namespace and consumed
// by frames of the same backend only.
type Expr interface {
	// Name is the output column name the expression produces.
	Name() string
}

// Namespace is the per-backend registry of expression constructors
// and floating functions: operations that need visibility across
// multiple expressions at once and therefore cannot live as a method
// on a single compliant object. Namespaces are stateless apart from
// their backend identity and options.
type Namespace interface {
	BackendID() core.BackendID
	Version() string

	// Col references a column of the eventual input frame.
	Col(name string) Expr

	// Lit wraps a literal value. Unsupported literal types error.
	Lit(value any) (Expr, error)

	// Alias renames the expression's output column.
	Alias(e Expr, name string) Expr

	// BinaryOp combines two expressions elementwise.
	BinaryOp(op core.BinaryOp, left, right Expr) (Expr, error)

	// Agg aggregates an expression to a single value. Option
	// combinations the backend cannot honor are rejected according to
	// its drift policy, before any native call.
	Agg(kind core.AggKind, input Expr, opts core.AggOptions) (Expr, error)

	// HorizontalAgg aggregates row-wise across several expressions
	// (mean_horizontal, sum_horizontal).
	HorizontalAgg(kind core.AggKind, inputs []Expr) (Expr, error)
}

// EagerNamespace extends Namespace with operations that require
// immediately known shapes.
type EagerNamespace interface {
	Namespace

	// Concat combines frames by the given strategy. All inputs must
	// belong to this namespace's backend.
	Concat(frames []DataFrame, how core.ConcatHow) (DataFrame, error)

	// FromColumns builds a frame from in-memory buffers. Each column
	// must be one of []int64, []float64, []string or []bool.
	FromColumns(names []string, columns []any) (DataFrame, error)
}

// LazyNamespace extends Namespace with plan-construction entry points.
// No eager-only operation is available on a lazy namespace.
type LazyNamespace interface {
	Namespace

	// Scan starts a deferred plan over a native relation handle.
	Scan(native any) (LazyFrame, error)
}
