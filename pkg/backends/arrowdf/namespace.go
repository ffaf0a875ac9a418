package arrowdf

import (
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// BackendID is the arrow backend's dispatch key.
const BackendID core.BackendID = "arrow"

// Options configures a Namespace.
type Options struct {
	// Logger receives debug output. Nil uses a discard logger.
	Logger *slog.Logger

	// Allocator is the arrow allocator for result arrays. Nil uses
	// the Go allocator.
	Allocator memory.Allocator
}

// Namespace is the arrow backend's compliant namespace: expression
// constructors plus the floating functions that need visibility across
// several frames or expressions at once. It is stateless apart from
// its options.
type Namespace struct {
	logger *slog.Logger
	mem    memory.Allocator
}

// NewNamespace creates a namespace with the given options.
func NewNamespace(opts Options) *Namespace {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mem := opts.Allocator
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &Namespace{logger: logger, mem: mem}
}

// BackendID returns the arrow backend identity.
func (ns *Namespace) BackendID() core.BackendID { return BackendID }

// Version returns the Arrow library version.
func (ns *Namespace) Version() string { return arrow.PkgVersion }

// Col references a column of the eventual input frame.
func (ns *Namespace) Col(name string) compliant.Expr {
	return &Expr{
		name: name,
		eval: func(f *Frame) (*Series, error) {
			return f.column(name)
		},
	}
}

// Lit wraps a literal value as a length-1 series, broadcast by the
// kernels against longer operands.
func (ns *Namespace) Lit(value any) (compliant.Expr, error) {
	var t core.DType
	switch v := value.(type) {
	case int64:
		t = core.DTypeInt64
	case int:
		value = int64(v)
		t = core.DTypeInt64
	case float64:
		t = core.DTypeFloat64
	case string:
		t = core.DTypeString
	case bool:
		t = core.DTypeBool
	default:
		return nil, fmt.Errorf("arrow backend does not support literal type %T", value)
	}
	lt := t
	lv := value
	return &Expr{
		name: "literal",
		eval: func(f *Frame) (*Series, error) {
			arr, err := buildArray(ns.mem, lt, []any{lv})
			if err != nil {
				return nil, err
			}
			return &Series{name: "literal", arr: arr, ns: ns}, nil
		},
	}, nil
}

// Alias renames the expression's output column.
func (ns *Namespace) Alias(e compliant.Expr, name string) compliant.Expr {
	inner, err := asExpr(e)
	if err != nil {
		// Surfaced at evaluation time to keep Alias infallible.
		return &Expr{name: name, eval: func(*Frame) (*Series, error) { return nil, err }}
	}
	return &Expr{
		name: name,
		eval: func(f *Frame) (*Series, error) {
			s, err := inner.eval(f)
			if err != nil {
				return nil, err
			}
			return &Series{name: name, arr: s.arr, ns: ns}, nil
		},
	}
}

// BinaryOp combines two expressions elementwise. The result column
// keeps the left operand's name.
func (ns *Namespace) BinaryOp(op core.BinaryOp, left, right compliant.Expr) (compliant.Expr, error) {
	l, err := asExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := asExpr(right)
	if err != nil {
		return nil, err
	}
	return &Expr{
		name: l.name,
		eval: func(f *Frame) (*Series, error) {
			ls, err := l.eval(f)
			if err != nil {
				return nil, err
			}
			rs, err := r.eval(f)
			if err != nil {
				return nil, err
			}
			arr, err := binaryKernel(ns.mem, op, ls.arr, rs.arr)
			if err != nil {
				return nil, err
			}
			return &Series{name: ls.name, arr: arr, ns: ns}, nil
		},
	}, nil
}

// Agg reduces an expression to a single value. The arrow backend
// materializes everything, so all option combinations (any ddof, all
// quantile interpolations) are supported and no drift check applies.
func (ns *Namespace) Agg(kind core.AggKind, input compliant.Expr, opts core.AggOptions) (compliant.Expr, error) {
	in, err := asExpr(input)
	if err != nil {
		return nil, err
	}
	return &Expr{
		name: in.name,
		eval: func(f *Frame) (*Series, error) {
			s, err := in.eval(f)
			if err != nil {
				return nil, err
			}
			arr, err := aggregate(ns.mem, kind, s.arr, opts)
			if err != nil {
				return nil, &core.NativeError{Backend: BackendID, Op: kind.String(), Err: err}
			}
			return &Series{name: s.name, arr: arr, ns: ns}, nil
		},
	}, nil
}

// HorizontalAgg aggregates row-wise across several expressions. Nulls
// are ignored per row; a row with no values yields null.
func (ns *Namespace) HorizontalAgg(kind core.AggKind, inputs []compliant.Expr) (compliant.Expr, error) {
	if kind != core.AggSum && kind != core.AggMean {
		return nil, fmt.Errorf("horizontal aggregation %s is not supported", kind)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("horizontal aggregation requires at least one expression")
	}
	exprs := make([]*Expr, len(inputs))
	for i, in := range inputs {
		e, err := asExpr(in)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	name := kind.String() + "_horizontal"
	return &Expr{
		name: name,
		eval: func(f *Frame) (*Series, error) {
			arrs := make([]arrow.Array, len(exprs))
			n := 0
			for i, e := range exprs {
				s, err := e.eval(f)
				if err != nil {
					return nil, err
				}
				if s.arr.Len() > n {
					n = s.arr.Len()
				}
				arrs[i] = s.arr
			}

			b := array.NewFloat64Builder(ns.mem)
			defer b.Release()
			for row := 0; row < n; row++ {
				var total float64
				count := 0
				for _, arr := range arrs {
					if v, ok := numericAt(arr, pick(arr, row)); ok {
						total += v
						count++
					}
				}
				if count == 0 {
					b.AppendNull()
					continue
				}
				if kind == core.AggMean {
					b.Append(total / float64(count))
				} else {
					b.Append(total)
				}
			}
			return &Series{name: name, arr: b.NewArray(), ns: ns}, nil
		},
	}, nil
}

// FromColumns builds a frame from in-memory buffers.
func (ns *Namespace) FromColumns(names []string, columns []any) (compliant.DataFrame, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("got %d names for %d columns", len(names), len(columns))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}

	fields := make([]arrow.Field, len(names))
	arrs := make([]arrow.Array, len(names))
	rows := -1
	for i, col := range columns {
		arr, err := columnToArray(ns.mem, col)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", names[i], err)
		}
		if rows >= 0 && arr.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", names[i], arr.Len(), rows)
		}
		rows = arr.Len()
		arrs[i] = arr
		fields[i] = arrow.Field{Name: names[i], Type: arr.DataType(), Nullable: true}
	}

	rec := array.NewRecord(arrow.NewSchema(fields, nil), arrs, int64(rows))
	return &Frame{rec: rec, ns: ns}, nil
}

func columnToArray(mem memory.Allocator, col any) (arrow.Array, error) {
	switch vals := col.(type) {
	case []int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case []float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case []string:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case []bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(vals, nil)
		return b.NewArray(), nil
	case []any:
		return boxedToArray(mem, vals)
	default:
		return nil, fmt.Errorf("unsupported column buffer type %T", col)
	}
}

// boxedToArray infers the dtype of a boxed column from its first
// non-nil value.
func boxedToArray(mem memory.Allocator, vals []any) (arrow.Array, error) {
	t := core.DTypeUnknown
	for _, v := range vals {
		if v == nil {
			continue
		}
		switch v.(type) {
		case int64:
			t = core.DTypeInt64
		case float64:
			t = core.DTypeFloat64
		case string:
			t = core.DTypeString
		case bool:
			t = core.DTypeBool
		default:
			return nil, fmt.Errorf("unsupported boxed value type %T", v)
		}
		break
	}
	if t == core.DTypeUnknown {
		// All-null column defaults to float64.
		t = core.DTypeFloat64
	}
	return buildArray(mem, t, vals)
}
