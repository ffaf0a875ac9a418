// Package expr implements the interface-level expression model: a
// deferred computation over a not-yet-known frame, written once by the
// user and compiled against any backend's namespace.
//
// An Expr pairs a compile function with a metadata record describing
// the expression's static properties, so the interface layer can
// inspect root columns and arity without executing anything.
// Expressions are immutable value objects; every combinator returns a
// new expression.
package expr

import (
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// Metadata describes the static properties of an expression. It is
// derived deterministically from the metadata of the inputs whenever
// expressions are composed, so it never drifts from what the compile
// function actually produces.
type Metadata struct {
	// Roots lists the input column names the expression depends on,
	// in first-reference order, deduplicated. Only meaningful when
	// RootsKnown is true.
	Roots []string

	// RootsKnown reports whether the root set is statically knowable.
	RootsKnown bool

	// Arity is the number of input columns/expressions combined.
	Arity int

	// Agg reports whether the expression changes the number of output
	// rows by aggregating its input.
	Agg bool
}

// Root returns the single static root column name, if there is
// exactly one.
func (m Metadata) Root() (string, bool) {
	if m.RootsKnown && len(m.Roots) == 1 {
		return m.Roots[0], true
	}
	return "", false
}

type compileFunc func(ns compliant.Namespace) (compliant.Expr, error)

// Expr is an immutable deferred computation plus its static metadata.
// The zero value is not a valid expression.
type Expr struct {
	meta    Metadata
	compile compileFunc
}

// Metadata returns a copy of the expression's static metadata.
func (e Expr) Metadata() Metadata {
	m := e.meta
	m.Roots = append([]string(nil), e.meta.Roots...)
	return m
}

// ToCompliant compiles the expression for the target namespace. The
// call is referentially transparent: compiling twice with the same
// namespace yields equivalent compliant expressions.
func (e Expr) ToCompliant(ns compliant.Namespace) (compliant.Expr, error) {
	return e.compile(ns)
}

// Col references a column of the eventual input frame.
func Col(name string) Expr {
	return Expr{
		meta: Metadata{
			Roots:      []string{name},
			RootsKnown: true,
			Arity:      1,
		},
		compile: func(ns compliant.Namespace) (compliant.Expr, error) {
			return ns.Col(name), nil
		},
	}
}

// Lit wraps a literal value. Whether the value's type is supported is
// decided by the target backend at compile time.
func Lit(value any) Expr {
	return Expr{
		meta: Metadata{
			RootsKnown: true,
		},
		compile: func(ns compliant.Namespace) (compliant.Expr, error) {
			return ns.Lit(value)
		},
	}
}

// Alias renames the expression's output column. Metadata is unchanged
// apart from the output name, which is not part of the static record.
func (e Expr) Alias(name string) Expr {
	inner := e.compile
	return Expr{
		meta: e.meta,
		compile: func(ns compliant.Namespace) (compliant.Expr, error) {
			ce, err := inner(ns)
			if err != nil {
				return nil, err
			}
			return ns.Alias(ce, name), nil
		},
	}
}

// binary combines two expressions. Arity is the sum of the input
// arities; the root set is the ordered union of the inputs' roots when
// both are statically known.
func binary(op core.BinaryOp, left, right Expr) Expr {
	lc, rc := left.compile, right.compile
	return Expr{
		meta: combineMeta(left.meta, right.meta),
		compile: func(ns compliant.Namespace) (compliant.Expr, error) {
			l, err := lc(ns)
			if err != nil {
				return nil, err
			}
			r, err := rc(ns)
			if err != nil {
				return nil, err
			}
			return ns.BinaryOp(op, l, r)
		},
	}
}

func combineMeta(a, b Metadata) Metadata {
	m := Metadata{
		RootsKnown: a.RootsKnown && b.RootsKnown,
		Arity:      a.Arity + b.Arity,
		Agg:        a.Agg || b.Agg,
	}
	if m.RootsKnown {
		seen := make(map[string]struct{}, len(a.Roots)+len(b.Roots))
		for _, roots := range [][]string{a.Roots, b.Roots} {
			for _, r := range roots {
				if _, ok := seen[r]; ok {
					continue
				}
				seen[r] = struct{}{}
				m.Roots = append(m.Roots, r)
			}
		}
	}
	return m
}

// Add returns self + other.
func (e Expr) Add(other Expr) Expr { return binary(core.OpAdd, e, other) }

// Sub returns self - other.
func (e Expr) Sub(other Expr) Expr { return binary(core.OpSub, e, other) }

// Mul returns self * other.
func (e Expr) Mul(other Expr) Expr { return binary(core.OpMul, e, other) }

// Div returns self / other.
func (e Expr) Div(other Expr) Expr { return binary(core.OpDiv, e, other) }

// Gt returns self > other.
func (e Expr) Gt(other Expr) Expr { return binary(core.OpGt, e, other) }

// GtEq returns self >= other.
func (e Expr) GtEq(other Expr) Expr { return binary(core.OpGtEq, e, other) }

// Lt returns self < other.
func (e Expr) Lt(other Expr) Expr { return binary(core.OpLt, e, other) }

// LtEq returns self <= other.
func (e Expr) LtEq(other Expr) Expr { return binary(core.OpLtEq, e, other) }

// Eq returns self == other.
func (e Expr) Eq(other Expr) Expr { return binary(core.OpEq, e, other) }

// NotEq returns self != other.
func (e Expr) NotEq(other Expr) Expr { return binary(core.OpNotEq, e, other) }

// And returns self AND other.
func (e Expr) And(other Expr) Expr { return binary(core.OpAnd, e, other) }

// Or returns self OR other.
func (e Expr) Or(other Expr) Expr { return binary(core.OpOr, e, other) }

// agg aggregates the expression; roots and arity carry through, and
// the result is marked as row-count-changing.
func (e Expr) agg(kind core.AggKind, opts core.AggOptions) Expr {
	inner := e.compile
	meta := e.meta
	meta.Agg = true
	return Expr{
		meta: meta,
		compile: func(ns compliant.Namespace) (compliant.Expr, error) {
			ce, err := inner(ns)
			if err != nil {
				return nil, err
			}
			return ns.Agg(kind, ce, opts)
		},
	}
}

// Sum aggregates to the column sum.
func (e Expr) Sum() Expr { return e.agg(core.AggSum, core.AggOptions{}) }

// Mean aggregates to the arithmetic mean.
func (e Expr) Mean() Expr { return e.agg(core.AggMean, core.AggOptions{}) }

// Min aggregates to the minimum.
func (e Expr) Min() Expr { return e.agg(core.AggMin, core.AggOptions{}) }

// Max aggregates to the maximum.
func (e Expr) Max() Expr { return e.agg(core.AggMax, core.AggOptions{}) }

// Count aggregates to the number of non-null values.
func (e Expr) Count() Expr { return e.agg(core.AggCount, core.AggOptions{}) }

// Std aggregates to the standard deviation with the given delta
// degrees of freedom. Backends that cannot honor the requested ddof
// reject it per their drift policy.
func (e Expr) Std(ddof int) Expr {
	return e.agg(core.AggStd, core.AggOptions{DDof: ddof})
}

// Var aggregates to the variance with the given delta degrees of
// freedom.
func (e Expr) Var(ddof int) Expr {
	return e.agg(core.AggVar, core.AggOptions{DDof: ddof})
}

// Quantile aggregates to the q-quantile using the given interpolation.
// Backends that only support linear interpolation reject other modes
// per their drift policy.
func (e Expr) Quantile(q float64, interp core.Interpolation) Expr {
	return e.agg(core.AggQuantile, core.AggOptions{Quantile: q, Interpolation: interp})
}
