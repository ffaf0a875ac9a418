package expr

import (
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// horizontal builds a row-wise aggregation across several expressions.
// These are floating functions: they need visibility across multiple
// expressions at once, so they dispatch through the namespace rather
// than a single receiver.
func horizontal(kind core.AggKind, exprs []Expr) Expr {
	meta := Metadata{RootsKnown: true}
	for _, e := range exprs {
		meta = combineMeta(meta, e.meta)
	}
	compiles := make([]compileFunc, len(exprs))
	for i, e := range exprs {
		compiles[i] = e.compile
	}
	return Expr{
		meta: meta,
		compile: func(ns compliant.Namespace) (compliant.Expr, error) {
			inputs := make([]compliant.Expr, len(compiles))
			for i, c := range compiles {
				ce, err := c(ns)
				if err != nil {
					return nil, err
				}
				inputs[i] = ce
			}
			return ns.HorizontalAgg(kind, inputs)
		},
	}
}

// MeanHorizontal computes the row-wise mean of the expressions.
func MeanHorizontal(exprs ...Expr) Expr {
	return horizontal(core.AggMean, exprs)
}

// SumHorizontal computes the row-wise sum of the expressions.
func SumHorizontal(exprs ...Expr) Expr {
	return horizontal(core.AggSum, exprs)
}
