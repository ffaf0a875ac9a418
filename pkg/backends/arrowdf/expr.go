package arrowdf

import (
	"fmt"

	"github.com/leapstack-labs/crossframe/pkg/compliant"
)

// Expr is the arrow backend's compiled expression: an evaluation
// function from a concrete frame to a series, plus the output column
// name it produces.
type Expr struct {
	name string
	eval func(f *Frame) (*Series, error)
}

// Name is the output column name.
func (e *Expr) Name() string { return e.name }

// asExpr rejects compliant expressions compiled by another backend
// family. Expressions never cross backends in normal flow; this guard
// keeps a foreign expression from reaching an Arrow kernel.
func asExpr(e compliant.Expr) (*Expr, error) {
	ae, ok := e.(*Expr)
	if !ok {
		return nil, fmt.Errorf("arrow backend received expression of foreign type %T", e)
	}
	return ae, nil
}
