package sqldf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/leapstack-labs/crossframe/pkg/sqlrel/dialect"
)

// Expr is the SQL backend's compiled expression: a renderer producing
// a SQL fragment for a concrete dialect, plus the output column name.
// Rendering performs the dialect capability checks, so unsupported
// arguments fail during plan construction, never inside the engine.
type Expr struct {
	name   string
	render func(d *dialect.Dialect) (string, error)
}

// Name is the output column name.
func (e *Expr) Name() string { return e.name }

func asExpr(e compliant.Expr) (*Expr, error) {
	se, ok := e.(*Expr)
	if !ok {
		return nil, fmt.Errorf("sql backend received expression of foreign type %T", e)
	}
	return se, nil
}

func sqlOp(op core.BinaryOp) string {
	switch op {
	case core.OpEq:
		return "="
	case core.OpNotEq:
		return "<>"
	case core.OpAnd:
		return "AND"
	case core.OpOr:
		return "OR"
	default:
		return op.String()
	}
}

func renderLiteral(value any) (string, error) {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	default:
		return "", fmt.Errorf("sql backend does not support literal type %T", value)
	}
}
