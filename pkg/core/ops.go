package core

// BinaryOp enumerates the elementwise binary operators supported by
// the expression model.
type BinaryOp int

const (
	OpAdd BinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
	OpGt
	OpGtEq
	OpLt
	OpLtEq
	OpEq
	OpNotEq
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpGt:
		return ">"
	case OpGtEq:
		return ">="
	case OpLt:
		return "<"
	case OpLtEq:
		return "<="
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "?"
	}
}

// Comparison reports whether the operator yields a boolean result.
func (op BinaryOp) Comparison() bool {
	switch op {
	case OpGt, OpGtEq, OpLt, OpLtEq, OpEq, OpNotEq:
		return true
	default:
		return false
	}
}

// AggKind enumerates column aggregations.
type AggKind int

const (
	AggSum AggKind = iota + 1
	AggMean
	AggMin
	AggMax
	AggCount
	AggStd
	AggVar
	AggQuantile
)

func (a AggKind) String() string {
	switch a {
	case AggSum:
		return "sum"
	case AggMean:
		return "mean"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggCount:
		return "count"
	case AggStd:
		return "std"
	case AggVar:
		return "var"
	case AggQuantile:
		return "quantile"
	default:
		return "?"
	}
}

// Interpolation selects how a quantile between two data points is
// computed.
type Interpolation int

const (
	InterpLinear Interpolation = iota
	InterpLower
	InterpHigher
	InterpNearest
	InterpMidpoint
)

func (i Interpolation) String() string {
	switch i {
	case InterpLower:
		return "lower"
	case InterpHigher:
		return "higher"
	case InterpNearest:
		return "nearest"
	case InterpMidpoint:
		return "midpoint"
	default:
		return "linear"
	}
}

// AggOptions carries the optional arguments of aggregations. Not every
// backend supports every combination; unsupported combinations are
// rejected per the backend's drift policy.
type AggOptions struct {
	// DDof is the delta degrees of freedom for Std and Var.
	DDof int

	// Quantile is the quantile level in [0, 1] for AggQuantile.
	Quantile float64

	// Interpolation applies to AggQuantile only.
	Interpolation Interpolation
}

// ConcatHow selects the concatenation strategy for multi-frame concat.
type ConcatHow int

const (
	// ConcatVertical stacks frames with identical schemas.
	ConcatVertical ConcatHow = iota

	// ConcatHorizontal joins equal-length frames column-wise; column
	// names must be disjoint.
	ConcatHorizontal

	// ConcatDiagonal stacks frames with differing schemas, filling
	// missing columns with nulls.
	ConcatDiagonal
)

func (h ConcatHow) String() string {
	switch h {
	case ConcatHorizontal:
		return "horizontal"
	case ConcatDiagonal:
		return "diagonal"
	default:
		return "vertical"
	}
}
