package arrowdf

import (
	"fmt"
	"math"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// valueAt returns the boxed value at index i, with ok=false for null.
func valueAt(arr arrow.Array, i int) (any, bool, error) {
	if arr.IsNull(i) {
		return nil, false, nil
	}
	switch a := arr.(type) {
	case *array.Int64:
		return a.Value(i), true, nil
	case *array.Float64:
		return a.Value(i), true, nil
	case *array.String:
		return a.Value(i), true, nil
	case *array.LargeString:
		return a.Value(i), true, nil
	case *array.Boolean:
		return a.Value(i), true, nil
	default:
		return nil, false, fmt.Errorf("unsupported arrow array type %s", arr.DataType())
	}
}

// buildArray constructs an arrow array of the given dtype from boxed
// values; nil entries become nulls.
func buildArray(mem memory.Allocator, t core.DType, values []any) (arrow.Array, error) {
	at, err := arrowType(t)
	if err != nil {
		return nil, err
	}
	b := array.NewBuilder(mem, at)
	defer b.Release()

	for _, v := range values {
		if v == nil {
			b.AppendNull()
			continue
		}
		if err := appendAny(b, v); err != nil {
			return nil, err
		}
	}
	return b.NewArray(), nil
}

func appendAny(b array.Builder, v any) error {
	switch bb := b.(type) {
	case *array.Int64Builder:
		i, ok := v.(int64)
		if !ok {
			return fmt.Errorf("cannot append %T to int64 column", v)
		}
		bb.Append(i)
	case *array.Float64Builder:
		switch f := v.(type) {
		case float64:
			bb.Append(f)
		case int64:
			bb.Append(float64(f))
		default:
			return fmt.Errorf("cannot append %T to float64 column", v)
		}
	case *array.StringBuilder:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("cannot append %T to string column", v)
		}
		bb.Append(s)
	case *array.BooleanBuilder:
		t, ok := v.(bool)
		if !ok {
			return fmt.Errorf("cannot append %T to bool column", v)
		}
		bb.Append(t)
	default:
		return fmt.Errorf("unsupported builder type %T", b)
	}
	return nil
}

// broadcastLen resolves the output length of a binary kernel; a
// length-1 side broadcasts against the other.
func broadcastLen(l, r int) (int, error) {
	switch {
	case l == r:
		return l, nil
	case l == 1:
		return r, nil
	case r == 1:
		return l, nil
	default:
		return 0, fmt.Errorf("length mismatch: %d vs %d", l, r)
	}
}

func pick(arr arrow.Array, i int) int {
	if arr.Len() == 1 {
		return 0
	}
	return i
}

func numericAt(arr arrow.Array, i int) (float64, bool) {
	if arr.IsNull(i) {
		return 0, false
	}
	switch a := arr.(type) {
	case *array.Int64:
		return float64(a.Value(i)), true
	case *array.Float64:
		return a.Value(i), true
	default:
		return 0, false
	}
}

func stringAt(arr arrow.Array, i int) (string, bool) {
	if arr.IsNull(i) {
		return "", false
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i), true
	case *array.LargeString:
		return a.Value(i), true
	default:
		return "", false
	}
}

// binaryKernel evaluates an elementwise binary operator over two
// arrays with broadcast. Result nulls follow SQL semantics: null in,
// null out.
func binaryKernel(mem memory.Allocator, op core.BinaryOp, left, right arrow.Array) (arrow.Array, error) {
	n, err := broadcastLen(left.Len(), right.Len())
	if err != nil {
		return nil, fmt.Errorf("binary op %s: %w", op, err)
	}

	lt, rt := dtypeOf(left.DataType()), dtypeOf(right.DataType())

	switch {
	case lt.Numeric() && rt.Numeric():
		return numericBinary(mem, op, left, right, n, lt == core.DTypeInt64 && rt == core.DTypeInt64)
	case lt == core.DTypeString && rt == core.DTypeString:
		return stringBinary(mem, op, left, right, n)
	case lt == core.DTypeBool && rt == core.DTypeBool:
		return boolBinary(mem, op, left, right, n)
	default:
		return nil, fmt.Errorf("binary op %s not defined for %s and %s", op, lt, rt)
	}
}

func numericBinary(mem memory.Allocator, op core.BinaryOp, left, right arrow.Array, n int, bothInt bool) (arrow.Array, error) {
	// Integer arithmetic stays integral except for division.
	intResult := bothInt && (op == core.OpAdd || op == core.OpSub || op == core.OpMul)

	switch {
	case op.Comparison():
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			lv, lok := numericAt(left, pick(left, i))
			rv, rok := numericAt(right, pick(right, i))
			if !lok || !rok {
				b.AppendNull()
				continue
			}
			b.Append(compareFloat(op, lv, rv))
		}
		return b.NewArray(), nil

	case intResult:
		la, lok := left.(*array.Int64)
		ra, rok := right.(*array.Int64)
		if !lok || !rok {
			return nil, fmt.Errorf("binary op %s: expected int64 arrays", op)
		}
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			li, ri := pick(left, i), pick(right, i)
			if la.IsNull(li) || ra.IsNull(ri) {
				b.AppendNull()
				continue
			}
			b.Append(intArith(op, la.Value(li), ra.Value(ri)))
		}
		return b.NewArray(), nil

	case op == core.OpAdd || op == core.OpSub || op == core.OpMul || op == core.OpDiv:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			lv, lok := numericAt(left, pick(left, i))
			rv, rok := numericAt(right, pick(right, i))
			if !lok || !rok {
				b.AppendNull()
				continue
			}
			b.Append(floatArith(op, lv, rv))
		}
		return b.NewArray(), nil

	default:
		return nil, fmt.Errorf("binary op %s not defined for numeric operands", op)
	}
}

func compareFloat(op core.BinaryOp, l, r float64) bool {
	switch op {
	case core.OpGt:
		return l > r
	case core.OpGtEq:
		return l >= r
	case core.OpLt:
		return l < r
	case core.OpLtEq:
		return l <= r
	case core.OpEq:
		return l == r
	default:
		return l != r
	}
}

func intArith(op core.BinaryOp, l, r int64) int64 {
	switch op {
	case core.OpAdd:
		return l + r
	case core.OpSub:
		return l - r
	default:
		return l * r
	}
}

func floatArith(op core.BinaryOp, l, r float64) float64 {
	switch op {
	case core.OpAdd:
		return l + r
	case core.OpSub:
		return l - r
	case core.OpMul:
		return l * r
	default:
		return l / r
	}
}

func stringBinary(mem memory.Allocator, op core.BinaryOp, left, right arrow.Array, n int) (arrow.Array, error) {
	if !op.Comparison() {
		return nil, fmt.Errorf("binary op %s not defined for strings", op)
	}
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	for i := 0; i < n; i++ {
		lv, lok := stringAt(left, pick(left, i))
		rv, rok := stringAt(right, pick(right, i))
		if !lok || !rok {
			b.AppendNull()
			continue
		}
		b.Append(compareString(op, lv, rv))
	}
	return b.NewArray(), nil
}

func compareString(op core.BinaryOp, l, r string) bool {
	switch op {
	case core.OpGt:
		return l > r
	case core.OpGtEq:
		return l >= r
	case core.OpLt:
		return l < r
	case core.OpLtEq:
		return l <= r
	case core.OpEq:
		return l == r
	default:
		return l != r
	}
}

func boolBinary(mem memory.Allocator, op core.BinaryOp, left, right arrow.Array, n int) (arrow.Array, error) {
	la, lok := left.(*array.Boolean)
	ra, rok := right.(*array.Boolean)
	if !lok || !rok {
		return nil, fmt.Errorf("binary op %s: expected boolean arrays", op)
	}
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	for i := 0; i < n; i++ {
		li, ri := pick(left, i), pick(right, i)
		if la.IsNull(li) || ra.IsNull(ri) {
			b.AppendNull()
			continue
		}
		lv, rv := la.Value(li), ra.Value(ri)
		switch op {
		case core.OpAnd:
			b.Append(lv && rv)
		case core.OpOr:
			b.Append(lv || rv)
		case core.OpEq:
			b.Append(lv == rv)
		case core.OpNotEq:
			b.Append(lv != rv)
		default:
			return nil, fmt.Errorf("binary op %s not defined for booleans", op)
		}
	}
	return b.NewArray(), nil
}

// aggregate reduces an array to a single-value array.
func aggregate(mem memory.Allocator, kind core.AggKind, arr arrow.Array, opts core.AggOptions) (arrow.Array, error) {
	if kind == core.AggCount {
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.Append(int64(arr.Len() - arr.NullN()))
		return b.NewArray(), nil
	}

	t := dtypeOf(arr.DataType())
	if t == core.DTypeString && (kind == core.AggMin || kind == core.AggMax) {
		return stringMinMax(mem, kind, arr)
	}
	if !t.Numeric() {
		return nil, fmt.Errorf("aggregation %s not defined for %s columns", kind, t)
	}

	values := make([]float64, 0, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if v, ok := numericAt(arr, i); ok {
			values = append(values, v)
		}
	}

	// Integer sums, mins and maxes keep their type.
	if t == core.DTypeInt64 && (kind == core.AggSum || kind == core.AggMin || kind == core.AggMax) {
		return intReduce(mem, kind, arr)
	}

	b := array.NewFloat64Builder(mem)
	defer b.Release()
	if len(values) == 0 {
		b.AppendNull()
		return b.NewArray(), nil
	}

	switch kind {
	case core.AggSum:
		b.Append(sum(values))
	case core.AggMean:
		b.Append(sum(values) / float64(len(values)))
	case core.AggMin:
		b.Append(minOf(values))
	case core.AggMax:
		b.Append(maxOf(values))
	case core.AggStd:
		v, err := variance(values, opts.DDof)
		if err != nil {
			return nil, err
		}
		b.Append(math.Sqrt(v))
	case core.AggVar:
		v, err := variance(values, opts.DDof)
		if err != nil {
			return nil, err
		}
		b.Append(v)
	case core.AggQuantile:
		v, err := quantile(values, opts.Quantile, opts.Interpolation)
		if err != nil {
			return nil, err
		}
		b.Append(v)
	default:
		return nil, fmt.Errorf("unsupported aggregation %s", kind)
	}
	return b.NewArray(), nil
}

func intReduce(mem memory.Allocator, kind core.AggKind, arr arrow.Array) (arrow.Array, error) {
	a, ok := arr.(*array.Int64)
	if !ok {
		return nil, fmt.Errorf("aggregation %s: expected int64 array", kind)
	}
	b := array.NewInt64Builder(mem)
	defer b.Release()

	var acc int64
	seen := false
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) {
			continue
		}
		v := a.Value(i)
		if !seen {
			acc, seen = v, true
			continue
		}
		switch kind {
		case core.AggSum:
			acc += v
		case core.AggMin:
			if v < acc {
				acc = v
			}
		case core.AggMax:
			if v > acc {
				acc = v
			}
		}
	}
	if !seen {
		if kind == core.AggSum {
			b.Append(0)
		} else {
			b.AppendNull()
		}
		return b.NewArray(), nil
	}
	b.Append(acc)
	return b.NewArray(), nil
}

func stringMinMax(mem memory.Allocator, kind core.AggKind, arr arrow.Array) (arrow.Array, error) {
	b := array.NewStringBuilder(mem)
	defer b.Release()

	var acc string
	seen := false
	for i := 0; i < arr.Len(); i++ {
		v, ok := stringAt(arr, i)
		if !ok {
			continue
		}
		if !seen {
			acc, seen = v, true
			continue
		}
		if (kind == core.AggMin && v < acc) || (kind == core.AggMax && v > acc) {
			acc = v
		}
	}
	if !seen {
		b.AppendNull()
	} else {
		b.Append(acc)
	}
	return b.NewArray(), nil
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func variance(values []float64, ddof int) (float64, error) {
	n := len(values)
	if n <= ddof {
		return 0, fmt.Errorf("variance requires more than ddof=%d values, got %d", ddof, n)
	}
	mean := sum(values) / float64(n)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss / float64(n-ddof), nil
}

func quantile(values []float64, q float64, interp core.Interpolation) (float64, error) {
	if q < 0 || q > 1 {
		return 0, fmt.Errorf("quantile level %g outside [0, 1]", q)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	h := q * float64(len(sorted)-1)
	lo, hi := int(math.Floor(h)), int(math.Ceil(h))

	switch interp {
	case core.InterpLower:
		return sorted[lo], nil
	case core.InterpHigher:
		return sorted[hi], nil
	case core.InterpNearest:
		return sorted[int(math.Round(h))], nil
	case core.InterpMidpoint:
		return (sorted[lo] + sorted[hi]) / 2, nil
	default:
		return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo]), nil
	}
}
