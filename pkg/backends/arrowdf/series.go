package arrowdf

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// Series wraps one arrow.Array together with a column name (Arrow
// arrays do not carry names themselves).
type Series struct {
	name string
	arr  arrow.Array
	ns   *Namespace
}

// BackendID returns the arrow backend identity.
func (s *Series) BackendID() core.BackendID { return BackendID }

// Version returns the Arrow library version.
func (s *Series) Version() string { return arrow.PkgVersion }

// Kind reports the series shape.
func (s *Series) Kind() core.Kind { return core.KindSeries }

// Native returns the wrapped arrow.Array.
func (s *Series) Native() any { return s.arr }

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// Len returns the number of values.
func (s *Series) Len() int64 { return int64(s.arr.Len()) }

// DType returns the normalized data type.
func (s *Series) DType() core.DType { return dtypeOf(s.arr.DataType()) }

// Values returns the values boxed as any, nil for nulls.
func (s *Series) Values() ([]any, error) {
	out := make([]any, s.arr.Len())
	for i := range out {
		v, ok, err := valueAt(s.arr, i)
		if err != nil {
			return nil, err
		}
		if ok {
			out[i] = v
		}
	}
	return out, nil
}

func dtypeOf(t arrow.DataType) core.DType {
	switch t.ID() {
	case arrow.INT64:
		return core.DTypeInt64
	case arrow.FLOAT64:
		return core.DTypeFloat64
	case arrow.STRING, arrow.LARGE_STRING:
		return core.DTypeString
	case arrow.BOOL:
		return core.DTypeBool
	default:
		return core.DTypeUnknown
	}
}

func arrowType(t core.DType) (arrow.DataType, error) {
	switch t {
	case core.DTypeInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case core.DTypeFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case core.DTypeString:
		return arrow.BinaryTypes.String, nil
	case core.DTypeBool:
		return arrow.FixedWidthTypes.Boolean, nil
	default:
		return nil, fmt.Errorf("no arrow mapping for dtype %s", t)
	}
}
