package arrowdf

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// Frame wraps exactly one arrow.Record. Operations never mutate the
// wrapped record; every result is a fresh record.
type Frame struct {
	rec arrow.Record
	ns  *Namespace
}

// BackendID returns the arrow backend identity.
func (f *Frame) BackendID() core.BackendID { return BackendID }

// Version returns the Arrow library version.
func (f *Frame) Version() string { return arrow.PkgVersion }

// Kind reports the eager frame shape.
func (f *Frame) Kind() core.Kind { return core.KindDataFrame }

// Native returns the wrapped arrow.Record.
func (f *Frame) Native() any { return f.rec }

// Namespace returns the namespace this frame was built by.
func (f *Frame) Namespace() compliant.Namespace { return f.ns }

// Schema returns the frame's columns and normalized types.
func (f *Frame) Schema(_ context.Context) (core.Schema, error) {
	fields := f.rec.Schema().Fields()
	schema := make(core.Schema, len(fields))
	for i, fld := range fields {
		schema[i] = core.Column{Name: fld.Name, Type: dtypeOf(fld.Type)}
	}
	return schema, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns(_ context.Context) ([]string, error) {
	fields := f.rec.Schema().Fields()
	names := make([]string, len(fields))
	for i, fld := range fields {
		names[i] = fld.Name
	}
	return names, nil
}

// NumRows returns the materialized row count.
func (f *Frame) NumRows() int64 { return f.rec.NumRows() }

// column extracts a named column as a series without copying.
func (f *Frame) column(name string) (*Series, error) {
	indices := f.rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return &Series{name: name, arr: f.rec.Column(indices[0]), ns: f.ns}, nil
}

// GetColumn extracts one column as a compliant series.
func (f *Frame) GetColumn(name string) (compliant.Series, error) {
	return f.column(name)
}

// Select evaluates the expressions and returns a frame with exactly
// those columns. Length-1 results (aggregations, literals) broadcast
// against longer ones.
func (f *Frame) Select(exprs ...compliant.Expr) (compliant.DataFrame, error) {
	series, err := f.evalAll(exprs)
	if err != nil {
		return nil, err
	}
	return f.fromSeries(series)
}

// WithColumns evaluates the expressions and appends them, replacing
// any existing column of the same name.
func (f *Frame) WithColumns(exprs ...compliant.Expr) (compliant.DataFrame, error) {
	computed, err := f.evalAll(exprs)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Series, len(computed))
	for _, s := range computed {
		byName[s.name] = s
	}

	var series []*Series
	for i, fld := range f.rec.Schema().Fields() {
		if s, ok := byName[fld.Name]; ok {
			series = append(series, s)
			delete(byName, fld.Name)
			continue
		}
		series = append(series, &Series{name: fld.Name, arr: f.rec.Column(i), ns: f.ns})
	}
	for _, s := range computed {
		if _, pending := byName[s.name]; pending {
			series = append(series, s)
			delete(byName, s.name)
		}
	}
	return f.fromSeries(series)
}

// Filter keeps the rows for which the boolean predicate is true.
// Null predicate values drop the row.
func (f *Frame) Filter(pred compliant.Expr) (compliant.DataFrame, error) {
	p, err := asExpr(pred)
	if err != nil {
		return nil, err
	}
	s, err := p.eval(f)
	if err != nil {
		return nil, err
	}
	mask, ok := s.arr.(*array.Boolean)
	if !ok {
		return nil, fmt.Errorf("filter predicate produced %s, want bool", s.DType())
	}
	if int64(mask.Len()) != f.rec.NumRows() {
		return nil, fmt.Errorf("filter predicate produced %d values for %d rows", mask.Len(), f.rec.NumRows())
	}

	var keep []int
	for i := 0; i < mask.Len(); i++ {
		if !mask.IsNull(i) && mask.Value(i) {
			keep = append(keep, i)
		}
	}

	fields := f.rec.Schema().Fields()
	arrs := make([]arrow.Array, len(fields))
	for c := range fields {
		col := f.rec.Column(c)
		values := make([]any, len(keep))
		for out, in := range keep {
			v, ok, err := valueAt(col, in)
			if err != nil {
				return nil, err
			}
			if ok {
				values[out] = v
			}
		}
		arr, err := buildArray(f.ns.mem, dtypeOf(col.DataType()), values)
		if err != nil {
			return nil, err
		}
		arrs[c] = arr
	}

	rec := array.NewRecord(f.rec.Schema(), arrs, int64(len(keep)))
	return &Frame{rec: rec, ns: f.ns}, nil
}

// Rows returns the data row-major with values boxed as any.
func (f *Frame) Rows() ([][]any, error) {
	n := int(f.rec.NumRows())
	cols := int(f.rec.NumCols())
	out := make([][]any, n)
	for r := 0; r < n; r++ {
		row := make([]any, cols)
		for c := 0; c < cols; c++ {
			v, ok, err := valueAt(f.rec.Column(c), r)
			if err != nil {
				return nil, err
			}
			if ok {
				row[c] = v
			}
		}
		out[r] = row
	}
	return out, nil
}

func (f *Frame) evalAll(exprs []compliant.Expr) ([]*Series, error) {
	if len(exprs) == 0 {
		return nil, fmt.Errorf("at least one expression is required")
	}
	series := make([]*Series, len(exprs))
	for i, e := range exprs {
		ae, err := asExpr(e)
		if err != nil {
			return nil, err
		}
		s, err := ae.eval(f)
		if err != nil {
			return nil, err
		}
		series[i] = s
	}
	return series, nil
}

// fromSeries assembles a record from evaluated series, broadcasting
// length-1 series against the longest one.
func (f *Frame) fromSeries(series []*Series) (compliant.DataFrame, error) {
	target := 0
	for _, s := range series {
		if s.arr.Len() > target {
			target = s.arr.Len()
		}
	}

	fields := make([]arrow.Field, len(series))
	arrs := make([]arrow.Array, len(series))
	for i, s := range series {
		arr := s.arr
		if arr.Len() != target {
			if arr.Len() != 1 {
				return nil, fmt.Errorf("column %q has %d rows, expected %d", s.name, arr.Len(), target)
			}
			broadcast, err := repeatArray(f.ns, arr, target)
			if err != nil {
				return nil, err
			}
			arr = broadcast
		}
		fields[i] = arrow.Field{Name: s.name, Type: arr.DataType(), Nullable: true}
		arrs[i] = arr
	}

	rec := array.NewRecord(arrow.NewSchema(fields, nil), arrs, int64(target))
	return &Frame{rec: rec, ns: f.ns}, nil
}

func repeatArray(ns *Namespace, arr arrow.Array, n int) (arrow.Array, error) {
	v, present, err := valueAt(arr, 0)
	if err != nil {
		return nil, err
	}
	values := make([]any, n)
	if present {
		for i := range values {
			values[i] = v
		}
	}
	return buildArray(ns.mem, dtypeOf(arr.DataType()), values)
}
