package arrowdf

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// Concat combines frames by the given strategy.
func (ns *Namespace) Concat(frames []compliant.DataFrame, how core.ConcatHow) (compliant.DataFrame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("concat requires at least one frame")
	}
	own := make([]*Frame, len(frames))
	for i, f := range frames {
		af, ok := f.(*Frame)
		if !ok {
			return nil, &core.MixedBackendError{
				Op:       "concat",
				Backends: []core.BackendID{BackendID, f.BackendID()},
			}
		}
		own[i] = af
	}

	switch how {
	case core.ConcatVertical:
		return ns.concatVertical(own)
	case core.ConcatHorizontal:
		return ns.concatHorizontal(own)
	case core.ConcatDiagonal:
		return ns.concatDiagonal(own)
	default:
		return nil, fmt.Errorf("unknown concat strategy %d", how)
	}
}

func (ns *Namespace) concatVertical(frames []*Frame) (compliant.DataFrame, error) {
	schema := frames[0].rec.Schema()
	for _, f := range frames[1:] {
		if !schema.Equal(f.rec.Schema()) {
			return nil, fmt.Errorf("vertical concat requires identical schemas")
		}
	}

	fields := schema.Fields()
	arrs := make([]arrow.Array, len(fields))
	total := 0
	for _, f := range frames {
		total += int(f.rec.NumRows())
	}

	for c := range fields {
		values := make([]any, 0, total)
		for _, f := range frames {
			col := f.rec.Column(c)
			for i := 0; i < col.Len(); i++ {
				v, ok, err := valueAt(col, i)
				if err != nil {
					return nil, err
				}
				if ok {
					values = append(values, v)
				} else {
					values = append(values, nil)
				}
			}
		}
		arr, err := buildArray(ns.mem, dtypeOf(fields[c].Type), values)
		if err != nil {
			return nil, err
		}
		arrs[c] = arr
	}

	rec := array.NewRecord(schema, arrs, int64(total))
	return &Frame{rec: rec, ns: ns}, nil
}

func (ns *Namespace) concatHorizontal(frames []*Frame) (compliant.DataFrame, error) {
	rows := frames[0].rec.NumRows()
	seen := make(map[string]struct{})
	var fields []arrow.Field
	var arrs []arrow.Array

	for _, f := range frames {
		if f.rec.NumRows() != rows {
			return nil, fmt.Errorf("horizontal concat requires equal row counts (%d vs %d)", rows, f.rec.NumRows())
		}
		for i, fld := range f.rec.Schema().Fields() {
			if _, dup := seen[fld.Name]; dup {
				return nil, fmt.Errorf("horizontal concat: duplicate column %q", fld.Name)
			}
			seen[fld.Name] = struct{}{}
			fields = append(fields, fld)
			arrs = append(arrs, f.rec.Column(i))
		}
	}

	rec := array.NewRecord(arrow.NewSchema(fields, nil), arrs, rows)
	return &Frame{rec: rec, ns: ns}, nil
}

// concatDiagonal stacks frames with differing schemas; columns absent
// from a frame are filled with nulls. Column order follows first
// appearance.
func (ns *Namespace) concatDiagonal(frames []*Frame) (compliant.DataFrame, error) {
	var order []string
	types := make(map[string]core.DType)
	for _, f := range frames {
		for _, fld := range f.rec.Schema().Fields() {
			t := dtypeOf(fld.Type)
			if prev, ok := types[fld.Name]; ok {
				if prev != t {
					return nil, fmt.Errorf("diagonal concat: column %q has conflicting types %s and %s", fld.Name, prev, t)
				}
				continue
			}
			types[fld.Name] = t
			order = append(order, fld.Name)
		}
	}

	total := 0
	for _, f := range frames {
		total += int(f.rec.NumRows())
	}

	fields := make([]arrow.Field, len(order))
	arrs := make([]arrow.Array, len(order))
	for c, name := range order {
		values := make([]any, 0, total)
		for _, f := range frames {
			n := int(f.rec.NumRows())
			indices := f.rec.Schema().FieldIndices(name)
			if len(indices) == 0 {
				values = append(values, make([]any, n)...)
				continue
			}
			col := f.rec.Column(indices[0])
			for i := 0; i < n; i++ {
				v, ok, err := valueAt(col, i)
				if err != nil {
					return nil, err
				}
				if ok {
					values = append(values, v)
				} else {
					values = append(values, nil)
				}
			}
		}
		arr, err := buildArray(ns.mem, types[name], values)
		if err != nil {
			return nil, err
		}
		at, err := arrowType(types[name])
		if err != nil {
			return nil, err
		}
		fields[c] = arrow.Field{Name: name, Type: at, Nullable: true}
		arrs[c] = arr
	}

	rec := array.NewRecord(arrow.NewSchema(fields, nil), arrs, int64(total))
	return &Frame{rec: rec, ns: ns}, nil
}
