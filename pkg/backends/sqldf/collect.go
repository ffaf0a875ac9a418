package sqldf

import (
	"context"

	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// Collect materializes the plan. This is the single blocking point of
// the lazy backend: the accumulated query runs in the engine and the
// rows are rebuilt as an Arrow-backed eager frame.
func (f *Frame) Collect(ctx context.Context) (compliant.DataFrame, error) {
	rows, err := f.rel.Query(ctx)
	if err != nil {
		return nil, &core.NativeError{Backend: BackendID, Op: "collect", Err: err}
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, &core.NativeError{Backend: BackendID, Op: "collect", Err: err}
	}

	columns := make([][]any, len(names))
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &core.NativeError{Backend: BackendID, Op: "collect", Err: err}
		}
		for i, v := range values {
			columns[i] = append(columns[i], normalizeValue(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &core.NativeError{Backend: BackendID, Op: "collect", Err: err}
	}

	buffers := make([]any, len(columns))
	for i, col := range columns {
		buffers[i] = col
	}
	return f.ns.eager.FromColumns(names, buffers)
}

// normalizeValue maps driver scan types onto the supported value set.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}
