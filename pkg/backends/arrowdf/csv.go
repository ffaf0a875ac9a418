package arrowdf

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
)

// ReadCSV reads a CSV file (with header row) into a native
// arrow.Record with an inferred schema. The returned record is a
// native object; pass it to frame.FromNative to wrap it.
func ReadCSV(ns *Namespace, path string) (arrow.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewInferringReader(f,
		csv.WithHeader(true),
		csv.WithChunk(-1),
		csv.WithAllocator(ns.mem),
	)
	defer reader.Release()

	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		return nil, fmt.Errorf("CSV file %s is empty", path)
	}
	rec := reader.Record()
	rec.Retain()
	return rec, nil
}
