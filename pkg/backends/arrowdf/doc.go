// Package arrowdf is the eager reference backend: a compliant adapter
// family over Apache Arrow. Its native objects are arrow.Record
// (frames) and arrow.Array (series); every operation materializes its
// result immediately as new Arrow data.
//
// Supported column types are int64, float64, string and bool. Arrays
// are built with the Go allocator; wrapped native records are never
// copied or mutated, and results are fresh records.
package arrowdf
