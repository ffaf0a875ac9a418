// Package core defines the shared language of the CrossFrame system.
//
// This package contains:
//   - Backend identity and object kinds (BackendID, Kind)
//   - Column/schema types shared by every layer (Column, Schema, DType)
//   - Operator and aggregation enums used by the expression model
//   - The cross-backend error taxonomy
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
