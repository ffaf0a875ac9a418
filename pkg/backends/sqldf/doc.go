// Package sqldf is the lazy reference backend: a compliant adapter
// family over SQL engines reached through pkg/sqlrel. Its native
// object is *sqlrel.Relation, a deferred relational handle.
//
// Expressions compile to SQL fragments and plan construction is pure
// string work; Collect is the single blocking point, executing the
// accumulated query and materializing the rows into an Arrow-backed
// eager frame.
//
// The per-engine SQL differences live in pkg/sqlrel/dialect. When an
// expression argument has no rendering in the target dialect (for
// example a non-linear quantile interpolation, or any quantile on
// SQLite) the compile fails with a BackendCapabilityMismatchError
// under the default strict drift policy, or is downgraded with a log
// line under the permissive policy.
package sqldf
