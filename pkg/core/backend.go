package core

// BackendID identifies a registered backend family. It is used purely
// as a dispatch key and never changes after registration.
type BackendID string

// Kind classifies the shape of a wrapped native object.
type Kind int

const (
	// KindDataFrame is an eagerly materialized table.
	KindDataFrame Kind = iota + 1

	// KindLazyFrame is a deferred execution plan over a table.
	KindLazyFrame

	// KindSeries is a single named column.
	KindSeries
)

func (k Kind) String() string {
	switch k {
	case KindDataFrame:
		return "dataframe"
	case KindLazyFrame:
		return "lazyframe"
	case KindSeries:
		return "series"
	default:
		return "unknown"
	}
}

// DriftPolicy controls how a backend reacts to an expression argument
// its underlying implementation does not support.
type DriftPolicy int

const (
	// DriftStrict fails with a BackendCapabilityMismatchError. This is
	// the default: silent semantic divergence across backends is worse
	// than a hard error.
	DriftStrict DriftPolicy = iota

	// DriftPermissive downgrades the unsupported argument to the
	// backend's closest behavior and logs the substitution.
	DriftPermissive
)

func (p DriftPolicy) String() string {
	if p == DriftPermissive {
		return "permissive"
	}
	return "strict"
}

// ParseDriftPolicy parses a policy name from configuration.
// Empty input maps to DriftStrict.
func ParseDriftPolicy(s string) (DriftPolicy, bool) {
	switch s {
	case "", "strict":
		return DriftStrict, true
	case "permissive":
		return DriftPermissive, true
	default:
		return DriftStrict, false
	}
}
