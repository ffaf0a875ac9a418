package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsupportedNativeTypeError_Error(t *testing.T) {
	err := &UnsupportedNativeTypeError{
		TypeName:   "*fancydb.Table",
		Registered: []string{"arrow.Record", "*sqlrel.Relation"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "*fancydb.Table", "error should name the offending type")
	assert.Contains(t, msg, "arrow.Record", "error should list registered native types")
}

func TestDuplicateBackendRegistrationError_Error(t *testing.T) {
	err := &DuplicateBackendRegistrationError{
		Marker:   "arrow.Record",
		Existing: "arrow",
		Incoming: "arrow2",
	}

	msg := err.Error()
	assert.Contains(t, msg, "arrow2", "error should name the incoming backend")
	assert.Contains(t, msg, "arrow.Record", "error should name the contested marker")
	assert.Contains(t, msg, `"arrow"`, "error should name the existing claimant")
}

func TestCapabilityNotSupportedError_Error(t *testing.T) {
	err := &CapabilityNotSupportedError{Backend: "sql", Op: "concat", Capability: "eager"}

	msg := err.Error()
	assert.Contains(t, msg, "concat")
	assert.Contains(t, msg, "eager")
	assert.Contains(t, msg, `"sql"`)
}

func TestBackendCapabilityMismatchError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *BackendCapabilityMismatchError
		want []string
	}{
		{
			name: "without detail",
			err:  &BackendCapabilityMismatchError{Backend: "sql", Op: "quantile", Argument: "interpolation=nearest"},
			want: []string{"quantile", "interpolation=nearest", `"sql"`},
		},
		{
			name: "with detail",
			err:  &BackendCapabilityMismatchError{Backend: "sql", Op: "std", Argument: "ddof=2", Detail: "sqlite has no stddev"},
			want: []string{"ddof=2", "sqlite has no stddev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				assert.Contains(t, msg, w)
			}
		})
	}
}

func TestMixedBackendError_Error(t *testing.T) {
	err := &MixedBackendError{Op: "concat", Backends: []BackendID{"arrow", "sql"}}

	msg := err.Error()
	assert.Contains(t, msg, "concat")
	assert.Contains(t, msg, "arrow, sql", "error should list the participating backends")
}

func TestNativeError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NativeError{Backend: "sql", Op: "collect", Err: cause}

	assert.Contains(t, err.Error(), "collect")
	assert.Contains(t, err.Error(), "connection refused")

	require.ErrorIs(t, err, cause, "NativeError should unwrap to its cause")

	wrapped := fmt.Errorf("query failed: %w", err)
	var ne *NativeError
	require.ErrorAs(t, wrapped, &ne, "NativeError should be recoverable with errors.As")
	assert.Equal(t, BackendID("sql"), ne.Backend)
}
