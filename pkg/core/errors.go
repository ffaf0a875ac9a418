package core

import (
	"fmt"
	"strings"
)

// UnsupportedNativeTypeError is returned when no registered backend
// claims the runtime type of a native object.
type UnsupportedNativeTypeError struct {
	TypeName   string
	Registered []string
}

func (e *UnsupportedNativeTypeError) Error() string {
	return fmt.Sprintf("no registered backend claims native type %s\nRegistered native types: %v",
		e.TypeName, e.Registered)
}

// DuplicateBackendRegistrationError is returned at registration time
// when a backend claims a native marker type (or backend ID) that is
// already claimed.
type DuplicateBackendRegistrationError struct {
	Marker   string
	Existing BackendID
	Incoming BackendID
}

func (e *DuplicateBackendRegistrationError) Error() string {
	return fmt.Sprintf("backend %q cannot claim %s: already claimed by backend %q",
		e.Incoming, e.Marker, e.Existing)
}

// CapabilityNotSupportedError is returned when an operation requires
// an eager (or lazy) capability the object's backend does not have.
// It is raised before any native call is attempted.
type CapabilityNotSupportedError struct {
	Backend    BackendID
	Op         string
	Capability string
}

func (e *CapabilityNotSupportedError) Error() string {
	return fmt.Sprintf("operation %q requires the %s capability, which backend %q does not provide",
		e.Op, e.Capability, e.Backend)
}

// BackendCapabilityMismatchError is returned when an expression-level
// argument is not supported by the target backend's implementation of
// the operation. Under the strict drift policy this is a hard error.
type BackendCapabilityMismatchError struct {
	Backend  BackendID
	Op       string
	Argument string
	Detail   string
}

func (e *BackendCapabilityMismatchError) Error() string {
	msg := fmt.Sprintf("backend %q does not support argument %s of operation %q",
		e.Backend, e.Argument, e.Op)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// MixedBackendError is returned when a multi-frame operation receives
// arguments wrapping different backends. No implicit cross-backend
// materialization ever occurs.
type MixedBackendError struct {
	Op       string
	Backends []BackendID
}

func (e *MixedBackendError) Error() string {
	names := make([]string, len(e.Backends))
	for i, b := range e.Backends {
		names[i] = string(b)
	}
	return fmt.Sprintf("operation %q received objects from different backends: %s",
		e.Op, strings.Join(names, ", "))
}

// NativeError annotates an error surfaced from the native layer during
// a permitted call with the operation name and backend identity.
type NativeError struct {
	Backend BackendID
	Op      string
	Err     error
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("backend %q failed during %q: %v", e.Backend, e.Op, e.Err)
}

func (e *NativeError) Unwrap() error { return e.Err }
