// Package backend holds the process-wide backend registry. Backends
// register themselves at startup (typically in an init function) and
// are never removed; the registry is an append-only mapping guarded
// against duplicate claims.
package backend

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// NativeType declares one native marker type a backend claims,
// together with the shape of objects of that type. The marker may be
// a concrete type or an interface type.
type NativeType struct {
	Marker reflect.Type
	Kind   core.Kind
}

// Registration describes one backend family.
type Registration struct {
	ID        core.BackendID
	Version   string
	Namespace compliant.Namespace

	// Natives lists the native marker types this backend claims.
	Natives []NativeType

	// Wrap constructs the compliant wrapper for a claimed native
	// object. The native object is never copied or mutated.
	Wrap func(native any, kind core.Kind) (compliant.Object, error)
}

var (
	registryMu sync.RWMutex
	byID       = make(map[core.BackendID]*Registration)
	byMarker   = make(map[reflect.Type]*Registration)
	markers    []reflect.Type // registration order, for deterministic resolution
)

// Register adds a backend to the registry. A second claim on an
// already-claimed backend ID or native marker type is a configuration
// error, reported here rather than at call time.
func Register(reg Registration) error {
	if reg.ID == "" {
		return fmt.Errorf("backend registration missing ID")
	}
	if reg.Namespace == nil {
		return fmt.Errorf("backend %q registration missing namespace", reg.ID)
	}
	if reg.Wrap == nil {
		return fmt.Errorf("backend %q registration missing wrap function", reg.ID)
	}
	if len(reg.Natives) == 0 {
		return fmt.Errorf("backend %q claims no native types", reg.ID)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := byID[reg.ID]; ok {
		return &core.DuplicateBackendRegistrationError{
			Marker:   fmt.Sprintf("backend ID %q", reg.ID),
			Existing: existing.ID,
			Incoming: reg.ID,
		}
	}
	for _, nt := range reg.Natives {
		if nt.Marker == nil {
			return fmt.Errorf("backend %q declares a nil native marker type", reg.ID)
		}
		if existing, ok := byMarker[nt.Marker]; ok {
			return &core.DuplicateBackendRegistrationError{
				Marker:   nt.Marker.String(),
				Existing: existing.ID,
				Incoming: reg.ID,
			}
		}
	}

	stored := reg
	byID[reg.ID] = &stored
	for _, nt := range reg.Natives {
		byMarker[nt.Marker] = &stored
		markers = append(markers, nt.Marker)
	}
	return nil
}

// MustRegister is Register for init-time use; it panics on error.
func MustRegister(reg Registration) {
	if err := Register(reg); err != nil {
		panic(err)
	}
}

// Lookup returns the registration for a backend ID.
func Lookup(id core.BackendID) (*Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := byID[id]
	return reg, ok
}

// List returns all registered backend IDs (sorted).
func List() []core.BackendID {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]core.BackendID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsRegistered checks if a backend ID is registered.
func IsRegistered(id core.BackendID) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := byID[id]
	return ok
}

// Resolve determines which registered backend claims the runtime type
// of the native object and what shape it has. Resolution is
// deterministic: exact marker matches win over interface satisfaction,
// and within each pass markers are tried in registration order.
func Resolve(native any) (*Registration, core.Kind, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if native == nil {
		return nil, 0, &core.UnsupportedNativeTypeError{
			TypeName:   "<nil>",
			Registered: registeredMarkerNames(),
		}
	}

	t := reflect.TypeOf(native)

	// Pass 1: exact marker type.
	if reg, ok := byMarker[t]; ok {
		for _, nt := range reg.Natives {
			if nt.Marker == t {
				return reg, nt.Kind, nil
			}
		}
	}

	// Pass 2: interface markers, registration order.
	for _, marker := range markers {
		if marker.Kind() != reflect.Interface {
			continue
		}
		if !t.Implements(marker) {
			continue
		}
		reg := byMarker[marker]
		for _, nt := range reg.Natives {
			if nt.Marker == marker {
				return reg, nt.Kind, nil
			}
		}
	}

	return nil, 0, &core.UnsupportedNativeTypeError{
		TypeName:   t.String(),
		Registered: registeredMarkerNames(),
	}
}

func registeredMarkerNames() []string {
	names := make([]string, 0, len(markers))
	for _, m := range markers {
		names = append(names, m.String())
	}
	sort.Strings(names)
	return names
}
