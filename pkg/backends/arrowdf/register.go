package arrowdf

import (
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/leapstack-labs/crossframe/pkg/backend"
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

func init() {
	ns := NewNamespace(Options{})
	backend.MustRegister(backend.Registration{
		ID:        BackendID,
		Version:   arrow.PkgVersion,
		Namespace: ns,
		Natives: []backend.NativeType{
			{Marker: reflect.TypeOf((*arrow.Record)(nil)).Elem(), Kind: core.KindDataFrame},
			{Marker: reflect.TypeOf((*arrow.Array)(nil)).Elem(), Kind: core.KindSeries},
		},
		Wrap: func(native any, kind core.Kind) (compliant.Object, error) {
			return Wrap(ns, native, kind)
		},
	})
}

// Wrap constructs the compliant wrapper for a native arrow object.
// The native object is not copied, retained or mutated; the caller
// keeps ownership of its reference.
func Wrap(ns *Namespace, native any, kind core.Kind) (compliant.Object, error) {
	switch kind {
	case core.KindDataFrame:
		rec, ok := native.(arrow.Record)
		if !ok {
			return nil, fmt.Errorf("expected arrow.Record, got %T", native)
		}
		return &Frame{rec: rec, ns: ns}, nil
	case core.KindSeries:
		arr, ok := native.(arrow.Array)
		if !ok {
			return nil, fmt.Errorf("expected arrow.Array, got %T", native)
		}
		return &Series{name: "", arr: arr, ns: ns}, nil
	default:
		return nil, fmt.Errorf("arrow backend does not wrap %s objects", kind)
	}
}
