package sqldf

import (
	"reflect"

	"github.com/leapstack-labs/crossframe/pkg/backend"
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/leapstack-labs/crossframe/pkg/sqlrel"
)

func init() {
	ns := NewNamespace(Options{})
	backend.MustRegister(backend.Registration{
		ID:        BackendID,
		Version:   Version,
		Namespace: ns,
		Natives: []backend.NativeType{
			{Marker: reflect.TypeOf((*sqlrel.Relation)(nil)), Kind: core.KindLazyFrame},
		},
		Wrap: func(native any, _ core.Kind) (compliant.Object, error) {
			lf, err := ns.Scan(native)
			if err != nil {
				return nil, err
			}
			return lf, nil
		},
	})
}
