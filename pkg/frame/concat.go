package frame

import (
	"fmt"

	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// Concat combines frames by the given strategy. All inputs must wrap
// the same backend; mixing backends fails with MixedBackendError and
// no implicit cross-backend materialization occurs. Concat needs
// immediately known shapes, so it is eager-only: lazy-backed inputs
// fail with CapabilityNotSupportedError before any native call.
func Concat(frames []Frame, how core.ConcatHow) (DataFrame, error) {
	if len(frames) == 0 {
		return DataFrame{}, fmt.Errorf("concat requires at least one frame")
	}

	first := frames[0].BackendID()
	for _, f := range frames[1:] {
		if f.BackendID() != first {
			return DataFrame{}, &core.MixedBackendError{
				Op:       "concat",
				Backends: backendSet(frames),
			}
		}
	}

	inner := make([]compliant.DataFrame, len(frames))
	for i, f := range frames {
		df, ok := f.compliantFrame().(compliant.DataFrame)
		if !ok {
			return DataFrame{}, &core.CapabilityNotSupportedError{
				Backend:    f.BackendID(),
				Op:         "concat",
				Capability: "eager",
			}
		}
		inner[i] = df
	}

	ns, ok := inner[0].Namespace().(compliant.EagerNamespace)
	if !ok {
		return DataFrame{}, &core.CapabilityNotSupportedError{
			Backend:    first,
			Op:         "concat",
			Capability: "eager",
		}
	}

	out, err := ns.Concat(inner, how)
	if err != nil {
		return DataFrame{}, err
	}
	return DataFrame{inner: out}, nil
}

func backendSet(frames []Frame) []core.BackendID {
	var ids []core.BackendID
	seen := make(map[core.BackendID]struct{})
	for _, f := range frames {
		id := f.BackendID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
