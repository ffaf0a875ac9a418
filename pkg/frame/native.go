package frame

import (
	"fmt"

	"github.com/leapstack-labs/crossframe/pkg/backend"
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
)

// FromNative wraps an arbitrary native object produced by one of the
// registered backends. The result is a DataFrame, LazyFrame or Series
// depending on the native object's shape; callers type-switch on the
// returned Object. The native object is never copied or mutated.
//
// Fails with UnsupportedNativeTypeError if no registered backend
// claims the object's runtime type.
func FromNative(native any) (Object, error) {
	reg, kind, err := backend.Resolve(native)
	if err != nil {
		return nil, err
	}
	obj, err := reg.Wrap(native, kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case core.KindDataFrame:
		df, ok := obj.(compliant.DataFrame)
		if !ok {
			return nil, fmt.Errorf("backend %q wrapped a %s without the eager contract", reg.ID, kind)
		}
		return DataFrame{inner: df}, nil
	case core.KindLazyFrame:
		lf, ok := obj.(compliant.LazyFrame)
		if !ok {
			return nil, fmt.Errorf("backend %q wrapped a %s without the lazy contract", reg.ID, kind)
		}
		return LazyFrame{inner: lf}, nil
	case core.KindSeries:
		s, ok := obj.(compliant.Series)
		if !ok {
			return nil, fmt.Errorf("backend %q wrapped a %s without the series contract", reg.ID, kind)
		}
		return Series{inner: s}, nil
	default:
		return nil, fmt.Errorf("backend %q resolved native object to unknown kind %d", reg.ID, kind)
	}
}

// DataFrameFromNative wraps a native object known to be an eager
// table.
func DataFrameFromNative(native any) (DataFrame, error) {
	obj, err := FromNative(native)
	if err != nil {
		return DataFrame{}, err
	}
	df, ok := obj.(DataFrame)
	if !ok {
		return DataFrame{}, fmt.Errorf("native object is a %T, not an eager dataframe", obj)
	}
	return df, nil
}

// LazyFrameFromNative wraps a native object known to be a deferred
// relation.
func LazyFrameFromNative(native any) (LazyFrame, error) {
	obj, err := FromNative(native)
	if err != nil {
		return LazyFrame{}, err
	}
	lf, ok := obj.(LazyFrame)
	if !ok {
		return LazyFrame{}, fmt.Errorf("native object is a %T, not a lazyframe", obj)
	}
	return lf, nil
}

// SeriesFromNative wraps a native object known to be a single column.
func SeriesFromNative(native any) (Series, error) {
	obj, err := FromNative(native)
	if err != nil {
		return Series{}, err
	}
	s, ok := obj.(Series)
	if !ok {
		return Series{}, fmt.Errorf("native object is a %T, not a series", obj)
	}
	return s, nil
}
