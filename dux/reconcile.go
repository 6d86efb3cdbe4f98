package dux

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// reconcileEnv carries what specs need to resolve into reducers.
type reconcileEnv[S any] struct {
	prefix    string
	initial   S
	stateType reflect.Type
	logger    *zap.Logger
}

// reconcile turns every spec into a reducer, keeping the key set intact.
// All invalid entries are reported together, in name order.
func reconcile[S any](env *reconcileEnv[S], specs map[string]ReducerSpec[S]) (map[string]Reducer[S], error) {
	reducers := make(map[string]Reducer[S], len(specs))
	var errs error
	for _, name := range slices.Sorted(maps.Keys(specs)) {
		spec := specs[name]
		switch {
		case name == "":
			errs = multierr.Append(errs, ErrEmptyReducerName)
			continue
		case spec == nil:
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrNilReducer, name))
			continue
		}
		reducer, err := spec.resolve(env, name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		reducers[name] = reducer
	}
	if errs != nil {
		return nil, errs
	}
	return reducers, nil
}
