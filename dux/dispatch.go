package dux

import (
	"strings"

	"go.uber.org/zap"
)

// RootReducer is the reducer signature a hosting store calls for every action.
type RootReducer[S any] func(state S, action Action) S

// newDispatcher combines the reconciled reducers into the slice reducer.
//
// Actions of other slices and unknown reducer names return state as is.
// A panicking reducer is recovered and also leaves state unchanged.
func newDispatcher[S any](prefix string, reducers map[string]Reducer[S], logger *zap.Logger) RootReducer[S] {
	typePrefix := prefix + TypeSeparator
	return func(state S, action Action) (next S) {
		name, ok := strings.CutPrefix(action.Type, typePrefix)
		if !ok {
			return state
		}
		reducer, ok := reducers[name]
		if !ok {
			logger.Debug("no reducer for action", zap.String("type", action.Type))
			return state
		}
		defer func() {
			if r := recover(); r != nil {
				logger.Error("reducer panicked",
					zap.String("type", action.Type),
					zap.Any("panic", r),
				)
				next = state
			}
		}()
		return reducer(state, action.Payload)
	}
}
