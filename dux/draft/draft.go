// Package draft lets reducers be written as in-place mutations.
//
// The recipe receives a deep copy of the state (the draft) and mutates it;
// the mutated draft becomes the next state. The state passed in is never touched,
// so slices, maps and nested structs can be appended to or edited freely.
//
// A recipe must not keep the draft pointer, or anything reachable from it,
// after it returns: the draft is the next state and belongs to the store.
package draft

import (
	"fmt"
	"reflect"

	"github.com/on-the-ground/autodux/dux"
	"github.com/on-the-ground/autodux/dux/log"
	"github.com/on-the-ground/autodux/shared/helper"
	"github.com/tiendc/go-deepcopy"
	"go.uber.org/zap"
)

// ErrDraftCopy is returned when the state cannot be deep-copied into a draft.
var ErrDraftCopy = fmt.Errorf("failed to copy state into draft")

// Commit deep-copies state into a draft, applies recipe to it and returns the draft.
// On copy failure state is returned together with the error.
func Commit[S any](state S, recipe func(draft *S)) (S, error) {
	var draft S
	// state is passed by address so unexported struct fields are copied too.
	if err := deepcopy.Copy(&draft, &state); err != nil {
		return state, fmt.Errorf("%w: %w", ErrDraftCopy, err)
	}
	recipe(&draft)
	return draft, nil
}

// Option configures Produce.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger Produce reports to. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Produce turns a mutating recipe into a reducer. Payload typing follows dux.Typed:
// a mismatched payload is logged at warn and a failed copy at error, and both
// return state unchanged.
func Produce[S, P any](recipe func(draft *S, payload P), opts ...Option) dux.Reducer[S] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrNop(o.logger)

	return func(state S, payload any) S {
		p, ok := helper.PayloadAs[P](payload)
		if !ok {
			logger.Warn("payload type mismatch",
				zap.String("want", reflect.TypeFor[P]().String()),
				zap.String("got", fmt.Sprintf("%T", payload)),
			)
			return state
		}
		next, err := Commit(state, func(draft *S) { recipe(draft, p) })
		if err != nil {
			logger.Error("reducer failed", zap.Error(err))
			return state
		}
		return next
	}
}

// Mutation is the reducer spec of a mutating recipe. Unlike Produce it reports
// payload mismatches and copy failures through the slice logger.
func Mutation[S, P any](recipe func(draft *S, payload P)) dux.ReducerSpec[S] {
	if recipe == nil {
		return dux.Custom[S](nil)
	}
	return dux.Fallible(func(state S, payload P) (S, error) {
		return Commit(state, func(draft *S) { recipe(draft, payload) })
	})
}
