package dux

import (
	"fmt"
	"reflect"

	"github.com/on-the-ground/autodux/shared/helper"
	"go.uber.org/zap"
)

// Reducer computes the next state from the current state and an action payload.
type Reducer[S any] func(state S, payload any) S

// ReducerSpec describes how one named reducer of a slice is obtained.
// It is a sealed interface: use Custom, Typed, Fallible, Setter or AutoSetter.
type ReducerSpec[S any] interface {
	resolve(env *reconcileEnv[S], name string) (Reducer[S], error)
}

// Custom passes a hand-written reducer through unchanged.
func Custom[S any](fn Reducer[S]) ReducerSpec[S] {
	return customSpec[S]{fn: fn}
}

type customSpec[S any] struct {
	fn Reducer[S]
}

func (cs customSpec[S]) resolve(_ *reconcileEnv[S], name string) (Reducer[S], error) {
	if cs.fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilReducer, name)
	}
	return cs.fn, nil
}

// Typed wraps a reducer taking a payload of type P.
// A nil payload is passed as P's zero value. A payload of any other type
// leaves the state unchanged and is logged at warn level.
func Typed[S, P any](fn func(S, P) S) ReducerSpec[S] {
	if fn == nil {
		return customSpec[S]{}
	}
	return Fallible(func(state S, payload P) (S, error) {
		return fn(state, payload), nil
	})
}

// Fallible wraps a reducer that can fail. A failed transition keeps the
// current state and is logged at error level with the action type.
func Fallible[S, P any](fn func(S, P) (S, error)) ReducerSpec[S] {
	return fallibleSpec[S, P]{fn: fn}
}

type fallibleSpec[S, P any] struct {
	fn func(S, P) (S, error)
}

func (fs fallibleSpec[S, P]) resolve(env *reconcileEnv[S], name string) (Reducer[S], error) {
	if fs.fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilReducer, name)
	}
	actionType := ActionType(env.prefix, name)
	logger := env.logger
	return func(state S, payload any) S {
		p, ok := helper.PayloadAs[P](payload)
		if !ok {
			logger.Warn("payload type mismatch",
				zap.String("type", actionType),
				zap.String("want", reflect.TypeFor[P]().String()),
				zap.String("got", fmt.Sprintf("%T", payload)),
			)
			return state
		}
		next, err := fs.fn(state, p)
		if err != nil {
			logger.Error("reducer failed", zap.String("type", actionType), zap.Error(err))
			return state
		}
		return next
	}, nil
}

// Setter synthesizes a reducer replacing the state field with key field by the payload.
// See the package documentation for how field keys are matched.
func Setter[S any](field string) ReducerSpec[S] {
	return setterSpec[S]{field: field}
}

// AutoSetter synthesizes a setter whose field is derived from the reducer name:
// "setCount" targets "count", "setURL" targets "uRL".
func AutoSetter[S any]() ReducerSpec[S] {
	return setterSpec[S]{auto: true}
}

type setterSpec[S any] struct {
	field string
	auto  bool
}

func (ss setterSpec[S]) resolve(env *reconcileEnv[S], name string) (Reducer[S], error) {
	field := ss.field
	if ss.auto {
		derived, err := fieldKeyFromSetterName(name)
		if err != nil {
			return nil, err
		}
		field = derived
	}
	return synthesizeSetter(env, name, field)
}
