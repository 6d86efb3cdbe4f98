package dux

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/on-the-ground/autodux/dux/log"
	"go.uber.org/zap"
)

// Option configures slice creation.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for payload mismatches, failed reducers
// and unhandled actions. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Slice is the reducer and action creators of one named part of the application state.
// It is immutable once created and safe for concurrent use.
type Slice[S any] struct {
	name     string
	initial  S
	reducers map[string]Reducer[S]
	actions  map[string]ActionCreator
	reducer  RootReducer[S]
}

// CreateSlice reconciles specs into reducers and derives the slice reducer and
// its action creators. Every invalid spec is reported in the returned error.
func CreateSlice[S any](
	prefix string,
	initial S,
	specs map[string]ReducerSpec[S],
	opts ...Option,
) (*Slice[S], error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrNop(o.logger).With(zap.String("slice", prefix))

	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	reducers, err := reconcile(&reconcileEnv[S]{
		prefix:    prefix,
		initial:   initial,
		stateType: reflect.TypeFor[S](),
		logger:    logger,
	}, specs)
	if err != nil {
		return nil, fmt.Errorf("slice %q: %w", prefix, err)
	}

	return &Slice[S]{
		name:     prefix,
		initial:  initial,
		reducers: reducers,
		actions:  createActions(prefix, reducers),
		reducer:  newDispatcher(prefix, reducers, logger),
	}, nil
}

// MustCreateSlice is the panic-on-failure variant of CreateSlice.
func MustCreateSlice[S any](
	prefix string,
	initial S,
	specs map[string]ReducerSpec[S],
	opts ...Option,
) *Slice[S] {
	slice, err := CreateSlice(prefix, initial, specs, opts...)
	if err != nil {
		panic(err)
	}
	return slice
}

// Name returns the action prefix of the slice.
func (s *Slice[S]) Name() string { return s.name }

// InitialState returns the state the slice was created with.
func (s *Slice[S]) InitialState() S { return s.initial }

// Reducer returns the slice reducer.
func (s *Slice[S]) Reducer() RootReducer[S] { return s.reducer }

// Reduce applies action to state.
func (s *Slice[S]) Reduce(state S, action Action) S {
	return s.reducer(state, action)
}

// Actions returns a copy of the action creators keyed by reducer name.
func (s *Slice[S]) Actions() map[string]ActionCreator {
	return maps.Clone(s.actions)
}

// Action returns the action creator of reducer name.
func (s *Slice[S]) Action(name string) (ActionCreator, bool) {
	ac, ok := s.actions[name]
	return ac, ok
}

// MustAction is Action for names known to exist; it panics otherwise.
func (s *Slice[S]) MustAction(name string) ActionCreator {
	ac, ok := s.actions[name]
	if !ok {
		panic(fmt.Sprintf("slice %q has no reducer %q", s.name, name))
	}
	return ac
}

// ActionType returns the action type dispatched for reducer name.
func (s *Slice[S]) ActionType(name string) (string, bool) {
	if _, ok := s.reducers[name]; !ok {
		return "", false
	}
	return ActionType(s.name, name), true
}

// ActionTypes lists the action types the slice reducer handles, sorted.
func (s *Slice[S]) ActionTypes() []string {
	types := make([]string, 0, len(s.reducers))
	for _, name := range slices.Sorted(maps.Keys(s.reducers)) {
		types = append(types, ActionType(s.name, name))
	}
	return types
}

// Handles reports whether the slice reducer owns actionType.
func (s *Slice[S]) Handles(actionType string) bool {
	name, ok := strings.CutPrefix(actionType, s.name+TypeSeparator)
	if !ok {
		return false
	}
	_, ok = s.reducers[name]
	return ok
}

// InitialValue is InitialState for callers that only know the slice as a Unit.
func (s *Slice[S]) InitialValue() any { return s.initial }

// ReduceValue is Reduce for callers that only know the slice as a Unit.
// A state of another type, or a missing one, is replaced by the initial state first.
func (s *Slice[S]) ReduceValue(state any, action Action) any {
	cur, ok := state.(S)
	if !ok {
		cur = s.initial
	}
	return s.reducer(cur, action)
}
