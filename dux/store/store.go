// Package store hosts reducers the way a Redux-compatible store does:
// it holds the current state, applies dispatched actions one at a time and
// notifies subscribers of the latest state.
//
// Notifications never hold up reduction, so subscribers may dispatch.
// When dispatches outpace subscribers, pending notifications coalesce
// and subscribers only see the newest state.
//
// There is no middleware and no asynchronous action handling; an action is a
// plain dux.Action and Dispatch returns once it has been reduced.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/on-the-ground/autodux/dux"
	"github.com/on-the-ground/autodux/dux/internal/handlers"
	"github.com/on-the-ground/autodux/dux/internal/model"
	"github.com/on-the-ground/autodux/dux/log"
	"go.uber.org/zap"
)

// Config sizes the store workers.
type Config = model.Config

// NewConfig normalizes non-positive values to 1.
func NewConfig(bufferSize, numWorkers int) Config {
	return model.NewConfig(bufferSize, numWorkers)
}

var (
	// ErrStoreClosed is returned by Dispatch after the store was torn down.
	ErrStoreClosed = model.ErrHandlerClosed

	// ErrReducerPanicked is returned by Dispatch when the root reducer panics.
	// The state is left as it was before the action.
	ErrReducerPanicked = fmt.Errorf("reducer panicked")
)

// Option configures a store.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the store logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = log.OrNop(o.logger)
	return o
}

type snapshot[S any] struct {
	seq   uint64
	state S
}

type listener[S any] struct {
	id string
	fn func(S)
}

// Store holds one state value and reduces actions in the order they arrive.
type Store[S any] struct {
	id       string
	reducer  dux.RootReducer[S]
	state    atomic.Pointer[snapshot[S]]
	reduceH  handlers.ResumableHandler[dux.Action, S]
	notifyH  handlers.FireAndForgetHandler[struct{}]
	notified uint64 // owned by the notification worker
	mu       sync.Mutex
	watchers atomic.Pointer[[]listener[S]]
	logger   *zap.Logger
}

// New starts a store over reducer, beginning at initial.
// bufferSize bounds the pending actions; at most one notification is ever pending.
// The returned teardown stops the store; Dispatch fails with ErrStoreClosed afterwards.
func New[S any](
	ctx context.Context,
	bufferSize int,
	reducer dux.RootReducer[S],
	initial S,
	opts ...Option,
) (*Store[S], func()) {
	o := buildOptions(opts)
	bufferSize = model.NewConfig(bufferSize, 1).BufferSize

	s := &Store[S]{
		id:      uuid.New().String(),
		reducer: reducer,
	}
	s.logger = o.logger.With(zap.String("store", s.id))
	s.state.Store(&snapshot[S]{state: initial})
	s.watchers.Store(&[]listener[S]{})

	s.notifyH = handlers.NewFireAndForgetHandler(ctx, 1, s.notify, nil)
	s.reduceH = handlers.NewResumableHandler(ctx, bufferSize, s.reduce, nil)
	s.logger.Debug("store started",
		zap.String("reducer", s.reduceH.ID),
		zap.String("notifier", s.notifyH.ID),
	)

	return s, func() {
		s.reduceH.Close()
		s.notifyH.Close()
		s.logger.Debug("store closed")
		log.Sync(s.logger)
	}
}

// ID identifies the store in logs.
func (s *Store[S]) ID() string { return s.id }

// State returns the latest committed state.
func (s *Store[S]) State() S {
	return s.state.Load().state
}

// Dispatch reduces action against the current state and returns the new state.
// Unknown actions leave the state unchanged and are not an error.
func (s *Store[S]) Dispatch(ctx context.Context, action dux.Action) (S, error) {
	return s.reduceH.Perform(ctx, action)
}

// Subscribe registers fn to receive the latest state after dispatches.
// States arrive in dispatch order; intermediate states may be skipped when
// fn falls behind, but the newest state is always delivered.
// fn runs on the store's notification goroutine and may call Dispatch.
// The returned function unsubscribes.
func (s *Store[S]) Subscribe(fn func(S)) (string, func()) {
	id := uuid.New().String()
	s.mu.Lock()
	next := append(slices.Clone(*s.watchers.Load()), listener[S]{id: id, fn: fn})
	s.watchers.Store(&next)
	s.mu.Unlock()

	return id, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		next := slices.DeleteFunc(slices.Clone(*s.watchers.Load()), func(l listener[S]) bool {
			return l.id == id
		})
		s.watchers.Store(&next)
	}
}

func (s *Store[S]) reduce(_ context.Context, action dux.Action) (next S, err error) {
	cur := s.state.Load()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("reducer panicked", zap.String("type", action.Type), zap.Any("panic", r))
			next, err = cur.state, fmt.Errorf("%w: %s: %v", ErrReducerPanicked, action.Type, r)
		}
	}()

	next = s.reducer(cur.state, action)
	s.state.Store(&snapshot[S]{seq: cur.seq + 1, state: next})
	s.logger.Debug("action reduced", zap.String("type", action.Type))

	// A pending signal already covers this state.
	queued, fireErr := s.notifyH.TryFire(struct{}{})
	switch {
	case fireErr != nil:
		s.logger.Warn("subscribers not notified", zap.String("type", action.Type), zap.Error(fireErr))
	case !queued:
		s.logger.Debug("notification coalesced", zap.String("type", action.Type))
	}
	return next, nil
}

func (s *Store[S]) notify(_ context.Context, _ struct{}) {
	snap := s.state.Load()
	if snap.seq == s.notified {
		return
	}
	s.notified = snap.seq
	for _, l := range *s.watchers.Load() {
		s.call(l, snap.state)
	}
}

func (s *Store[S]) call(l listener[S], state S) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber panicked", zap.String("subscriber", l.id), zap.Any("panic", r))
		}
	}()
	l.fn(state)
}
