package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/on-the-ground/autodux/dux"
	"github.com/on-the-ground/autodux/dux/internal/handlers"
	"github.com/on-the-ground/autodux/dux/log"
	"github.com/on-the-ground/autodux/shared/helper"
	"go.uber.org/zap"
)

// Sharded hosts combined slices with one state cell per slice.
//
// Actions are routed by their slice prefix to one of config.NumWorkers workers,
// so actions of one slice are reduced in order while different slices proceed in parallel.
type Sharded struct {
	id       string
	combined *dux.Combined
	cells    sync.Map // slice name -> slice state
	reduceH  handlers.ResumableHandler[routedAction, any]
	logger   *zap.Logger
}

type routedAction struct {
	action dux.Action
	owner  dux.Unit
}

func (ra routedAction) PartitionKey() string {
	return ra.owner.Name()
}

// NewSharded starts a sharded store beginning at the combined initial state.
func NewSharded(
	ctx context.Context,
	config Config,
	combined *dux.Combined,
	opts ...Option,
) (*Sharded, func()) {
	o := buildOptions(opts)
	config = NewConfig(config.BufferSize, config.NumWorkers)

	sh := &Sharded{
		id:       uuid.New().String(),
		combined: combined,
	}
	sh.logger = o.logger.With(zap.String("store", sh.id))
	for name, state := range combined.InitialState() {
		sh.cells.Store(name, state)
	}
	sh.reduceH = handlers.NewPartitionableResumableHandler(ctx, config, sh.reduce, nil)
	sh.logger.Debug("sharded store started",
		zap.String("reducer", sh.reduceH.ID),
		zap.Int("workers", config.NumWorkers),
	)

	return sh, func() {
		sh.reduceH.Close()
		sh.logger.Debug("sharded store closed")
		log.Sync(sh.logger)
	}
}

// ID identifies the store in logs.
func (sh *Sharded) ID() string { return sh.id }

// Dispatch reduces action in the slice owning it and returns that slice's new state.
// An action no slice owns returns nil and no error.
func (sh *Sharded) Dispatch(ctx context.Context, action dux.Action) (any, error) {
	owner, ok := sh.combined.Owner(action.Type)
	if !ok {
		sh.logger.Debug("no slice owns action", zap.String("type", action.Type))
		return nil, nil
	}
	return sh.reduceH.Perform(ctx, routedAction{action: action, owner: owner})
}

// State snapshots every slice state into an aggregate keyed by slice name.
func (sh *Sharded) State() map[string]any {
	state := make(map[string]any, len(sh.combined.Names()))
	sh.cells.Range(func(k, v any) bool {
		state[k.(string)] = v
		return true
	})
	return state
}

// Select returns the current state of slice name.
func Select[S any](sh *Sharded, name string) (S, error) {
	return helper.GetTypedValueOf[S](func() (any, error) {
		v, ok := sh.cells.Load(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", dux.ErrUnknownSlice, name)
		}
		return v, nil
	})
}

// reduce runs on the worker owning ra's slice, the only writer of that cell.
func (sh *Sharded) reduce(_ context.Context, ra routedAction) (next any, err error) {
	name := ra.owner.Name()
	cur, _ := sh.cells.Load(name)
	defer func() {
		if r := recover(); r != nil {
			sh.logger.Error("reducer panicked", zap.String("type", ra.action.Type), zap.Any("panic", r))
			next, err = cur, fmt.Errorf("%w: %s: %v", ErrReducerPanicked, ra.action.Type, r)
		}
	}()

	next = ra.owner.ReduceValue(cur, ra.action)
	sh.cells.Store(name, next)
	sh.logger.Debug("action reduced", zap.String("type", ra.action.Type))
	return next, nil
}
