package handlers

import (
	"context"

	"github.com/on-the-ground/autodux/dux/internal/model"
)

// FireAndForgetHandler runs handleFn on a single worker without reporting back.
type FireAndForgetHandler[P any] struct {
	*scope
	dispatcher WorkerDispatcher[P]
}

// NewFireAndForgetHandler starts the worker; payloads are handled in the order they were queued.
func NewFireAndForgetHandler[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	sc := newScope(ctx, teardown)
	return FireAndForgetHandler[P]{
		scope:      sc,
		dispatcher: NewSingleQueue(sc.ctx, bufferSize, handleFn),
	}
}

// TryFire queues payload without blocking. It reports false when the buffer is full.
func (ffh FireAndForgetHandler[P]) TryFire(payload P) (bool, error) {
	select {
	case <-ffh.Done():
		return false, model.ErrHandlerClosed
	default:
	}

	select {
	case ffh.dispatcher.GetChannelOf(payload) <- payload:
		return true, nil
	default:
		return false, nil
	}
}
