package handlers

import (
	"context"

	"github.com/on-the-ground/autodux/dux/internal/model"
)

// ResumableHandler runs handleFn on worker goroutines and hands the result back to the caller.
type ResumableHandler[P any, R any] struct {
	*scope
	dispatcher WorkerDispatcher[resumableMessage[P, R]]
}

// NewResumableHandler serves every payload on a single worker, in arrival order.
func NewResumableHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	sc := newScope(ctx, teardown)
	return ResumableHandler[P, R]{
		scope:      sc,
		dispatcher: NewSingleQueue(sc.ctx, bufferSize, resume(handleFn)),
	}
}

// NewPartitionableResumableHandler serves payloads on config.NumWorkers workers,
// keeping arrival order per partition key.
func NewPartitionableResumableHandler[P model.Partitionable, R any](
	ctx context.Context,
	config model.Config,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	sc := newScope(ctx, teardown)
	return ResumableHandler[P, R]{
		scope:      sc,
		dispatcher: NewPartitionedQueue(sc.ctx, config.NumWorkers, config.BufferSize, resume(handleFn)),
	}
}

func resume[P, R any](handleFn func(context.Context, P) (R, error)) func(context.Context, resumableMessage[P, R]) {
	return func(ctx context.Context, msg resumableMessage[P, R]) {
		res, err := handleFn(ctx, msg.payload)
		// resumeCh is buffered; the caller may already be gone.
		msg.resumeCh <- ResumableResult[R]{Value: res, Err: err}
	}
}

// Perform sends payload to its worker and waits for the result.
//
// It returns model.ErrHandlerClosed once the handler is closed, or ctx.Err() when
// ctx ends first. A payload already queued when ctx ends may still be handled.
func (rh ResumableHandler[P, R]) Perform(ctx context.Context, payload P) (R, error) {
	var zero R
	resumeCh := make(chan ResumableResult[R], 1)
	msg := resumableMessage[P, R]{
		payload:  payload,
		resumeCh: resumeCh,
	}

	select {
	case <-rh.Done():
		return zero, model.ErrHandlerClosed
	default:
	}

	select {
	case <-rh.Done():
		return zero, model.ErrHandlerClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	case rh.dispatcher.GetChannelOf(msg) <- msg:
	}

	select {
	case res := <-resumeCh:
		return res.Value, res.Err
	case <-rh.Done():
		return zero, model.ErrHandlerClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// ResumableResult represents the result of a handled payload.
type ResumableResult[T any] struct {
	Value T
	Err   error
}

var _ model.Partitionable = resumableMessage[any, any]{}

type resumableMessage[P any, R any] struct {
	payload  P
	resumeCh chan ResumableResult[R]
}

func (rm resumableMessage[P, R]) PartitionKey() string {
	if p, ok := any(rm.payload).(model.Partitionable); ok {
		return p.PartitionKey()
	}
	return ""
}
