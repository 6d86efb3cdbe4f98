package handlers

import (
	"context"
	"sync"

	"github.com/on-the-ground/autodux/dux/internal/model"
)

// WorkerDispatcher picks the worker channel a message is sent to.
type WorkerDispatcher[T any] interface {
	GetChannelOf(msg T) chan<- T
}

// --- single queue ---

type singleQueue[T any] struct {
	effectCh chan T
}

func (q singleQueue[T]) GetChannelOf(_ T) chan<- T {
	return q.effectCh
}

// NewSingleQueue starts one worker; messages are handled in send order.
// The worker stops when ctx is done.
func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	effCh := make(chan T, bufferSize)
	ready := make(chan struct{})
	go work(ctx, effCh, handleFn, func() { close(ready) })
	<-ready
	return singleQueue[T]{effectCh: effCh}
}

// --- partitioned queue ---

type partitionedQueue[T model.Partitionable] struct {
	effectChs []chan T
}

func (pq partitionedQueue[T]) GetChannelOf(msg T) chan<- T {
	return pq.effectChs[getIndexByHash(msg, len(pq.effectChs))]
}

// NewPartitionedQueue starts numWorkers workers. Messages with the same
// partition key always reach the same worker.
func NewPartitionedQueue[T model.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	channels := make([]chan T, numWorkers)
	ready := sync.WaitGroup{}
	for i := range numWorkers {
		ready.Add(1)
		channels[i] = make(chan T, bufferSize)
		go work(ctx, channels[i], handleFn, ready.Done)
	}
	ready.Wait()
	return partitionedQueue[T]{effectChs: channels}
}

// work never closes ch: senders select on the scope's done channel instead,
// so a late send cannot panic.
func work[T any](ctx context.Context, ch <-chan T, handleFn func(context.Context, T), started func()) {
	started()
	for {
		select {
		case msg := <-ch:
			handleFn(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}
