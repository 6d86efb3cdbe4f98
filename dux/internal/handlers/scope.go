package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// scope ties a handler's workers to a cancellable context.
// Close cancels the workers, then runs the teardown once.
type scope struct {
	ID       string
	ctx      context.Context
	cancelFn context.CancelFunc
	teardown func()
	once     sync.Once
}

func newScope(ctx context.Context, teardown func()) *scope {
	ctx, cancelFn := context.WithCancel(ctx)
	if teardown == nil {
		teardown = func() {}
	}
	return &scope{
		ID:       uuid.New().String(),
		ctx:      ctx,
		cancelFn: cancelFn,
		teardown: teardown,
	}
}

// Close stops the workers. Calling it more than once is a no-op.
func (s *scope) Close() {
	s.once.Do(func() {
		s.cancelFn()
		s.teardown()
	})
}

// Done is closed once the scope is closed or its parent context is done.
func (s *scope) Done() <-chan struct{} {
	return s.ctx.Done()
}
