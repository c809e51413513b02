package scheduler

import "context"

// Future holds the result of a piece of work.
type Future[T any] struct {
	c      chan Result[T]
	cancel context.CancelFunc
}

func newFuture[T any](c chan Result[T], cancel context.CancelFunc) *Future[T] {
	return &Future[T]{c: c, cancel: cancel}
}

// C delivers the result exactly once.
func (f *Future[T]) C() <-chan Result[T] {
	return f.c
}

// Wait blocks until the result is available or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) Result[T] {
	select {
	case r := <-f.c:
		return r
	case <-ctx.Done():
		f.Stop()
		return Result[T]{Err: ctx.Err()}
	}
}

// Stop cancels the context given to the work.
func (f *Future[T]) Stop() {
	f.cancel()
}
