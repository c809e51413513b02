package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Work is a unit of work run by the scheduler.
type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

type workRequest[T any] struct {
	fn     Work[T]
	c      chan Result[T]
	ctx    context.Context
	cancel context.CancelFunc
}

func (r workRequest[T]) reject() {
	r.c <- Result[T]{Err: context.Canceled}
	r.cancel()
}

// Scheduler runs work on a fixed number of workers. Work is started in the
// order it was added.
type Scheduler[T any] struct {
	idle       int
	workQueue  *queue[workRequest[T]]
	work       chan workRequest[T]
	done       chan struct{}
	close      chan struct{}
	stopped    chan struct{}
	running    sync.WaitGroup
	closeOnce  sync.Once
	mainCtx    context.Context
	mainCancel context.CancelFunc
}

func NewScheduler[T any](nbWorkers int) *Scheduler[T] {
	if nbWorkers < 1 {
		nbWorkers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler[T]{
		idle:       nbWorkers,
		workQueue:  &queue[workRequest[T]]{},
		work:       make(chan workRequest[T]),
		done:       make(chan struct{}),
		close:      make(chan struct{}),
		stopped:    make(chan struct{}),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	go s.run()
	return s
}

// AddWork queues w. Once the scheduler is closed the returned future resolves
// with context.Canceled.
func (s *Scheduler[T]) AddWork(w Work[T]) *Future[T] {
	c := make(chan Result[T], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)
	r := workRequest[T]{fn: w, c: c, ctx: ctx, cancel: cancel}

	select {
	case s.work <- r:
	case <-s.mainCtx.Done():
		r.reject()
	}

	return newFuture(c, cancel)
}

// Close cancels all work, drops queued work and waits for running work to
// return.
func (s *Scheduler[T]) Close() {
	s.closeOnce.Do(func() {
		s.mainCancel()
		s.close <- struct{}{}
		<-s.stopped
		s.running.Wait()
	})
}

func (s *Scheduler[T]) run() {
	defer close(s.stopped)

	for {
		select {
		case r := <-s.work:
			if s.mainCtx.Err() != nil {
				r.reject()
				continue
			}
			s.workQueue.Push(r)
			s.dispatch()
		case <-s.done:
			s.idle++
			s.dispatch()
		case <-s.close:
			for s.workQueue.Len() > 0 {
				s.workQueue.Pop().reject()
			}
			return
		}
	}
}

func (s *Scheduler[T]) dispatch() {
	for s.idle > 0 && s.workQueue.Len() > 0 {
		r := s.workQueue.Pop()
		if s.mainCtx.Err() != nil {
			r.reject()
			continue
		}
		s.idle--
		s.running.Add(1)
		go s.execute(r)
	}
}

func (s *Scheduler[T]) execute(r workRequest[T]) {
	defer s.running.Done()

	r.c <- s.call(r)
	r.cancel()

	select {
	case s.done <- struct{}{}:
	case <-s.stopped:
	}
}

func (s *Scheduler[T]) call(r workRequest[T]) (result Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			zap.S().Named("scheduler").Errorw("work panicked", "panic", p)
			result = Result[T]{Err: fmt.Errorf("worker panicked: %v", p)}
		}
	}()

	v, err := r.fn(r.ctx)
	return Result[T]{Data: v, Err: err}
}
