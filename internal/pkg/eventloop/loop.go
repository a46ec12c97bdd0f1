// Package eventloop runs work on a single goroutine. Tasks are executed one at a time in
// the order they were queued, so nothing posted to a Loop ever overlaps.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrStopped is returned when work is handed to a loop that is no longer running
var ErrStopped = errors.New("event loop stopped")

type task struct {
	fn   func() error
	done chan error // nil for fire-and-forget posts
}

// Loop is a cooperative single-goroutine executor.
type Loop struct {
	queue    chan task
	stop     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
	logger   zerolog.Logger
}

// New creates a loop whose queue holds up to buffer pending tasks.
func New(buffer int, logger zerolog.Logger) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		queue:  make(chan task, buffer),
		stop:   make(chan struct{}),
		exited: make(chan struct{}),
		logger: logger,
	}
}

// Run executes queued tasks until ctx is cancelled or Stop is called. A task that is
// running when that happens finishes first. Run must only be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.exited)
	l.logger.Debug().Msg("Event loop started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug().Msg("Event loop context cancelled")
			return ctx.Err()
		case <-l.stop:
			l.logger.Debug().Msg("Event loop stopped")
			return nil
		case t := <-l.queue:
			err := l.exec(t.fn)
			if t.done != nil {
				t.done <- err
			} else if err != nil {
				l.logger.Error().Err(err).Msg("Posted task failed")
			}
		}
	}
}

func (l *Loop) exec(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn()
}

// Post queues fn without waiting for it. It reports false when the queue is full or the
// loop has stopped; the task is dropped in both cases.
func (l *Loop) Post(fn func()) bool {
	t := task{fn: func() error { fn(); return nil }}
	select {
	case <-l.stop:
		return false
	default:
	}
	select {
	case l.queue <- t:
		return true
	default:
		l.logger.Debug().Msg("Event loop queue full, dropping posted task")
		return false
	}
}

// Do queues fn and blocks until it has run, returning its error.
// It must not be called from a task running on the same loop.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	select {
	case l.queue <- task{fn: fn, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stop:
		return ErrStopped
	case <-l.exited:
		return ErrStopped
	}

	select {
	case err := <-done:
		return err
	case <-l.exited:
		// the loop may have finished this task right before exiting
		select {
		case err := <-done:
			return err
		default:
			return ErrStopped
		}
	}
}

// Stop asks the loop to return after the running task. It is safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Done is closed once Run has returned
func (l *Loop) Done() <-chan struct{} {
	return l.exited
}
