// Package loop provides the single event-processing context that every
// preview registry and session operation runs on. Work that must not block
// the loop (rendering) runs on its own goroutine and hands a completion back
// to the loop, so all state mutation stays on one goroutine.
package loop

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by Next and TryPost once the loop has been closed.
	ErrClosed = errors.New("loop closed")
	// ErrFull is returned by TryPost when the task buffer is full.
	ErrFull = errors.New("loop buffer full")
)

// Executor runs work off the loop and applies its completion on the loop.
type Executor interface {
	Go(work func() func())
}

// Loop is a FIFO task queue consumed by exactly one goroutine, either via Run
// or by an external driver calling Next and Exec.
type Loop struct {
	ch   chan func()
	done chan struct{}
	once sync.Once

	hooks hooks
}

// New creates a loop with the given task buffer size.
func New(buffer int) *Loop {
	return &Loop{
		ch:   make(chan func(), buffer),
		done: make(chan struct{}),
	}
}

// Post enqueues fn for execution on the loop. It blocks while the buffer is
// full and returns false if the loop is closed before fn is queued. Post must not be called from the
// loop goroutine itself.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		l.runOnDrop()
		return false
	default:
	}

	select {
	case l.ch <- fn:
		return true
	case <-l.done:
		l.runOnDrop()
		return false
	}
}

// TryPost enqueues fn without blocking. It returns ErrFull when the buffer is
// full and ErrClosed when the loop is closed; both are reported to OnDrop hooks.
func (l *Loop) TryPost(fn func()) error {
	select {
	case <-l.done:
		l.runOnDrop()
		return ErrClosed
	default:
	}

	select {
	case l.ch <- fn:
		return nil
	default:
		l.runOnDrop()
		return ErrFull
	}
}

// Go runs work on a new goroutine and posts the completion it returns.
// A nil completion is not posted. Completions that arrive after Close are
// dropped, so work must release its own resources before returning.
func (l *Loop) Go(work func() func()) {
	go func() {
		if done := work(); done != nil {
			l.Post(done)
		}
	}()
}

// Run executes tasks in arrival order until ctx is cancelled or Close is
// called. Tasks still queued at that point are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.ch:
			l.Exec(fn)
		}
	}
}

// Next blocks until a task is available. Drivers that own their own event
// loop call Next from a background goroutine and Exec the task on theirs.
func (l *Loop) Next(ctx context.Context) (func(), error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.done:
		return nil, ErrClosed
	case fn := <-l.ch:
		return fn, nil
	}
}

// Exec runs fn, recovering and reporting panics through OnPanic hooks.
func (l *Loop) Exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.runOnPanic(r)
		}
	}()
	fn()
}

// Close stops the loop. Later posts are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

// Immediate runs work and its completion inline on the caller's goroutine.
// One-shot commands and tests use it where no loop is running.
type Immediate struct{}

// Go implements Executor.
func (Immediate) Go(work func() func()) {
	if done := work(); done != nil {
		done()
	}
}
