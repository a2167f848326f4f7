package loop

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type hooks struct {
	mu      sync.RWMutex
	onDrop  []func()
	onPanic []func(any)
}

// OnDrop registers a hook that fires when a task is not queued: the loop is
// closed, or TryPost found the buffer full.
func (l *Loop) OnDrop(fn func()) {
	l.hooks.mu.Lock()
	l.hooks.onDrop = append(l.hooks.onDrop, fn)
	l.hooks.mu.Unlock()
}

// OnPanic registers a hook that fires when a task panics.
func (l *Loop) OnPanic(fn func(recovered any)) {
	l.hooks.mu.Lock()
	l.hooks.onPanic = append(l.hooks.onPanic, fn)
	l.hooks.mu.Unlock()
}

func (l *Loop) runOnDrop() {
	l.hooks.mu.RLock()
	hooks := make([]func(), len(l.hooks.onDrop))
	copy(hooks, l.hooks.onDrop)
	l.hooks.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

func (l *Loop) runOnPanic(recovered any) {
	l.hooks.mu.RLock()
	hooks := make([]func(any), len(l.hooks.onPanic))
	copy(hooks, l.hooks.onPanic)
	l.hooks.mu.RUnlock()
	for _, fn := range hooks {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(recovered)
		}()
	}
}

// RegisterDebugLogger logs dropped tasks and task panics.
func RegisterDebugLogger(l *Loop, logger zerolog.Logger) {
	l.OnDrop(func() {
		logger.Debug().Msg("task dropped")
	})

	l.OnPanic(func(recovered any) {
		logger.Error().
			Str("panic", fmt.Sprint(recovered)).
			Msg("loop task panicked")
	})
}
