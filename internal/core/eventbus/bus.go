package eventbus

import (
	"context"
	"sync"
)

// Event names a published event.
type Event string

const (
	EventConfigReloaded   Event = "config.reloaded"
	EventContextChanged   Event = "context.changed"
	EventPreviewActivated Event = "preview.activated"
	EventPreviewDisposed  Event = "preview.disposed"
	EventPreviewOpened    Event = "preview.opened"
	EventPreviewRestored  Event = "preview.restored"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches published events to subscribers from a single goroutine
// started with Start. Publishing never blocks; events are dropped when the
// buffer is full.
type EventBus struct {
	ch chan envelope

	mu   sync.RWMutex
	subs map[Event][]func(any)

	hooksMu     sync.RWMutex
	onPublish   []func(Event, any)
	onDrop      []func(Event, any)
	onSubscribe []func(Event)
	onPanic     []func(Event, any, any)
}

// New creates a bus with the given buffer size.
func New(buffer int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()

	bus.hooksMu.RLock()
	hooks := make([]func(Event), len(bus.onSubscribe))
	copy(hooks, bus.onSubscribe)
	bus.hooksMu.RUnlock()
	for _, h := range hooks {
		h(event)
	}
}

// send enqueues an event and fires hooks.
func (bus *EventBus) send(event Event, payload any) {
	if bus == nil {
		return
	}
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.runHooks(func() []func(Event, any) { return bus.onPublish }, event, payload)
	default:
		bus.runHooks(func() []func(Event, any) { return bus.onDrop }, event, payload)
	}
}

// OnPublish registers a hook that fires after an event is enqueued.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	bus.hooksMu.Lock()
	bus.onPublish = append(bus.onPublish, fn)
	bus.hooksMu.Unlock()
}

// OnDrop registers a hook that fires when an event is dropped due to a full buffer.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	bus.hooksMu.Lock()
	bus.onDrop = append(bus.onDrop, fn)
	bus.hooksMu.Unlock()
}

// OnSubscribe registers a hook that fires after a subscriber is registered.
func (bus *EventBus) OnSubscribe(fn func(Event)) {
	bus.hooksMu.Lock()
	bus.onSubscribe = append(bus.onSubscribe, fn)
	bus.hooksMu.Unlock()
}

// OnPanic registers a hook that fires when a subscriber panics.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	bus.hooksMu.Lock()
	bus.onPanic = append(bus.onPanic, fn)
	bus.hooksMu.Unlock()
}

// runHooks reads the hook list through list while holding hooksMu.
func (bus *EventBus) runHooks(list func() []func(Event, any), event Event, payload any) {
	bus.hooksMu.RLock()
	src := list()
	hooks := make([]func(Event, any), len(src))
	copy(hooks, src)
	bus.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(event, payload)
	}
}

func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	bus.hooksMu.RLock()
	hooks := make([]func(Event, any, any), len(bus.onPanic))
	copy(hooks, bus.onPanic)
	bus.hooksMu.RUnlock()
	for _, fn := range hooks {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(event, payload, recovered)
		}()
	}
}
