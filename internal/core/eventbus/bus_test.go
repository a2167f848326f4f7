package eventbus_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/preview/internal/core/eventbus"
)

// Run with -race: hooks registered while other goroutines publish.
func TestEventBus_HooksRegisteredDuringPublish(t *testing.T) {
	bus := eventbus.New(4)

	var published, dropped atomic.Int32
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				bus.PublishPreviewDisposed(eventbus.PreviewDisposedPayload{PanelID: "p"})
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				bus.OnPublish(func(eventbus.Event, any) { published.Add(1) })
				bus.OnDrop(func(eventbus.Event, any) { dropped.Add(1) })
			}
		}()
	}
	wg.Wait()

	bus.PublishPreviewDisposed(eventbus.PreviewDisposedPayload{PanelID: "last"})
	assert.Positive(t, dropped.Load(), "buffer of 4 overflows without a dispatcher")
}

func TestEventBus_DropHookFiresWhenFull(t *testing.T) {
	bus := eventbus.New(1)

	var events []eventbus.Event
	bus.OnDrop(func(e eventbus.Event, _ any) { events = append(events, e) })

	bus.PublishPreviewOpened(eventbus.PreviewOpenedPayload{PanelID: "a"})
	bus.PublishPreviewDisposed(eventbus.PreviewDisposedPayload{PanelID: "a"})

	assert.Equal(t, []eventbus.Event{eventbus.EventPreviewDisposed}, events)
}
