package eventbus_test

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/preview/internal/core/eventbus"
	"github.com/colonyops/preview/internal/core/eventbus/testbus"
)

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	// Register with a nop logger, verifies no panic.
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.Nop())

	tb.PublishPreviewOpened(eventbus.PreviewOpenedPayload{PanelID: "p1", Resource: "file:///a.md"})
	tb.PublishContextChanged(eventbus.ContextChangedPayload{Key: "markdownPreviewFocus", Value: true})
	tb.PublishPreviewDisposed(eventbus.PreviewDisposedPayload{PanelID: "p1"})

	tb.AssertPublished(t, eventbus.EventPreviewDisposed)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Contains(s string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Contains(b.buf.Bytes(), []byte(s))
}

func TestRegisterDebugLogger_LogsPanics(t *testing.T) {
	var (
		buf    syncBuffer
		logger = zerolog.New(&buf)
	)

	tb := testbus.New(t)
	eventbus.RegisterDebugLogger(tb.EventBus, logger)

	tb.SubscribePreviewActivated(func(eventbus.PreviewActivatedPayload) {
		panic("subscriber failure")
	})
	tb.PublishPreviewActivated(eventbus.PreviewActivatedPayload{PanelID: "p1"})

	tb.AssertPublished(t, eventbus.EventPreviewActivated)
	assert.Eventually(t, func() bool {
		return buf.Contains("subscriber panicked")
	}, time.Second, 5*time.Millisecond)
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := eventbus.New(1)

	dropped := 0
	bus.OnDrop(func(eventbus.Event, any) { dropped++ })

	// Not started, so the second publish cannot be buffered.
	bus.PublishConfigReloaded(eventbus.ConfigReloadedPayload{Path: "a"})
	bus.PublishConfigReloaded(eventbus.ConfigReloadedPayload{Path: "b"})

	assert.Equal(t, 1, dropped)
}

func TestEventBus_NilPublishIsNoop(t *testing.T) {
	var bus *eventbus.EventBus
	assert.NotPanics(t, func() {
		bus.PublishPreviewOpened(eventbus.PreviewOpenedPayload{})
	})
}
