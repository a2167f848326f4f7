package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/preview/internal/core/eventbus"
	"github.com/colonyops/preview/internal/core/loop"
)

// loopTaskMsg carries one task posted to the preview event loop. Tasks are
// executed inside Update so the registry is only touched from the Bubble
// Tea goroutine.
type loopTaskMsg struct {
	fn func()
}

type loopClosedMsg struct{}

// busMsg is an app-level notification forwarded from the event bus.
type busMsg struct {
	level   toastLevel
	message string
}

func waitForTask(ctx context.Context, l *loop.Loop) tea.Cmd {
	return func() tea.Msg {
		fn, err := l.Next(ctx)
		if err != nil {
			return loopClosedMsg{}
		}
		return loopTaskMsg{fn: fn}
	}
}

func waitForBus(ctx context.Context, ch <-chan busMsg) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// bridgeBus subscribes to the bus events worth surfacing as toasts. Sends
// never block the bus goroutine; excess notifications are dropped.
func bridgeBus(bus *eventbus.EventBus, ch chan<- busMsg) {
	if bus == nil {
		return
	}

	send := func(msg busMsg) {
		select {
		case ch <- msg:
		default:
		}
	}

	bus.SubscribePreviewRestored(func(p eventbus.PreviewRestoredPayload) {
		send(busMsg{level: toastInfo, message: fmt.Sprintf("restored %s in slot %d", p.Resource, p.Slot)})
	})
	bus.SubscribeConfigReloaded(func(p eventbus.ConfigReloadedPayload) {
		send(busMsg{level: toastInfo, message: "config reloaded from " + p.Path})
	})
}
