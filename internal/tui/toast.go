package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/preview/internal/core/styles"
)

const (
	defaultToastTTL   = 4 * time.Second
	defaultMaxToasts  = 3
	toastTickInterval = 100 * time.Millisecond
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastWarning
	toastError
)

type toast struct {
	level     toastLevel
	message   string
	remaining time.Duration
}

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastController manages the lifecycle of status toasts shown above the
// status bar. It handles push, eviction, TTL countdown, and dismissal.
type ToastController struct {
	toasts  []toast
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Push adds a toast. The oldest toast is evicted past defaultMaxToasts.
func (c *ToastController) Push(level toastLevel, message string) {
	c.toasts = append(c.toasts, toast{
		level:     level,
		message:   message,
		remaining: defaultToastTTL,
	})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
}

// Tick decrements the remaining TTL on all toasts by d and removes
// any that have expired.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

func (c *ToastController) Toasts() []toast {
	return c.toasts
}

func (c *ToastController) Ticking() bool {
	return c.ticking
}

func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}

// View renders the toast stack oldest first, one line each.
func (c *ToastController) View(width int) string {
	if len(c.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(c.toasts))
	for _, t := range c.toasts {
		lines = append(lines, renderToast(t, width))
	}
	return strings.Join(lines, "\n")
}

func renderToast(t toast, width int) string {
	var style lipgloss.Style
	switch t.level {
	case toastError:
		style = styles.TextErrorStyle
	case toastWarning:
		style = styles.TextWarningStyle
	default:
		style = styles.TextSuccessStyle
	}
	return style.MaxWidth(width).Render("• " + t.message)
}
