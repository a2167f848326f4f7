package tui

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToastController_Push(t *testing.T) {
	c := NewToastController()

	c.Push(toastInfo, "hello")

	assert.True(t, c.HasToasts())
	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "hello", c.Toasts()[0].message)
	assert.Equal(t, defaultToastTTL, c.Toasts()[0].remaining)
}

func TestToastController_Push_evicts_oldest_at_max(t *testing.T) {
	c := NewToastController()

	for i := range defaultMaxToasts + 2 {
		c.Push(toastInfo, fmt.Sprintf("toast %d", i))
	}

	assert.Len(t, c.Toasts(), defaultMaxToasts)
	assert.Equal(t, "toast 2", c.Toasts()[0].message)
}

func TestToastController_Tick_removes_expired(t *testing.T) {
	c := NewToastController()
	c.Push(toastInfo, "expires")
	c.Tick(time.Second)
	c.Push(toastInfo, "survives")

	c.Tick(defaultToastTTL - time.Second)

	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "survives", c.Toasts()[0].message)
}

func TestToastController_Dismiss(t *testing.T) {
	c := NewToastController()
	c.Push(toastInfo, "first")
	c.Push(toastError, "second")

	c.Dismiss()
	assert.Len(t, c.Toasts(), 1)
	assert.Equal(t, "first", c.Toasts()[0].message)

	c.Dismiss()
	c.Dismiss()
	assert.False(t, c.HasToasts())
}

func TestToastController_View(t *testing.T) {
	c := NewToastController()
	assert.Empty(t, c.View(80))

	c.Push(toastWarning, "careful")
	c.Push(toastError, "broken")

	view := c.View(80)
	assert.Contains(t, view, "careful")
	assert.Contains(t, view, "broken")
}
