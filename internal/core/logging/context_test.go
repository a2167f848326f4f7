package logging

import (
	"context"
	"testing"
)

func TestWithPanelID(t *testing.T) {
	ctx := WithPanelID(context.Background(), "panel-123")

	if got := GetPanelID(ctx); got != "panel-123" {
		t.Errorf("GetPanelID() = %q, want %q", got, "panel-123")
	}
}

func TestWithResource(t *testing.T) {
	ctx := WithResource(context.Background(), "file:///notes.md")

	if got := GetResource(ctx); got != "file:///notes.md" {
		t.Errorf("GetResource() = %q, want %q", got, "file:///notes.md")
	}
}

func TestContextValues_NotPresent(t *testing.T) {
	ctx := context.Background()

	if got := GetPanelID(ctx); got != "" {
		t.Errorf("GetPanelID() = %q, want empty string", got)
	}
	if got := GetResource(ctx); got != "" {
		t.Errorf("GetResource() = %q, want empty string", got)
	}
}
