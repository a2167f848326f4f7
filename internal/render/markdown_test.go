package render

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/preview/internal/core/display"
	"github.com/colonyops/preview/internal/core/preview"
)

func plain() preview.RenderContext {
	return preview.RenderContext{Settings: display.Settings{Theme: "notty", WordWrap: 80}}
}

func writeDoc(t *testing.T, name, body string) preview.Resource {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return preview.FileResource(path)
}

func TestMarkdown_RendersFile(t *testing.T) {
	r := NewMarkdown()
	doc := writeDoc(t, "readme.md", "# Hello\n\nSome *text* here.\n")

	out, err := r.Render(context.Background(), doc, plain())

	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "text")
}

func TestMarkdown_PaletteTheme(t *testing.T) {
	r := NewMarkdown()
	doc := writeDoc(t, "readme.md", "plain paragraph\n")
	rc := plain()
	rc.Settings.Theme = "tokyo-night"

	out, err := r.Render(context.Background(), doc, rc)

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestMarkdown_UnknownTheme(t *testing.T) {
	r := NewMarkdown()
	doc := writeDoc(t, "readme.md", "# Hello\n")
	rc := plain()
	rc.Settings.Theme = "no-such-style"

	_, err := r.Render(context.Background(), doc, rc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "readme.md")
}

func TestMarkdown_NonMarkdownIsFenced(t *testing.T) {
	r := NewMarkdown()
	doc := writeDoc(t, "main.go", "package main\n")

	out, err := r.Render(context.Background(), doc, plain())

	require.NoError(t, err)
	assert.Contains(t, out, "package main")
}

func TestMarkdown_MissingFile(t *testing.T) {
	r := NewMarkdown()
	doc := preview.FileResource(filepath.Join(t.TempDir(), "gone.md"))

	_, err := r.Render(context.Background(), doc, plain())

	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "gone.md")
}

func TestMarkdown_UnsupportedResource(t *testing.T) {
	r := NewMarkdown()

	_, err := r.Render(context.Background(), preview.Resource("untitled:Untitled-1"), plain())

	require.ErrorIs(t, err, ErrUnsupportedResource)
}

func TestMarkdown_CancelledContext(t *testing.T) {
	r := NewMarkdown()
	reads := 0
	r.readFile = func(string) ([]byte, error) {
		reads++
		return []byte("# x"), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, preview.Resource("file:///a.md"), plain())

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, reads)
}

func TestMarkdown_CachesRenderers(t *testing.T) {
	r := NewMarkdown()
	r.readFile = func(string) ([]byte, error) { return []byte("# x"), nil }

	narrow := plain()
	narrow.Settings.WordWrap = 5 // clamped to MinWordWrap

	for _, rc := range []preview.RenderContext{plain(), plain(), narrow, narrow} {
		_, err := r.Render(context.Background(), preview.Resource("file:///a.md"), rc)
		require.NoError(t, err)
	}

	assert.Len(t, r.renderers, 2)
	assert.Contains(t, r.renderers, rendererKey{theme: "notty", wrap: MinWordWrap})
}

func TestFence(t *testing.T) {
	tests := []struct {
		name   string
		source string
		lang   string
		want   string
	}{
		{name: "simple", source: "a := 1\n", lang: "go", want: "```go\na := 1\n```\n"},
		{name: "nested fence", source: "```\nx\n```", lang: "md", want: "````md\n```\nx\n```\n````\n"},
		{name: "no lang", source: "text", lang: "", want: "```\ntext\n```\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fence(tt.source, tt.lang))
		})
	}
}

func TestErrorView(t *testing.T) {
	out := ErrorView(preview.Resource("file:///docs/broken.md"), errors.New("permission denied"))

	assert.Contains(t, out, "Could not render broken.md")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "/docs/broken.md")
}
