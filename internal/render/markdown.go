// Package render turns preview resources into terminal output.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/colonyops/preview/internal/core/display"
	"github.com/colonyops/preview/internal/core/logging"
	"github.com/colonyops/preview/internal/core/preview"
	"github.com/colonyops/preview/internal/core/styles"
)

// ErrUnsupportedResource is returned for resources that are not local files.
var ErrUnsupportedResource = errors.New("unsupported resource")

// MinWordWrap is the narrowest wrap width handed to glamour.
const MinWordWrap = 20

var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".mkd":      true,
}

// IsMarkdown reports whether path has a markdown extension.
func IsMarkdown(path string) bool {
	return markdownExts[strings.ToLower(filepath.Ext(path))]
}

type rendererKey struct {
	theme string
	wrap  int
}

// Markdown renders file resources with glamour. Files that are not markdown
// are shown as a fenced code block. Renderers are cached per theme and wrap
// width; glamour renderers are not shared across goroutines, so rendering
// is serialized.
type Markdown struct {
	mu        sync.Mutex
	renderers map[rendererKey]*glamour.TermRenderer
	readFile  func(string) ([]byte, error)
	log       zerolog.Logger
}

var _ preview.Renderer = (*Markdown)(nil)

// NewMarkdown creates a markdown renderer reading from the local filesystem.
func NewMarkdown() *Markdown {
	return &Markdown{
		renderers: make(map[rendererKey]*glamour.TermRenderer),
		readFile:  os.ReadFile,
		log:       logging.Component("render"),
	}
}

// Render implements preview.Renderer.
func (m *Markdown) Render(ctx context.Context, resource preview.Resource, rc preview.RenderContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(string(resource), "file://") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedResource, resource)
	}

	data, err := m.readFile(resource.Path())
	if err != nil {
		return "", fmt.Errorf("read %s: %w", resource.Base(), err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source := string(data)
	if !IsMarkdown(resource.Path()) {
		ext := strings.ToLower(filepath.Ext(resource.Path()))
		source = fence(source, strings.TrimPrefix(ext, "."))
	}

	out, err := m.render(rc.Settings, source)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", resource.Base(), err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.log.Debug().
		Ctx(ctx).
		Int("bytes", len(data)).
		Str("theme", rc.Settings.Theme).
		Msg("rendered")
	return out, nil
}

func (m *Markdown) render(settings display.Settings, source string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := rendererKey{theme: settings.Theme, wrap: max(settings.WordWrap, MinWordWrap)}
	tr, ok := m.renderers[key]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			themeOption(key.theme),
			glamour.WithWordWrap(key.wrap),
		)
		if err != nil {
			return "", err
		}
		m.renderers[key] = tr
	}

	return tr.Render(source)
}

// themeOption maps a theme name to a glamour style. Built-in palette names
// derive a style from the palette; anything else is a glamour standard style.
func themeOption(theme string) glamour.TermRendererOption {
	if theme == "" {
		theme = "auto"
	}
	if p, ok := styles.GetPalette(theme); ok {
		return glamour.WithStyles(styles.GlamourStyle(p))
	}
	return glamour.WithStandardStyle(theme)
}

func fence(source, lang string) string {
	marker := "```"
	for strings.Contains(source, marker) {
		marker += "`"
	}
	return marker + lang + "\n" + strings.TrimRight(source, "\n") + "\n" + marker + "\n"
}
