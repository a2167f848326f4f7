// Package display holds preview display settings and scopes overrides to
// resources with glob patterns.
package display

import (
	"path"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Settings controls how a resource is presented in a preview.
type Settings struct {
	Theme         string        `yaml:"theme"`
	WordWrap      int           `yaml:"word_wrap"`
	ScrollSync    bool          `yaml:"scroll_sync"`
	RenderTimeout time.Duration `yaml:"render_timeout"`
}

// Override adjusts Settings for resources whose path matches Pattern.
// Nil fields leave the underlying value untouched.
type Override struct {
	Pattern       string         `yaml:"pattern"`
	Theme         *string        `yaml:"theme,omitempty"`
	WordWrap      *int           `yaml:"word_wrap,omitempty"`
	ScrollSync    *bool          `yaml:"scroll_sync,omitempty"`
	RenderTimeout *time.Duration `yaml:"render_timeout,omitempty"`
}

// Matches reports whether the override applies to the resource path p.
// Patterns without a slash are matched against the base name.
func (o Override) Matches(p string) bool {
	pattern := strings.TrimPrefix(o.Pattern, "/")
	target := strings.TrimPrefix(p, "/")
	if !strings.Contains(pattern, "/") {
		target = path.Base(target)
	}
	ok, err := doublestar.Match(pattern, target)
	return err == nil && ok
}

func (o Override) apply(s Settings) Settings {
	if o.Theme != nil {
		s.Theme = *o.Theme
	}
	if o.WordWrap != nil {
		s.WordWrap = *o.WordWrap
	}
	if o.ScrollSync != nil {
		s.ScrollSync = *o.ScrollSync
	}
	if o.RenderTimeout != nil {
		s.RenderTimeout = *o.RenderTimeout
	}
	return s
}

// Store serves the effective Settings for a resource and notifies listeners
// when the configuration is replaced.
type Store struct {
	mu        sync.RWMutex
	global    Settings
	overrides []Override

	nextID    int
	listeners map[int]func()
}

// NewStore creates a store from global settings and ordered overrides.
func NewStore(global Settings, overrides []Override) *Store {
	return &Store{
		global:    global,
		overrides: overrides,
		listeners: make(map[int]func()),
	}
}

// Get returns the settings for resource. Every matching override is applied
// in order, so later overrides win.
func (s *Store) Get(resource string) Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := ResourcePath(resource)
	out := s.global
	for _, o := range s.overrides {
		if o.Matches(p) {
			out = o.apply(out)
		}
	}
	return out
}

// Global returns the settings without overrides.
func (s *Store) Global() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global
}

// Replace swaps in new settings and notifies every listener.
func (s *Store) Replace(global Settings, overrides []Override) {
	s.mu.Lock()
	s.global = global
	s.overrides = overrides
	fns := make([]func(), 0, len(s.listeners))
	for id := 1; id <= s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// OnChange registers fn to run after every Replace. Listeners run in
// registration order.
func (s *Store) OnChange(fn func()) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// ResourcePath strips a file scheme from a resource identifier.
func ResourcePath(resource string) string {
	return strings.TrimPrefix(resource, "file://")
}
