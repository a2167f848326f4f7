// Package preview manages live preview sessions. A session binds one document
// resource to one host panel; the Registry decides when a session is reused,
// created, retargeted, evicted as redundant, or restored after a restart.
//
// All methods on Session and Registry must be called from a single event
// loop. Rendering runs off the loop through an Executor and its result is
// applied back on the loop.
package preview

import (
	"path"
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// Resource identifies a document, usually a file URI.
type Resource string

// FileResource converts a filesystem path into a file resource.
func FileResource(p string) Resource {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return Resource(fileScheme + filepath.ToSlash(p))
}

// Path returns the resource without its file scheme.
func (r Resource) Path() string {
	return strings.TrimPrefix(string(r), fileScheme)
}

// Base returns the last element of the resource path.
func (r Resource) Base() string {
	return path.Base(r.Path())
}

func (r Resource) String() string { return string(r) }

// Slot identifies the panel group or column a preview occupies.
type Slot int
