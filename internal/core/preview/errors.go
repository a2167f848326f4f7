package preview

import "errors"

var (
	// ErrInvalidPanel is returned when a panel handle no longer refers to a live host panel.
	ErrInvalidPanel = errors.New("panel is no longer valid")
	// ErrInvalidState is returned when a persisted state blob cannot be decoded.
	ErrInvalidState = errors.New("invalid preview state")
	// ErrNotFound is returned by state stores for unknown panel IDs.
	ErrNotFound = errors.New("not found")
)
