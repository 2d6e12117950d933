package store

import "errors"

// File validation errors. These are surfaced to the user.
var (
	// ErrProtectedFile indicates an attempt to rename or delete the default file.
	ErrProtectedFile = errors.New("default file cannot be changed")

	// ErrEmptyName indicates a blank or whitespace-only file name.
	ErrEmptyName = errors.New("file name is empty")

	// ErrDuplicateName indicates that another file already uses the name.
	ErrDuplicateName = errors.New("file name already exists")
)

// Lookup errors. Callers usually treat these as no-ops.
var (
	// ErrNotFound indicates that no file carries the requested id.
	ErrNotFound = errors.New("file not found")
)

// ErrInvalidState indicates a snapshot that breaks the store invariants.
var ErrInvalidState = errors.New("invalid editor state")
