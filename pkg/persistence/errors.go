package persistence

import "errors"

var (
	// ErrCorruptPayload indicates a stored payload that is not a JSON editor
	// state in either the current or the legacy schema.
	ErrCorruptPayload = errors.New("corrupt editor state payload")

	// ErrNotFound indicates that the storage has no value under the key.
	ErrNotFound = errors.New("no stored value")
)
