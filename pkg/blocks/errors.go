package blocks

import "errors"

var (
	// ErrNotFound indicates that no block carries the requested id.
	ErrNotFound = errors.New("block not found")

	// ErrUnknownBlockType indicates a stored block whose type tag is neither
	// "code" nor "text".
	ErrUnknownBlockType = errors.New("unknown block type")

	// ErrUnknownDirection indicates a move direction other than up or down.
	ErrUnknownDirection = errors.New("unknown direction")
)
