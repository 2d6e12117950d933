// Package blocks holds the typed blocks of a single file and their order.
package blocks

import (
	"fmt"
	"strings"
)

// Kind tags a block as prose or code.
type Kind uint8

const (
	// KindText is a prose block, rendered as markdown.
	KindText Kind = iota + 1
	// KindCode is a code block, fenced in the generated document.
	KindCode
)

const (
	kindText = "text"
	kindCode = "code"
)

// ParseKind maps a stored type tag onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case kindText:
		return KindText, nil
	case kindCode:
		return KindCode, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBlockType, s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindText:
		return kindText
	case KindCode:
		return kindCode
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the two block kinds.
func (k Kind) Valid() bool {
	return k == KindText || k == KindCode
}

// MarshalText encodes the kind as its storage tag.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlockType, k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a storage tag.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Block is one unit of content in a file.
type Block struct {
	ID          int    `json:"id"`
	Kind        Kind   `json:"type"`
	Content     string `json:"content"`
	OrderingKey int    `json:"orderingKey"`
}

// Direction is the way a block moves within its file.
type Direction int

const (
	Up Direction = iota + 1
	Down
)

// ParseDirection accepts "up" and "down" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}
