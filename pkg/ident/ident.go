// Package ident allocates integer identifiers for blocks and files.
package ident

import (
	"strconv"
	"strings"
)

// Next returns max(keys)+1, or 0 when there are no keys.
// Identifiers below the current maximum are never handed out again, so a
// deleted id is not reused while a larger one survives.
func Next(keys []int) int {
	if len(keys) == 0 {
		return 0
	}
	highest := keys[0]
	for _, k := range keys[1:] {
		if k > highest {
			highest = k
		}
	}
	return highest + 1
}

// NextKey is Next over the keys of an integer-keyed map.
func NextKey[V any](m map[int]V) int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return Next(keys)
}

// NextFromStrings parses the given keys as integers and returns Next over the
// ones that parse. Malformed keys are treated as absent.
func NextFromStrings(keys []string) int {
	parsed := make([]int, 0, len(keys))
	for _, k := range keys {
		if id, ok := Parse(k); ok {
			parsed = append(parsed, id)
		}
	}
	return Next(parsed)
}

// Parse converts a stored key into an identifier. Negative and non-numeric
// keys are rejected.
func Parse(key string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// Format renders an identifier as a storage key.
func Format(id int) string {
	return strconv.Itoa(id)
}
