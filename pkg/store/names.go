package store

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// nameKey returns the form under which two file names are considered equal:
// trimmed, NFC-normalised and case-folded, so "Notes", "notes " and a
// decomposed "Notés" all collide.
func nameKey(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// CleanName trims surrounding whitespace and normalises the name to NFC.
func CleanName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
