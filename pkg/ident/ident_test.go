package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name string
		keys []int
		want int
	}{
		{"empty", nil, 0},
		{"single zero", []int{0}, 1},
		{"unordered", []int{3, 1, 7, 2}, 8},
		{"gap below max is not reused", []int{0, 5}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.keys)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, tt.keys, got)
		})
	}
}

func TestNextKey(t *testing.T) {
	assert.Equal(t, 0, NextKey(map[int]string{}))
	assert.Equal(t, 3, NextKey(map[int]string{0: "a", 2: "b"}))
}

func TestNextFromStrings(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"empty", nil, 0},
		{"numeric", []string{"1", "2"}, 3},
		{"malformed keys ignored", []string{"1", "abc", "", "-4", "9x"}, 2},
		{"only malformed", []string{"new", "x"}, 0},
		{"surrounding space", []string{" 4 "}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextFromStrings(tt.keys))
		})
	}
}

func TestParseFormat(t *testing.T) {
	id, ok := Parse(Format(42))
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	_, ok = Parse("1.5")
	assert.False(t, ok)
}
