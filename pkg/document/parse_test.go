package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

func TestSplit(t *testing.T) {
	doc := "# Title\n\nSome prose.\n\n~~~~\nvar x = flip()\n\nx\n~~~~\n\nMore prose.\n\n```js\nconsole.log(1)\n```"
	got := Split(doc)
	assert.Equal(t, []Segment{
		{Kind: blocks.KindText, Content: "# Title\n\nSome prose."},
		{Kind: blocks.KindCode, Content: "var x = flip()\n\nx"},
		{Kind: blocks.KindText, Content: "More prose."},
		{Kind: blocks.KindCode, Content: "console.log(1)"},
	}, got)
}

func TestSplitUnterminatedFence(t *testing.T) {
	got := Split("intro\n~~~~\nx = 1")
	require.Len(t, got, 2)
	assert.Equal(t, Segment{Kind: blocks.KindCode, Content: "x = 1"}, got[1])
}

func TestSplitRoundTrip(t *testing.T) {
	doc, err := Render(store.Default().CurrentBlocks())
	require.NoError(t, err)

	coll := Collection(Split(doc))
	require.NoError(t, coll.Validate())
	assert.Equal(t, 2, coll.Len())

	again, err := Render(coll)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestSplitEmpty(t *testing.T) {
	assert.Empty(t, Split(""))
	assert.Empty(t, Split("\n\n  \n"))
}
