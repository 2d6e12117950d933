package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/document"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

func TestMarkdown(t *testing.T) {
	out, err := New().Markdown("*Click here* to edit me!")
	require.NoError(t, err)
	assert.Equal(t, "<p><em>Click here</em> to edit me!</p>\n", out)
}

func TestRawHTMLIsOmittedByDefault(t *testing.T) {
	out, err := New().Markdown("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")

	out, err = New(WithUnsafe()).Markdown("<b>bold</b>")
	require.NoError(t, err)
	assert.Contains(t, out, "<b>bold</b>")
}

func TestCodeBlockIsEscaped(t *testing.T) {
	out, err := New().Block(blocks.Block{ID: 2, Kind: blocks.KindCode, Content: `if a < b { print("x") }`})
	require.NoError(t, err)
	assert.Equal(t, "<pre><code>if a &lt; b { print(&#34;x&#34;) }</code></pre>\n", out)

	_, err = New().Block(blocks.Block{Kind: blocks.Kind(5)})
	assert.True(t, errors.Is(err, blocks.ErrUnknownBlockType))
}

func TestBlocks(t *testing.T) {
	out, err := New().Blocks(store.Default().CurrentBlocks().Ordered())
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="editorBlock textBlock" data-block="1">`)
	assert.Contains(t, out, `<div class="editorBlock codeBlock" data-block="2">`)
	assert.Less(t, strings.Index(out, `data-block="1"`), strings.Index(out, `data-block="2"`))
}

func TestGeneratedDocumentRendersFences(t *testing.T) {
	doc, err := document.Render(store.Default().CurrentBlocks())
	require.NoError(t, err)

	out, err := New().Markdown(doc)
	require.NoError(t, err)
	assert.Contains(t, out, "<pre><code>print(&quot;hello world!&quot;)\n</code></pre>")
}

func TestHighlighting(t *testing.T) {
	r := New(WithHighlighting("github", ""))
	out, err := r.Block(blocks.Block{ID: 1, Kind: blocks.KindCode, Content: "var x = flip() // ~~~~"})
	require.NoError(t, err)
	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "<span")
	assert.Contains(t, out, "flip")
	assert.NotContains(t, out, "~~~~~")
}

func TestFenceFor(t *testing.T) {
	assert.Equal(t, "~~~~", fenceFor("plain"))
	assert.Equal(t, "~~~~~~", fenceFor("a ~~~~~ b ~~"))
}
