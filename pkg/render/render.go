// Package render turns blocks and generated documents into HTML previews.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
)

// Renderer converts markdown to HTML.
type Renderer struct {
	md       goldmark.Markdown
	language string // set when code blocks are highlighted
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	unsafe   bool
	style    string
	language string
}

// WithUnsafe lets raw HTML embedded in prose blocks through.
func WithUnsafe() Option {
	return func(o *options) { o.unsafe = true }
}

// WithHighlighting colours code with the named chroma style. Code blocks are
// highlighted as language; fenced code in prose uses its own info string.
func WithHighlighting(style, language string) Option {
	return func(o *options) {
		o.style = style
		o.language = language
	}
}

// New creates a renderer with GitHub-flavoured markdown enabled.
func New(opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var rendererOpts []goldmark.Option
	rendererOpts = append(rendererOpts, goldmark.WithExtensions(extension.GFM))
	if o.style != "" {
		rendererOpts = append(rendererOpts, goldmark.WithExtensions(
			highlighting.NewHighlighting(highlighting.WithStyle(o.style)),
		))
	}
	if o.unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}
	r := &Renderer{md: goldmark.New(rendererOpts...)}
	if o.style != "" {
		r.language = o.language
		if r.language == "" {
			r.language = "javascript"
		}
	}
	return r
}

// Markdown renders a markdown string.
func (r *Renderer) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Block renders one block: prose through markdown, code verbatim inside a
// pre element.
func (r *Renderer) Block(b blocks.Block) (string, error) {
	switch b.Kind {
	case blocks.KindText:
		return r.Markdown(b.Content)
	case blocks.KindCode:
		if r.language != "" {
			fence := fenceFor(b.Content)
			return r.Markdown(fence + r.language + "\n" + b.Content + "\n" + fence)
		}
		return "<pre><code>" + html.EscapeString(b.Content) + "</code></pre>\n", nil
	default:
		return "", fmt.Errorf("render block %d: %w", b.ID, blocks.ErrUnknownBlockType)
	}
}

// Blocks renders blocks in the given order, each wrapped in a div carrying
// the block kind as a class and the id as a data attribute.
func (r *Renderer) Blocks(list []blocks.Block) (string, error) {
	var sb strings.Builder
	for _, b := range list {
		body, err := r.Block(b)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "<div class=\"editorBlock %sBlock\" data-block=\"%d\">\n%s</div>\n", b.Kind, b.ID, body)
	}
	return sb.String(), nil
}

// fenceFor returns a tilde fence longer than any tilde run inside content.
func fenceFor(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '~' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("~", max(4, longest+1))
}
