package document

import (
	"strings"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
)

// Segment is a piece of a flattened document that maps back onto one block.
type Segment struct {
	Kind    blocks.Kind
	Content string
}

// Split breaks a flattened document back into blocks. Fenced sections (with
// four tildes or three backticks) become code blocks; the prose between two
// fences becomes a single text block. Generating a document from the result
// reproduces the input document up to whitespace.
func Split(doc string) []Segment {
	var (
		segments []Segment
		text     []string
		code     []string
		fence    string
	)

	flushText := func() {
		content := strings.TrimSpace(strings.Join(text, "\n"))
		if content != "" {
			segments = append(segments, Segment{Kind: blocks.KindText, Content: content})
		}
		text = text[:0]
	}

	for _, line := range strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if trimmed == fence {
				segments = append(segments, Segment{Kind: blocks.KindCode, Content: strings.Join(code, "\n")})
				code, fence = code[:0], ""
				continue
			}
			code = append(code, line)
			continue
		}
		if f := openingFence(trimmed); f != "" {
			flushText()
			fence = f
			continue
		}
		text = append(text, line)
	}

	if fence != "" {
		// Unterminated fence: keep what was typed as code.
		segments = append(segments, Segment{Kind: blocks.KindCode, Content: strings.Join(code, "\n")})
	}
	flushText()
	return segments
}

// Collection builds a block collection from segments, in order.
func Collection(segments []Segment) *blocks.Collection {
	coll := blocks.New()
	for _, s := range segments {
		coll, _ = coll.Add(s.Kind, s.Content)
	}
	return coll
}

func openingFence(line string) string {
	switch {
	case strings.HasPrefix(line, Fence):
		return Fence
	case strings.HasPrefix(line, "```"):
		return "```"
	default:
		return ""
	}
}
