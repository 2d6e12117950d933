// Package document flattens the blocks of a file into a single markdown
// document.
package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
)

// Fence delimits code blocks in the generated document.
const Fence = "~~~~"

// Render concatenates the blocks in document order. Text blocks are emitted
// as-is, code blocks are fenced; every block is trimmed and preceded by a
// blank line, and the result is trimmed as a whole. Blocks of an unknown
// kind are skipped and reported in the returned error; the document is
// still usable.
func Render(coll *blocks.Collection) (string, error) {
	var (
		sb      strings.Builder
		skipped []error
	)
	for _, b := range coll.Ordered() {
		content := strings.TrimSpace(b.Content)
		switch b.Kind {
		case blocks.KindCode:
			sb.WriteString("\n\n" + Fence + "\n")
			sb.WriteString(content)
			sb.WriteString("\n" + Fence)
		case blocks.KindText:
			sb.WriteString("\n\n")
			sb.WriteString(content)
		default:
			skipped = append(skipped, fmt.Errorf("block %d (%s): %w", b.ID, b.Kind, blocks.ErrUnknownBlockType))
		}
	}
	return strings.TrimSpace(sb.String()), errors.Join(skipped...)
}

// Generator renders documents and logs skipped blocks.
type Generator struct {
	logger *logrus.Entry
}

// NewGenerator creates a generator. A nil logger falls back to the standard
// logrus logger.
func NewGenerator(logger *logrus.Entry) *Generator {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Generator{logger: logger.WithField("sub-component", "document")}
}

// Generate renders the collection, logging any block it had to skip.
func (g *Generator) Generate(coll *blocks.Collection) string {
	doc, err := Render(coll)
	if err != nil {
		g.logger.WithError(err).Error("Skipped blocks while generating document")
	}
	return doc
}
