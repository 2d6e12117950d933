// Package export writes files as standalone markdown documents and reads
// them back into the editor state.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mattsolo1/grove-blockbook/pkg/document"
	"github.com/mattsolo1/grove-blockbook/pkg/frontmatter"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

// Options control the frontmatter of an exported document.
type Options struct {
	Source string // storage key recorded in the frontmatter
	Tags   []string
	Now    time.Time
}

// Content renders f as a markdown document with frontmatter.
func Content(f store.File, opts Options) (string, error) {
	body, err := document.Render(f.Blocks)
	if err != nil {
		return "", fmt.Errorf("render file %d: %w", f.ID, err)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	id := f.ID
	fm := &frontmatter.Frontmatter{
		ID:       GenerateID(f.Name, now),
		Title:    f.Name,
		Aliases:  []string{},
		Tags:     frontmatter.MergeTags([]string{"blockbook"}, opts.Tags),
		Created:  frontmatter.FormatTimestamp(now),
		Modified: frontmatter.FormatTimestamp(now),
		Source:   opts.Source,
		FileID:   &id,
		Blocks:   f.Blocks.Len(),
	}
	return frontmatter.BuildContent(fm, body+"\n"), nil
}

// WriteFile exports the file with the given id into dir and returns the
// path written.
func WriteFile(dir string, s *store.State, fileID int, opts Options) (string, error) {
	f, ok := s.File(fileID)
	if !ok {
		return "", fmt.Errorf("export file %d: %w", fileID, store.ErrNotFound)
	}
	content, err := Content(f, opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, Filename(f.Name))
	if err := writeAtomic(path, []byte(content)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Import adds the markdown document in content as a new file and selects it.
// The frontmatter title names the file; without one fallback is used.
func Import(s *store.State, content, fallback string) (*store.State, store.File, error) {
	fm, body, err := frontmatter.Parse(content)
	if err != nil {
		return s, store.File{}, err
	}

	name := fallback
	if fm != nil && strings.TrimSpace(fm.Title) != "" {
		name = fm.Title
	}

	next, f, err := s.CreateFile(name)
	if err != nil {
		return s, store.File{}, err
	}
	f.Blocks = document.Collection(document.Split(body))
	next, err = next.WithBlocks(f.ID, f.Blocks)
	if err != nil {
		return s, store.File{}, err
	}
	return next, f, nil
}

// ImportFile reads path and imports it. A file without a frontmatter title
// is named after its base name.
func ImportFile(s *store.State, path string) (*store.State, store.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return s, store.File{}, err
	}
	return Import(s, string(data), TitleFromFilename(path))
}

// TitleFromFilename turns "my-notes_v2.md" into "My Notes V2".
func TitleFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(strings.Join(strings.Fields(base), " "))
}

// GenerateID creates a timestamped id for an exported document.
func GenerateID(title string, now time.Time) string {
	id := now.Format("20060102-150405")
	if slug := sanitizeFilename(title); slug != "" {
		id += "-" + slug
	}
	return id
}

// Filename returns the markdown file name used for a file title.
func Filename(title string) string {
	slug := sanitizeFilename(title)
	if slug == "" {
		slug = "untitled"
	}
	return slug + ".md"
}

func sanitizeFilename(s string) string {
	s = strings.Join(strings.Fields(s), "-")
	for _, char := range []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"} {
		s = strings.ReplaceAll(s, char, "")
	}
	return strings.Trim(strings.ToLower(s), "-.")
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}
