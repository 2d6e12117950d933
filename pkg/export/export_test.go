package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/frontmatter"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func notesState(t *testing.T) *store.State {
	t.Helper()
	s, f, err := store.Default().CreateFile("My Notes")
	require.NoError(t, err)
	coll, _ := blocks.New().Add(blocks.KindText, "Intro prose.")
	coll, _ = coll.Add(blocks.KindCode, "var x = flip()")
	s, err = s.WithBlocks(f.ID, coll)
	require.NoError(t, err)
	return s
}

func TestGenerateIDAndFilename(t *testing.T) {
	assert.Equal(t, "20240506-070809-my-notes", GenerateID("My  Notes", fixedNow))
	assert.Equal(t, "20240506-070809", GenerateID("???", fixedNow))
	assert.Equal(t, "ab-c.md", Filename(`A/b: C`))
	assert.Equal(t, "untitled.md", Filename("  "))
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "My Notes V2", TitleFromFilename("/tmp/my-notes_v2.md"))
	assert.Equal(t, "Plain", TitleFromFilename("plain"))
}

func TestContent(t *testing.T) {
	s := notesState(t)
	content, err := Content(s.Selected(), Options{Source: "WebPPLEditorState", Tags: []string{"draft"}, Now: fixedNow})
	require.NoError(t, err)

	fm, body, err := frontmatter.Parse(content)
	require.NoError(t, err)
	require.NotNil(t, fm)
	assert.Equal(t, "My Notes", fm.Title)
	assert.Equal(t, []string{"blockbook", "draft"}, fm.Tags)
	assert.Equal(t, "2024-05-06 07:08:09", fm.Created)
	assert.Equal(t, "WebPPLEditorState", fm.Source)
	require.NotNil(t, fm.FileID)
	assert.Equal(t, 1, *fm.FileID)
	assert.Equal(t, 2, fm.Blocks)
	assert.Equal(t, "\nIntro prose.\n\n~~~~\nvar x = flip()\n~~~~\n", body)
}

func TestWriteFileAndImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := notesState(t)

	path, err := WriteFile(dir, s, s.SelectedID(), Options{Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my-notes.md"), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	// The title is taken, so importing into the same state is rejected.
	_, _, err = ImportFile(s, path)
	assert.ErrorIs(t, err, store.ErrDuplicateName)

	next, f, err := ImportFile(store.Default(), path)
	require.NoError(t, err)
	assert.Equal(t, "My Notes", f.Name)
	assert.Equal(t, f.ID, next.SelectedID())

	ordered := next.CurrentBlocks().Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, blocks.KindText, ordered[0].Kind)
	assert.Equal(t, "Intro prose.", ordered[0].Content)
	assert.Equal(t, blocks.KindCode, ordered[1].Kind)
	assert.Equal(t, "var x = flip()", ordered[1].Content)
}

func TestWriteFileUnknown(t *testing.T) {
	_, err := WriteFile(t.TempDir(), store.Default(), 42, Options{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImportWithoutFrontmatter(t *testing.T) {
	next, f, err := Import(store.Default(), "Some prose\n\n```\ncode\n```\n", "Scratch")
	require.NoError(t, err)
	assert.Equal(t, "Scratch", f.Name)
	assert.Equal(t, 2, next.CurrentBlocks().Len())
	assert.True(t, strings.HasPrefix(next.CurrentBlocks().Ordered()[1].Content, "code"))
}
