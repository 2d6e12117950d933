// Package store holds the editor state: every file, its blocks and the
// current selection. A *State is an immutable snapshot; each operation
// returns a new snapshot that shares whatever it did not change.
package store

import (
	"fmt"
	"sort"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/ident"
)

const (
	// DefaultFileID is the permanent file that can be neither renamed nor deleted.
	DefaultFileID = 0
	// DefaultFileName is the name of the permanent file.
	DefaultFileName = "Default"

	// DefaultTextContent seeds new prose blocks.
	DefaultTextContent = "*Click here* to edit me!"
	// DefaultCodeContent seeds new code blocks.
	DefaultCodeContent = ""
)

// File is a named, ordered collection of blocks.
type File struct {
	ID     int
	Name   string
	Blocks *blocks.Collection
}

// FileInfo is the id and name of a file, as shown in a file selector.
type FileInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// State is the root aggregate of the editor.
type State struct {
	selected     int
	documentView bool
	files        map[int]File
}

// New builds a snapshot and checks its invariants.
func New(selected int, documentView bool, files ...File) (*State, error) {
	s := &State{
		selected:     selected,
		documentView: documentView,
		files:        make(map[int]File, len(files)),
	}
	for _, f := range files {
		s.files[f.ID] = f
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Default returns the state of a fresh editor: the default file holding one
// text block and one code block.
func Default() *State {
	return &State{
		selected: DefaultFileID,
		files: map[int]File{
			DefaultFileID: {
				ID:   DefaultFileID,
				Name: DefaultFileName,
				Blocks: blocks.New(
					blocks.Block{ID: 1, Kind: blocks.KindText, Content: DefaultTextContent, OrderingKey: 1},
					blocks.Block{ID: 2, Kind: blocks.KindCode, Content: `print("hello world!")`, OrderingKey: 2},
				),
			},
		},
	}
}

// Validate checks the store invariants.
func (s *State) Validate() error {
	if _, ok := s.files[DefaultFileID]; !ok {
		return fmt.Errorf("%w: default file missing", ErrInvalidState)
	}
	if _, ok := s.files[s.selected]; !ok {
		return fmt.Errorf("%w: selected file %d does not exist", ErrInvalidState, s.selected)
	}
	for id, f := range s.files {
		if f.ID != id {
			return fmt.Errorf("%w: file keyed %d carries id %d", ErrInvalidState, id, f.ID)
		}
		if err := f.Blocks.Validate(); err != nil {
			return fmt.Errorf("%w: file %d: %v", ErrInvalidState, id, err)
		}
	}
	return nil
}

// SelectedID returns the id of the selected file.
func (s *State) SelectedID() int { return s.selected }

// DocumentViewOpen reports whether the flattened document is shown.
func (s *State) DocumentViewOpen() bool { return s.documentView }

// Selected returns the selected file.
func (s *State) Selected() File { return s.files[s.selected] }

// CurrentBlocks returns the blocks of the selected file.
func (s *State) CurrentBlocks() *blocks.Collection { return s.files[s.selected].Blocks }

// File returns the file with the given id.
func (s *State) File(id int) (File, bool) {
	f, ok := s.files[id]
	return f, ok
}

// Len returns the number of files.
func (s *State) Len() int { return len(s.files) }

// Files lists every file sorted by id.
func (s *State) Files() []FileInfo {
	infos := make([]FileInfo, 0, len(s.files))
	for _, f := range s.files {
		infos = append(infos, FileInfo{ID: f.ID, Name: f.Name})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// CreateFile adds an empty file and selects it.
func (s *State) CreateFile(name string) (*State, File, error) {
	name = CleanName(name)
	if name == "" {
		return s, File{}, ErrEmptyName
	}
	if owner, taken := s.fileNamed(name); taken {
		return s, File{}, fmt.Errorf("%w: %q (file %d)", ErrDuplicateName, name, owner)
	}

	f := File{ID: ident.NextKey(s.files), Name: name, Blocks: blocks.New()}
	next := s.withFile(f)
	next.selected = f.ID
	return next, f, nil
}

// SelectFile changes the selection. An unknown id leaves the state as is.
func (s *State) SelectFile(id int) (*State, error) {
	if _, ok := s.files[id]; !ok {
		return s, fmt.Errorf("select file %d: %w", id, ErrNotFound)
	}
	if id == s.selected {
		return s, nil
	}
	next := s.shallow()
	next.selected = id
	return next, nil
}

// RenameFile gives a file a new name.
func (s *State) RenameFile(id int, name string) (*State, error) {
	if id == DefaultFileID {
		return s, ErrProtectedFile
	}
	f, ok := s.files[id]
	if !ok {
		return s, fmt.Errorf("rename file %d: %w", id, ErrNotFound)
	}
	name = CleanName(name)
	if name == "" {
		return s, ErrEmptyName
	}
	if owner, taken := s.fileNamed(name); taken && owner != id {
		return s, fmt.Errorf("%w: %q (file %d)", ErrDuplicateName, name, owner)
	}
	f.Name = name
	return s.withFile(f), nil
}

// DeleteFile removes a file and selects the default file.
func (s *State) DeleteFile(id int) (*State, error) {
	if id == DefaultFileID {
		return s, ErrProtectedFile
	}
	if _, ok := s.files[id]; !ok {
		return s, fmt.Errorf("delete file %d: %w", id, ErrNotFound)
	}
	next := s.shallow()
	next.files = make(map[int]File, len(s.files)-1)
	for fid, f := range s.files {
		if fid != id {
			next.files[fid] = f
		}
	}
	next.selected = DefaultFileID
	return next, nil
}

// WithBlocks replaces the block collection of a file.
func (s *State) WithBlocks(id int, coll *blocks.Collection) (*State, error) {
	f, ok := s.files[id]
	if !ok {
		return s, fmt.Errorf("set blocks of file %d: %w", id, ErrNotFound)
	}
	if f.Blocks == coll {
		return s, nil
	}
	f.Blocks = coll
	return s.withFile(f), nil
}

// WithCurrentBlocks replaces the block collection of the selected file.
func (s *State) WithCurrentBlocks(coll *blocks.Collection) *State {
	next, _ := s.WithBlocks(s.selected, coll)
	return next
}

// WithDocumentView opens or closes the document view.
func (s *State) WithDocumentView(open bool) *State {
	if s.documentView == open {
		return s
	}
	next := s.shallow()
	next.documentView = open
	return next
}

func (s *State) fileNamed(name string) (int, bool) {
	key := nameKey(name)
	for id, f := range s.files {
		if nameKey(f.Name) == key {
			return id, true
		}
	}
	return 0, false
}

// shallow copies the snapshot header; the files map is shared.
func (s *State) shallow() *State {
	next := *s
	return &next
}

// withFile returns a snapshot with one file entry replaced or added. Only the
// files map is copied; block collections are shared.
func (s *State) withFile(f File) *State {
	next := s.shallow()
	next.files = make(map[int]File, len(s.files)+1)
	for id, existing := range s.files {
		next.files[id] = existing
	}
	next.files[f.ID] = f
	return next
}
