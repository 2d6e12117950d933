// Package editor orchestrates the user-facing editing operations. Every
// mutation produces a new store snapshot, persists it and refreshes the
// generated document.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/document"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

// Controller owns the editor state for one session.
type Controller struct {
	mu        sync.Mutex
	state     *store.State
	saver     Saver
	prompter  Prompter
	notifier  Notifier
	refresher *document.Refresher
	logger    *logrus.Entry

	cycle  uint64
	origin origin
}

// Option configures a Controller.
type Option func(*Controller)

// WithPrompter sets the name prompt collaborator.
func WithPrompter(p Prompter) Option {
	return func(c *Controller) { c.prompter = p }
}

// WithNotifier sets the notification collaborator.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithRefresher sets the document refresher.
func WithRefresher(r *document.Refresher) Option {
	return func(c *Controller) { c.refresher = r }
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller over an initial snapshot. A nil saver keeps the
// state in memory only.
func New(initial *store.State, saver Saver, opts ...Option) *Controller {
	if initial == nil {
		initial = store.Default()
	}
	if saver == nil {
		saver = discardSaver{}
	}
	c := &Controller{
		state:    initial,
		saver:    saver,
		prompter: cancelPrompter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	c.logger = c.logger.WithField("component", "editor")
	if c.notifier == nil {
		c.notifier = NotifyFunc(func(msg string) { c.logger.Warn(msg) })
	}
	if c.refresher == nil {
		c.refresher = document.NewRefresher(document.NewGenerator(c.logger), nil, 0)
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() *store.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AddCodeBlock appends an empty code block to the selected file.
func (c *Controller) AddCodeBlock(ctx context.Context) (blocks.Block, error) {
	return c.addBlock(ctx, blocks.KindCode, store.DefaultCodeContent)
}

// AddTextBlock appends a prose block with placeholder text to the selected file.
func (c *Controller) AddTextBlock(ctx context.Context) (blocks.Block, error) {
	return c.addBlock(ctx, blocks.KindText, store.DefaultTextContent)
}

// AddBlock appends a block with the given content to the selected file.
func (c *Controller) AddBlock(ctx context.Context, kind blocks.Kind, content string) (blocks.Block, error) {
	if !kind.Valid() {
		return blocks.Block{}, fmt.Errorf("add block: %w", blocks.ErrUnknownBlockType)
	}
	return c.addBlock(ctx, kind, content)
}

func (c *Controller) addBlock(ctx context.Context, kind blocks.Kind, content string) (blocks.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	coll, b := c.state.CurrentBlocks().Add(kind, content)
	if err := c.commit(ctx, c.state.WithCurrentBlocks(coll)); err != nil {
		return b, err
	}
	c.logger.WithFields(logrus.Fields{"block": b.ID, "type": kind}).Debug("Added block")
	return b, nil
}

// UpdateBlockContent replaces the content of a block in the selected file.
// An unknown id leaves the state untouched and is not reported to the user.
func (c *Controller) UpdateBlockContent(ctx context.Context, id int, content string) error {
	return c.UpdateBlockContentFrom(ctx, nil, id, content)
}

// UpdateBlockContentFrom is UpdateBlockContent for an edit typed into a live
// surface. Until the next state change, ShouldPush reports false for that
// surface and block, so the new content is not sent back to where it came
// from.
func (c *Controller) UpdateBlockContentFrom(ctx context.Context, from *Surface, id int, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	coll, err := c.state.CurrentBlocks().Update(id, content)
	if err != nil {
		c.logger.WithField("block", id).Debug("Ignoring update of missing block")
		return err
	}
	// The origin is recorded even when the save fails.
	err = c.commit(ctx, c.state.WithCurrentBlocks(coll))
	if from != nil {
		c.origin = origin{surface: from, blockID: id, cycle: c.cycle}
	}
	return err
}

// ShouldPush reports whether the current content of a block should be pushed
// into the given surface. It is false only for the surface that originated
// the latest change to that block, and only until the state changes again.
func (c *Controller) ShouldPush(s *Surface, id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	o := c.origin
	return !(o.surface != nil && o.surface == s && o.blockID == id && o.cycle == c.cycle)
}

// RemoveBlock deletes a block from the selected file. Missing ids are ignored.
func (c *Controller) RemoveBlock(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(ctx, c.state.WithCurrentBlocks(c.state.CurrentBlocks().Remove(id)))
}

// MoveBlock moves a block one position up or down in the selected file.
func (c *Controller) MoveBlock(ctx context.Context, id int, dir blocks.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dir != blocks.Up && dir != blocks.Down {
		c.logger.WithField("direction", dir).Error("Unknown direction")
		return fmt.Errorf("move block %d: %w", id, blocks.ErrUnknownDirection)
	}
	return c.commit(ctx, c.state.WithCurrentBlocks(c.state.CurrentBlocks().Move(id, dir)))
}

// CreateFile asks for a name and creates an empty file, which becomes the
// selected one.
func (c *Controller) CreateFile(ctx context.Context) (store.File, error) {
	name, _ := c.prompter.Prompt("New file name?", "")
	return c.CreateFileNamed(ctx, name)
}

// CreateFileNamed creates an empty file with the given name and selects it.
func (c *Controller) CreateFileNamed(ctx context.Context, name string) (store.File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, f, err := c.state.CreateFile(name)
	if err != nil {
		c.reject(err, name, "")
		return store.File{}, err
	}
	if err := c.commit(ctx, next); err != nil {
		return f, err
	}
	c.logger.WithFields(logrus.Fields{"file": f.ID, "name": f.Name}).Info("Created file")
	return f, nil
}

// RenameFile asks for a new name for the selected file. Cancelling the
// prompt leaves the file as it is.
func (c *Controller) RenameFile(ctx context.Context) error {
	current := c.State().Selected()
	if current.ID == store.DefaultFileID {
		c.reject(store.ErrProtectedFile, "", "rename")
		return store.ErrProtectedFile
	}
	name, ok := c.prompter.Prompt(fmt.Sprintf("Rename '%s' to?", current.Name), "")
	if !ok {
		return nil
	}
	return c.RenameFileTo(ctx, name)
}

// RenameFileTo renames the selected file.
func (c *Controller) RenameFileTo(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.state.RenameFile(c.state.SelectedID(), name)
	if err != nil {
		c.reject(err, name, "rename")
		return err
	}
	return c.commit(ctx, next)
}

// DeleteFile removes the selected file and selects the default file.
func (c *Controller) DeleteFile(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.state.SelectedID()
	next, err := c.state.DeleteFile(id)
	if err != nil {
		c.reject(err, "", "delete")
		return err
	}
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	c.logger.WithField("file", id).Info("Deleted file")
	return nil
}

// LoadFile selects a file. Unknown ids are ignored.
func (c *Controller) LoadFile(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.state.SelectFile(id)
	if err != nil {
		c.logger.WithField("file", id).Debug("Ignoring selection of missing file")
		return nil
	}
	return c.commit(ctx, next)
}

// ToggleDocumentView opens or closes the generated document and returns the
// new setting. Opening always regenerates the document.
func (c *Controller) ToggleDocumentView(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	open := !c.state.DocumentViewOpen()
	if err := c.commit(ctx, c.state.WithDocumentView(open)); err != nil {
		return open, err
	}
	if open {
		c.refresher.Force(c.state.CurrentBlocks())
	}
	return open, nil
}

// Document returns the generated document of the selected file. ok is false
// while the document view is closed.
func (c *Controller) Document() (doc string, ok bool) {
	s := c.State()
	if !s.DocumentViewOpen() {
		return "", false
	}
	return c.refresher.Document(s.CurrentBlocks()), true
}

// Apply runs an arbitrary transition over the current snapshot, such as an
// import, and commits its result. A failing transition changes nothing.
func (c *Controller) Apply(ctx context.Context, transition func(*store.State) (*store.State, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := transition(c.state)
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	return c.commit(ctx, next)
}

// RenderBlock is one block as handed to the renderer.
type RenderBlock struct {
	// Key stays stable for a block across re-renders and file switches.
	Key string `json:"key"`
	blocks.Block
}

// Blocks returns the blocks of the selected file in document order.
func (c *Controller) Blocks() []RenderBlock {
	s := c.State()
	ordered := s.CurrentBlocks().Ordered()
	out := make([]RenderBlock, len(ordered))
	for i, b := range ordered {
		out[i] = RenderBlock{Key: fmt.Sprintf("%d-%d", s.SelectedID(), b.ID), Block: b}
	}
	return out
}

// commit installs next as the current snapshot and persists it. The
// in-memory transition stands even if saving fails. Callers hold c.mu.
func (c *Controller) commit(ctx context.Context, next *store.State) error {
	if next == c.state {
		return nil
	}
	c.state = next
	c.cycle++

	if err := c.saver.Save(ctx, next); err != nil {
		c.logger.WithError(err).Error("Failed to persist editor state")
		return err
	}
	if next.DocumentViewOpen() {
		c.refresher.Document(next.CurrentBlocks())
	}
	return nil
}

// reject tells the user why a file operation was refused. Callers may or
// may not hold c.mu; reject does not touch controller state.
func (c *Controller) reject(err error, name, action string) {
	var msg string
	switch {
	case errors.Is(err, store.ErrProtectedFile):
		msg = fmt.Sprintf("Cannot %s default file!", action)
	case errors.Is(err, store.ErrEmptyName):
		msg = "Filename empty!"
	case errors.Is(err, store.ErrDuplicateName):
		msg = fmt.Sprintf("File %s already exists!", store.CleanName(name))
	default:
		return
	}
	c.logger.WithError(err).Debug("Rejected file operation")
	c.notifier.Notify(msg)
}
