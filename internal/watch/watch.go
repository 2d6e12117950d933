// Package watch follows the stored editor state on disk and re-emits the
// generated document whenever another session saves.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-blockbook/pkg/document"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

// ReloadFunc reads the stored state again.
type ReloadFunc func(ctx context.Context) (*store.State, error)

// Watcher reloads the state when its storage file changes.
type Watcher struct {
	watcher   *fsnotify.Watcher
	path      string
	reload    ReloadFunc
	refresher *document.Refresher
	logger    *logrus.Entry
}

// New watches the directory holding path. Storage files are replaced by
// rename, so watching the file itself would lose track of it.
func New(path string, reload ReloadFunc, refresher *document.Refresher, logger *logrus.Entry) (*Watcher, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{
		watcher:   watcher,
		path:      path,
		reload:    reload,
		refresher: refresher,
		logger:    logger.WithField("sub-component", "watch"),
	}, nil
}

// Run emits the current document, then a new one after every change, until
// ctx is done. Changes arriving faster than the refresher's interval are
// coalesced into one emission.
func (w *Watcher) Run(ctx context.Context, emit func(doc string)) error {
	defer w.watcher.Close()

	var (
		last    string
		current *store.State
		pending <-chan time.Time
	)

	refresh := func(force bool) {
		if current == nil {
			return
		}
		coll := current.CurrentBlocks()
		var doc string
		if force {
			doc = w.refresher.Force(coll)
		} else {
			doc = w.refresher.Document(coll)
			if w.refresher.Stale(coll) {
				pending = time.After(w.refresher.Interval())
				return
			}
		}
		if doc != last {
			last = doc
			emit(doc)
		}
	}

	load := func() {
		s, err := w.reload(ctx)
		if err != nil {
			w.logger.WithError(err).Warn("Failed to reload state")
			return
		}
		current = s
	}

	load()
	refresh(true)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pending:
			pending = nil
			refresh(true)
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(event.Name) || event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.logger.WithField("event", event.Op.String()).Debug("Storage changed")
			load()
			if pending == nil {
				refresh(false)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("Watcher error")
		}
	}
}

// matches accepts the storage file and its SQLite journals.
func (w *Watcher) matches(name string) bool {
	base := filepath.Base(w.path)
	got := filepath.Base(name)
	return got == base || strings.HasPrefix(got, base+"-")
}
