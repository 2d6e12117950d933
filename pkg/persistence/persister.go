// Package persistence stores the editor state in durable local storage and
// migrates payloads written by older versions.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

// DefaultKey is the storage key the browser editor used.
const DefaultKey = "WebPPLEditorState"

// corruptSuffix is appended to the key under which an unreadable payload is
// set aside before it can be overwritten.
const corruptSuffix = ".corrupt"

// Persister loads and saves editor state under a single storage key.
type Persister struct {
	storage Storage
	key     string
	logger  *logrus.Entry
}

// NewPersister creates a persister. An empty key means DefaultKey.
func NewPersister(storage Storage, key string, logger *logrus.Entry) *Persister {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Persister{
		storage: storage,
		key:     key,
		logger:  logger.WithField("sub-component", "persistence"),
	}
}

// Key returns the storage key.
func (p *Persister) Key() string { return p.key }

// Storage returns the underlying storage.
func (p *Persister) Storage() Storage { return p.storage }

// Load hydrates the editor state. Nothing stored yields the built-in default.
// An unreadable payload is copied aside and also yields the default, so the
// editor always starts. The document view is always closed after a load.
func (p *Persister) Load(ctx context.Context) (*store.State, *Report, error) {
	data, err := p.storage.Get(ctx, p.key)
	if errors.Is(err, ErrNotFound) {
		p.logger.Debug("No stored state, using default")
		return store.Default(), &Report{Schema: SchemaDefault, Files: 1, Blocks: 2}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load editor state: %w", err)
	}

	s, report, err := Decode(data)
	if errors.Is(err, ErrCorruptPayload) {
		aside := p.key + corruptSuffix
		if setErr := p.storage.Set(ctx, aside, data); setErr != nil {
			return nil, nil, fmt.Errorf("preserve corrupt payload: %w", setErr)
		}
		p.logger.WithError(err).WithField("backup_key", aside).Warn("Stored state unreadable, using default")
		report = &Report{Schema: SchemaDefault, Files: 1, Blocks: 2}
		report.add(IssueCorruptPayload, p.key, err.Error())
		return store.Default(), report, nil
	}
	if err != nil {
		return nil, nil, err
	}

	entry := p.logger.WithFields(logrus.Fields{
		"schema": report.Schema,
		"files":  report.Files,
		"blocks": report.Blocks,
	})
	if report.Migrated() {
		entry.Info("Migrated legacy single-file state")
	}
	for _, issue := range report.Issues {
		entry.WithField("field", issue.Field).Warnf("%s: %s", issue.Type, issue.Description)
	}
	return s, report, nil
}

// Save writes the snapshot, replacing whatever was stored.
func (p *Persister) Save(ctx context.Context, s *store.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := p.storage.Set(ctx, p.key, data); err != nil {
		return fmt.Errorf("save editor state: %w", err)
	}
	return nil
}
