package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-blockbook/pkg/document"
	"github.com/mattsolo1/grove-blockbook/pkg/editor"
	"github.com/mattsolo1/grove-blockbook/pkg/export"
	"github.com/mattsolo1/grove-blockbook/pkg/persistence"
	"github.com/mattsolo1/grove-blockbook/pkg/render"
	"github.com/mattsolo1/grove-blockbook/pkg/search"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Service is one editing session over the configured storage
type Service struct {
	Config    *Config
	Storage   persistence.Storage
	Persister *persistence.Persister
	Editor    *editor.Controller
	Refresher *document.Refresher
	Renderer  *render.Renderer
	Index     *search.Index

	// LoadReport describes how the stored state was read.
	LoadReport *persistence.Report

	logger *logrus.Entry
}

// Config holds service configuration
type Config struct {
	DataDir        string
	StorageBackend string
	StorageKey     string
	Debounce       time.Duration
	ExportDir      string

	// PreviewStyle names a chroma style for code in previews; empty turns
	// highlighting off.
	PreviewStyle    string
	PreviewLanguage string
}

// New opens the storage, loads the stored state and builds the editor
// around it. Extra options are passed to the editor controller.
func New(ctx context.Context, config *Config, logger *logrus.Entry, opts ...editor.Option) (*Service, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	storage, err := OpenStorage(config)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	persister := persistence.NewPersister(storage, config.StorageKey, logger)
	state, report, err := persister.Load(ctx)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	indexPath := ":memory:"
	if config.StorageBackend != BackendMemory {
		indexPath = filepath.Join(config.DataDir, "index.db")
	}
	index, err := search.NewIndex(indexPath)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	debounce := config.Debounce
	if debounce <= 0 {
		debounce = document.DefaultDebounce
	}
	refresher := document.NewRefresher(document.NewGenerator(logger), nil, debounce)

	var renderOpts []render.Option
	if config.PreviewStyle != "" {
		renderOpts = append(renderOpts, render.WithHighlighting(config.PreviewStyle, config.PreviewLanguage))
	}

	controllerOpts := append([]editor.Option{
		editor.WithLogger(logger),
		editor.WithRefresher(refresher),
	}, opts...)

	return &Service{
		Config:     config,
		Storage:    storage,
		Persister:  persister,
		Editor:     editor.New(state, persister, controllerOpts...),
		Refresher:  refresher,
		Renderer:   render.New(renderOpts...),
		Index:      index,
		LoadReport: report,
		logger:     logger.WithField("sub-component", "service"),
	}, nil
}

// OpenStorage creates the storage backend named in config.
func OpenStorage(config *Config) (persistence.Storage, error) {
	switch config.StorageBackend {
	case BackendSQLite, "":
		return persistence.NewSQLiteStorage(config.DataDir)
	case BackendFile:
		return persistence.NewFileStorage(filepath.Join(config.DataDir, "state"))
	case BackendMemory:
		return persistence.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.StorageBackend)
	}
}

// WatchPath returns the file that changes when the state is saved, or ""
// when the backend keeps nothing on disk.
func (s *Service) WatchPath() string {
	switch storage := s.Storage.(type) {
	case *persistence.SQLiteStorage:
		return storage.Path()
	case *persistence.FileStorage:
		path, err := storage.PathFor(s.Persister.Key())
		if err != nil {
			return ""
		}
		return path
	default:
		return ""
	}
}

// Reload reads the stored state again without touching the session.
func (s *Service) Reload(ctx context.Context) (*store.State, error) {
	state, _, err := s.Persister.Load(ctx)
	return state, err
}

// Search indexes every file and runs query against it.
func (s *Service) Search(query string, opts *search.Options) ([]search.Hit, error) {
	if err := s.Index.IndexState(s.Editor.State()); err != nil {
		return nil, fmt.Errorf("index blocks: %w", err)
	}
	return s.Index.Search(query, opts)
}

// Preview renders the selected file as HTML.
func (s *Service) Preview() (string, error) {
	return s.Renderer.Blocks(s.Editor.State().CurrentBlocks().Ordered())
}

// Export writes the file with the given id as markdown into dir, or into
// the configured export directory when dir is empty.
func (s *Service) Export(fileID int, dir string) (string, error) {
	if dir == "" {
		dir = s.Config.ExportDir
	}
	if dir == "" {
		dir = filepath.Join(s.Config.DataDir, "export")
	}
	path, err := export.WriteFile(dir, s.Editor.State(), fileID, export.Options{Source: s.Persister.Key()})
	if err != nil {
		return "", err
	}
	s.logger.WithFields(logrus.Fields{"file": fileID, "path": path}).Info("Exported file")
	return path, nil
}

// Import adds the markdown document at path as a new, selected file.
func (s *Service) Import(ctx context.Context, path string) (store.File, error) {
	var imported store.File
	err := s.Editor.Apply(ctx, func(state *store.State) (*store.State, error) {
		next, f, err := export.ImportFile(state, path)
		imported = f
		return next, err
	})
	if err != nil {
		return store.File{}, err
	}
	s.logger.WithFields(logrus.Fields{"file": imported.ID, "path": path}).Info("Imported file")
	return imported, nil
}

// Close releases the index and the storage.
func (s *Service) Close() error {
	indexErr := s.Index.Close()
	if err := s.Storage.Close(); err != nil {
		return err
	}
	return indexErr
}
