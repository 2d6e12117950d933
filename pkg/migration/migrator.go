package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-blockbook/pkg/persistence"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

const backupSuffix = ".backup"

type Migrator struct {
	options   MigrationOptions
	analyzer  *Analyzer
	persister *persistence.Persister
	report    *MigrationReport
	output    io.Writer
	logger    *logrus.Entry
}

func NewMigrator(options MigrationOptions, persister *persistence.Persister, output io.Writer, logger *logrus.Entry) *Migrator {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New()) // Fallback to a null logger
	}
	if output == nil {
		output = io.Discard
	}
	return &Migrator{
		options:   options,
		analyzer:  NewAnalyzer(persister.Key()),
		persister: persister,
		report:    NewMigrationReport(),
		output:    output,
		logger:    logger.WithField("sub-component", "migrator"),
	}
}

// MigrateFile imports the payload stored in filePath.
func (m *Migrator) MigrateFile(ctx context.Context, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		m.report.ProcessedFiles++
		m.report.AddError(filePath, err)
		return fmt.Errorf("failed to read file: %w", err)
	}
	return m.MigratePayload(ctx, filePath, data)
}

// MigratePayload imports one payload. source names it in the report.
func (m *Migrator) MigratePayload(ctx context.Context, source string, data []byte) error {
	m.report.ProcessedFiles++

	incoming, decodeReport, err := m.analyzer.Analyze(data)
	if err != nil {
		m.report.AddError(source, err)
		return err
	}

	if decodeReport.Migrated() {
		m.report.LegacyPayloads++
	}
	m.report.Issues = append(m.report.Issues, decodeReport.Issues...)
	m.report.IssuesFixed += len(decodeReport.Issues)

	if m.options.Verbose {
		fmt.Fprintf(m.output, "\n%s: %s schema, %d files, %d blocks\n",
			source, decodeReport.Schema, decodeReport.Files, decodeReport.Blocks)
		for _, issue := range decodeReport.Issues {
			fmt.Fprintf(m.output, "  - %s: %s\n", issue.Type, issue.Description)
		}
	}

	next := incoming
	if m.options.Merge {
		current, _, err := m.persister.Load(ctx)
		if err != nil {
			m.report.AddError(source, err)
			return err
		}
		next, err = Merge(current, incoming)
		if err != nil {
			m.report.AddError(source, err)
			return fmt.Errorf("failed to merge: %w", err)
		}
	}

	m.report.ImportedFiles += incoming.Len()
	for _, info := range incoming.Files() {
		f, _ := incoming.File(info.ID)
		m.report.ImportedBlocks += f.Blocks.Len()
	}

	if m.options.DryRun {
		return nil
	}

	if !m.options.NoBackup {
		if err := m.backup(ctx); err != nil {
			m.report.AddError(source, err)
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	if err := m.persister.Save(ctx, next); err != nil {
		m.report.AddError(source, err)
		return err
	}

	m.report.MigratedFiles++
	m.logger.WithFields(logrus.Fields{
		"source": source,
		"schema": decodeReport.Schema,
		"files":  incoming.Len(),
	}).Info("Imported editor state")
	return nil
}

// backup copies the stored payload aside. Nothing stored means nothing to
// back up.
func (m *Migrator) backup(ctx context.Context) error {
	storage := m.persister.Storage()
	existing, err := storage.Get(ctx, m.persister.Key())
	if errors.Is(err, persistence.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return storage.Set(ctx, m.persister.Key()+backupSuffix, existing)
}

func (m *Migrator) GetReport() *MigrationReport {
	return m.report
}

func (m *Migrator) Complete() {
	m.report.Complete()
}

// Merge copies every file of incoming into current as a new file, keeping
// the current selection. Names that are already taken get a numeric suffix.
func Merge(current, incoming *store.State) (*store.State, error) {
	next := current
	selected := current.SelectedID()
	for _, info := range incoming.Files() {
		f, _ := incoming.File(info.ID)

		var (
			created store.File
			err     error
			merged  *store.State
		)
		for n := 1; ; n++ {
			name := f.Name
			if n > 1 {
				name = fmt.Sprintf("%s %d", f.Name, n)
			}
			merged, created, err = next.CreateFile(name)
			if !errors.Is(err, store.ErrDuplicateName) {
				break
			}
		}
		if err != nil {
			return current, err
		}
		if next, err = merged.WithBlocks(created.ID, f.Blocks); err != nil {
			return current, err
		}
	}
	return next.SelectFile(selected)
}
