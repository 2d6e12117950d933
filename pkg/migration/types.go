package migration

import (
	"time"

	"github.com/mattsolo1/grove-blockbook/pkg/persistence"
)

type MigrationOptions struct {
	DryRun     bool
	Verbose    bool
	ShowReport bool
	NoBackup   bool
	// Merge adds the imported files to the stored state instead of
	// replacing it.
	Merge bool
}

type MigrationReport struct {
	TotalFiles       int
	ProcessedFiles   int
	MigratedFiles    int
	SkippedFiles     int
	FailedFiles      int
	LegacyPayloads   int
	ImportedFiles    int
	ImportedBlocks   int
	IssuesFixed      int
	Issues           []persistence.Issue
	ProcessingErrors map[string]error
	StartTime        time.Time
	EndTime          time.Time
}

func NewMigrationReport() *MigrationReport {
	return &MigrationReport{
		ProcessingErrors: make(map[string]error),
		StartTime:        time.Now(),
	}
}

func (r *MigrationReport) AddError(file string, err error) {
	r.ProcessingErrors[file] = err
	r.FailedFiles++
}

func (r *MigrationReport) Complete() {
	r.EndTime = time.Now()
}

func (r *MigrationReport) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
