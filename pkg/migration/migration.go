package migration

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-blockbook/pkg/persistence"
)

// Migrate imports every payload found at paths. Directories are walked for
// .json files.
func Migrate(ctx context.Context, persister *persistence.Persister, paths []string, options MigrationOptions, output io.Writer, logger *logrus.Entry) (*MigrationReport, error) {
	if output == nil {
		output = os.Stdout
	}

	migrator := NewMigrator(options, persister, output, logger)

	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return migrator.GetReport(), fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		if err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && strings.HasSuffix(path, ".json") {
				files = append(files, path)
			}
			return nil
		}); err != nil {
			return migrator.GetReport(), fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	if len(files) == 0 {
		return migrator.GetReport(), fmt.Errorf("no payloads found")
	}
	if len(files) > 1 && !options.Merge {
		return migrator.GetReport(), fmt.Errorf("%d payloads found; importing more than one requires merge", len(files))
	}

	migrator.report.TotalFiles = len(files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return migrator.GetReport(), err
		}
		if err := migrator.MigrateFile(ctx, path); err != nil {
			if options.Verbose {
				fmt.Fprintf(output, "✗ Error processing %s: %v\n", path, err)
			}
		}
	}

	migrator.Complete()

	return migrator.GetReport(), nil
}

// AnalyzeFile decodes the payload in filePath without importing it.
func AnalyzeFile(filePath, key string) (*persistence.Report, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	_, report, err := NewAnalyzer(key).Analyze(data)
	return report, err
}
