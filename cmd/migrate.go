package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-blockbook/pkg/migration"
	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

func NewMigrateCmd(svc **service.Service) *cobra.Command {
	var (
		migrateDryRun     bool
		migrateVerbose    bool
		migrateShowReport bool
		migrateNoBackup   bool
		migrateMerge      bool
	)

	cmd := &cobra.Command{
		Use:   "migrate <paths...>",
		Short: "Import saved editor state",
		Long: `Import editor state saved by the browser editor or an older version.

Each path is a JSON file holding either the stored payload itself or a dump of
the browser's local storage. Directories are searched for .json files. Legacy
single-file payloads are converted into the default file.

The stored state is replaced unless --merge is given, in which case every
imported file is added alongside the existing ones.

Examples:
  bb migrate --dry-run state.json   # Preview without writing
  bb migrate localStorage.json      # Replace the stored state
  bb migrate --merge exports/       # Add every payload in a directory`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			out := cmd.OutOrStdout()

			options := migration.MigrationOptions{
				DryRun:     migrateDryRun,
				Verbose:    migrateVerbose,
				ShowReport: migrateShowReport,
				NoBackup:   migrateNoBackup,
				Merge:      migrateMerge,
			}

			report, err := migration.Migrate(cmd.Context(), s.Persister, args, options, out, nil)
			if err != nil {
				return err
			}

			if migrateShowReport {
				printMigrationReport(out, report, migrateDryRun)
			}
			if report.FailedFiles > 0 {
				return fmt.Errorf("%d payloads failed to import", report.FailedFiles)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Show what would be imported without writing")
	cmd.Flags().BoolVar(&migrateVerbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&migrateShowReport, "report", true, "Show migration report")
	cmd.Flags().BoolVar(&migrateNoBackup, "no-backup", false, "Don't back up the stored state")
	cmd.Flags().BoolVar(&migrateMerge, "merge", false, "Add imported files to the stored state")

	return cmd
}

func printMigrationReport(w io.Writer, report *migration.MigrationReport, dryRun bool) {
	fmt.Fprintf(w, "\nMigration Report\n")
	fmt.Fprintf(w, "================\n")
	fmt.Fprintf(w, "Total payloads:  %d\n", report.TotalFiles)
	fmt.Fprintf(w, "Processed:       %d\n", report.ProcessedFiles)
	fmt.Fprintf(w, "Imported:        %d\n", report.MigratedFiles)
	fmt.Fprintf(w, "Legacy:          %d\n", report.LegacyPayloads)
	fmt.Fprintf(w, "Failed:          %d\n", report.FailedFiles)
	fmt.Fprintf(w, "Files:           %d\n", report.ImportedFiles)
	fmt.Fprintf(w, "Blocks:          %d\n", report.ImportedBlocks)

	if report.IssuesFixed > 0 {
		fmt.Fprintf(w, "Issues fixed:    %d\n", report.IssuesFixed)
	}

	fmt.Fprintf(w, "Duration:        %s\n", report.Duration())

	if len(report.ProcessingErrors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		files := make([]string, 0, len(report.ProcessingErrors))
		for file := range report.ProcessingErrors {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			fmt.Fprintf(w, "  %s: %v\n", file, report.ProcessingErrors[file])
		}
	}

	if dryRun {
		fmt.Fprintln(w, "\nDry run complete. Nothing was written.")
	}
}
