package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

func NewExportCmd(svc **service.Service) *cobra.Command {
	var (
		fileID int
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a file as markdown",
		Long: `Write a file's generated document, with frontmatter, to a markdown file.

Examples:
  bb export                 # Export the selected file
  bb export --file 2 -d .   # Export file 2 into the current directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			id := s.Editor.State().SelectedID()
			if cmd.Flags().Changed("file") {
				id = fileID
			}
			path, err := s.Export(id, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}

	cmd.Flags().IntVar(&fileID, "file", 0, "File id to export (default is the selected file)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default is export_dir)")
	return cmd
}

func NewImportCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.md>",
		Short: "Import a markdown document as a new file",
		Long: `Split a markdown document into blocks and add it as a new, selected file.
Fenced sections become code blocks; the prose between them becomes text blocks.
The frontmatter title names the file, falling back to the file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := (*svc).Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported file %d: %s (%d blocks)\n", f.ID, f.Name, f.Blocks.Len())
			return nil
		},
	}
}
