package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

func NewFileCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Manage files",
		Long: `Create, select, rename, delete and list files.

Examples:
  bb file new "Coin models"   # Create and select a file
  bb file select 2            # Switch to file 2
  bb file rename              # Prompt for a new name
  bb file list --json`,
	}

	cmd.AddCommand(newFileNewCmd(svc))
	cmd.AddCommand(newFileSelectCmd(svc))
	cmd.AddCommand(newFileRenameCmd(svc))
	cmd.AddCommand(newFileDeleteCmd(svc))
	cmd.AddCommand(newFileListCmd(svc))
	return cmd
}

func newFileNewCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "new [name]",
		Short: "Create a file and select it",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			var err error
			if len(args) > 0 {
				_, err = s.Editor.CreateFileNamed(cmd.Context(), strings.Join(args, " "))
			} else {
				_, err = s.Editor.CreateFile(cmd.Context())
			}
			if err != nil {
				return err
			}
			f := s.Editor.State().Selected()
			fmt.Fprintf(cmd.OutOrStdout(), "Created file %d: %s\n", f.ID, f.Name)
			return nil
		},
	}
}

func newFileSelectCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Select a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid file id %q", args[0])
			}
			if err := s.Editor.LoadFile(cmd.Context(), id); err != nil {
				return err
			}
			f := s.Editor.State().Selected()
			fmt.Fprintf(cmd.OutOrStdout(), "Selected file %d: %s\n", f.ID, f.Name)
			return nil
		},
	}
}

func newFileRenameCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "rename [name]",
		Short: "Rename the selected file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if len(args) > 0 {
				return s.Editor.RenameFileTo(cmd.Context(), strings.Join(args, " "))
			}
			return s.Editor.RenameFile(cmd.Context())
		},
	}
}

func newFileDeleteCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete the selected file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*svc).Editor.DeleteFile(cmd.Context())
		},
	}
}

type fileRow struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Blocks   int    `json:"blocks"`
	Selected bool   `json:"selected"`
}

func newFileListCmd(svc **service.Service) *cobra.Command {
	var listJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List files",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := (*svc).Editor.State()
			var rows []fileRow
			for _, info := range state.Files() {
				f, _ := state.File(info.ID)
				rows = append(rows, fileRow{
					ID:       f.ID,
					Name:     f.Name,
					Blocks:   f.Blocks.Len(),
					Selected: f.ID == state.SelectedID(),
				})
			}

			if listJSON {
				return printJSON(cmd.OutOrStdout(), rows)
			}

			tw := newTable(cmd.OutOrStdout(), "", "ID", "NAME", "BLOCKS")
			for _, r := range rows {
				marker := ""
				if r.Selected {
					marker = "*"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", marker, r.ID, r.Name, r.Blocks)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	return cmd
}
