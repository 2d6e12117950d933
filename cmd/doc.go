package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-blockbook/internal/watch"
	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

func NewDocCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Show the generated document",
		Long: `Show the selected file flattened into a single markdown document.

Examples:
  bb doc show           # Print the document once
  bb doc show --watch   # Reprint whenever another session saves
  bb doc toggle         # Toggle the document view`,
	}

	cmd.AddCommand(newDocShowCmd(svc))
	cmd.AddCommand(newDocToggleCmd(svc))
	return cmd
}

func newDocShowCmd(svc **service.Service) *cobra.Command {
	var watchFlag bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the generated document",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			out := cmd.OutOrStdout()

			if !watchFlag {
				fmt.Fprintln(out, s.Refresher.Force(s.Editor.State().CurrentBlocks()))
				return nil
			}

			path := s.WatchPath()
			if path == "" {
				return fmt.Errorf("storage backend %q keeps nothing on disk to watch", s.Config.StorageBackend)
			}
			w, err := watch.New(path, s.Reload, s.Refresher, nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return w.Run(ctx, func(doc string) {
				fmt.Fprintf(out, "%s\n\n", doc)
			})
		},
	}

	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Reprint the document when the stored state changes")
	return cmd
}

func newDocToggleCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Open or close the document view",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			open, err := s.Editor.ToggleDocumentView(cmd.Context())
			if err != nil {
				return err
			}
			if !open {
				fmt.Fprintln(cmd.OutOrStdout(), "Document view closed")
				return nil
			}
			doc, _ := s.Editor.Document()
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}
