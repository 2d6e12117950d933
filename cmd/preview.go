package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

func NewPreviewCmd(svc **service.Service) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the selected file as HTML",
		Long: `Render every block of the selected file as HTML. Text blocks are
rendered as markdown; code blocks are escaped verbatim.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			html, err := (*svc).Preview()
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), html)
				return err
			}
			if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the HTML to a file")
	return cmd
}
