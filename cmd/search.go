package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/search"
	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

func NewSearchCmd(svc **service.Service) *cobra.Command {
	var (
		searchType  string
		searchFile  int
		searchLimit int
		searchJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search blocks",
		Long: `Search the blocks of every file.

Examples:
  bb search flip                # Search all blocks
  bb search "coin" -t code      # Search only code blocks
  bb search model --file 2      # Search one file`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			query := strings.Join(args, " ")

			opts := &search.Options{Limit: searchLimit}
			if searchType != "" {
				kind, err := blocks.ParseKind(searchType)
				if err != nil {
					return err
				}
				opts.Kind = kind
			}
			if cmd.Flags().Changed("file") {
				opts.FileID = &searchFile
			}

			results, err := s.Search(query, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if searchJSON {
				if results == nil {
					results = []search.Hit{}
				}
				return printJSON(out, results)
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "No results found")
				return nil
			}

			fmt.Fprintf(out, "Found %d results:\n\n", len(results))
			for i, hit := range results {
				fmt.Fprintf(out, "%d. %s (file %d), %s block %d\n", i+1, hit.FileName, hit.FileID, hit.Kind, hit.BlockID)
				fmt.Fprintf(out, "   %s\n", strings.ReplaceAll(hit.Snippet, "\n", " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&searchType, "type", "t", "", "Filter by block type (code or text)")
	cmd.Flags().IntVar(&searchFile, "file", 0, "Only search this file id")
	cmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum results")
	cmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	return cmd
}
