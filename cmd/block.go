package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

func NewBlockCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Edit the blocks of the selected file",
		Long: `Add, edit, remove, reorder and list blocks of the selected file.

Content given as "-" is read from stdin.

Examples:
  bb block add code 'var x = flip()'
  bb block add text               # Adds the placeholder text block
  bb block edit 3 - < model.wppl
  bb block move 3 up
  bb block list`,
	}

	cmd.AddCommand(newBlockAddCmd(svc))
	cmd.AddCommand(newBlockEditCmd(svc))
	cmd.AddCommand(newBlockRemoveCmd(svc))
	cmd.AddCommand(newBlockMoveCmd(svc))
	cmd.AddCommand(newBlockListCmd(svc))
	return cmd
}

// blockContent joins args into block content, reading stdin for "-".
func blockContent(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

func parseBlockID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid block id %q", arg)
	}
	return id, nil
}

func newBlockAddCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "add <code|text> [content]",
		Short: "Append a block",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			kind, err := blocks.ParseKind(args[0])
			if err != nil {
				return err
			}

			var b blocks.Block
			if len(args) == 1 {
				if kind == blocks.KindCode {
					b, err = s.Editor.AddCodeBlock(cmd.Context())
				} else {
					b, err = s.Editor.AddTextBlock(cmd.Context())
				}
			} else {
				content, cerr := blockContent(cmd, args[1:])
				if cerr != nil {
					return cerr
				}
				b, err = s.Editor.AddBlock(cmd.Context(), kind, content)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s block %d\n", b.Kind, b.ID)
			return nil
		},
	}
}

func newBlockEditCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <content|->",
		Short: "Replace the content of a block",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBlockID(args[0])
			if err != nil {
				return err
			}
			content, err := blockContent(cmd, args[1:])
			if err != nil {
				return err
			}
			return (*svc).Editor.UpdateBlockContent(cmd.Context(), id, content)
		},
	}
}

func newBlockRemoveCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a block",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBlockID(args[0])
			if err != nil {
				return err
			}
			return (*svc).Editor.RemoveBlock(cmd.Context(), id)
		},
	}
}

func newBlockMoveCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <up|down>",
		Short: "Swap a block with its neighbour",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBlockID(args[0])
			if err != nil {
				return err
			}
			dir, err := blocks.ParseDirection(args[1])
			if err != nil {
				return err
			}
			return (*svc).Editor.MoveBlock(cmd.Context(), id, dir)
		},
	}
}

func newBlockListCmd(svc **service.Service) *cobra.Command {
	var listJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List blocks in document order",
		RunE: func(cmd *cobra.Command, args []string) error {
			rendered := (*svc).Editor.Blocks()
			if listJSON {
				return printJSON(cmd.OutOrStdout(), rendered)
			}

			tw := newTable(cmd.OutOrStdout(), "ID", "TYPE", "ORDER", "CONTENT")
			for _, b := range rendered {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", b.ID, b.Kind, b.OrderingKey, firstLine(b.Content, 60))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	return cmd
}
