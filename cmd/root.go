package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-blockbook/cmd/config"
	"github.com/mattsolo1/grove-blockbook/pkg/editor"
	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

// SkipServiceAnnotation marks commands that run without opening storage.
const SkipServiceAnnotation = "bb/skip-service"

// NewRootCmd builds the bb command tree. The service is opened once before
// any subcommand runs and closed afterwards.
func NewRootCmd() *cobra.Command {
	var svc *service.Service

	rootCmd := &cobra.Command{
		Use:   "bb",
		Short: "A block editor for notebooks of code and prose",
		Long: `bb edits files made of ordered text and code blocks, keeps them in local
storage and flattens the selected file into a single markdown document.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[SkipServiceAnnotation] == "true" {
				return nil
			}
			config.InitConfig()
			logger := config.NewLogger()

			var err error
			svc, err = config.InitService(cmd.Context(), logger,
				editor.WithPrompter(NewLinePrompter(cmd.InOrStdin(), cmd.ErrOrStderr())),
				editor.WithNotifier(NewStderrNotifier(cmd.ErrOrStderr(), logger)),
			)
			if err != nil {
				return fmt.Errorf("failed to initialize service: %w", err)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if svc == nil {
				return nil
			}
			return svc.Close()
		},
	}
	config.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewFileCmd(&svc))
	rootCmd.AddCommand(NewBlockCmd(&svc))
	rootCmd.AddCommand(NewDocCmd(&svc))
	rootCmd.AddCommand(NewPreviewCmd(&svc))
	rootCmd.AddCommand(NewExportCmd(&svc))
	rootCmd.AddCommand(NewImportCmd(&svc))
	rootCmd.AddCommand(NewSearchCmd(&svc))
	rootCmd.AddCommand(NewMigrateCmd(&svc))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
