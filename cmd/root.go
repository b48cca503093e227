package cmd

import (
	"log/slog"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	profile string
	verbose bool
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "gchat",
		Short:         "GigaChat CLI (gchat): chat with GigaChat models from the terminal",
		Long:          "gchat keeps a multi-turn conversation with the GigaChat API, streams or buffers answers, lists available models, and manages connection profiles.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.profile, "profile", "p", string(domain.DefaultProfileID), "profile to use")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if opts.verbose {
			app.logLevel.Set(slog.LevelDebug)
		}
		app.logger = newLogger(cmd.ErrOrStderr(), app.logLevel)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(app, opts),
		newAskCmd(app, opts),
		newModelsCmd(app, opts),
		newProfileCmd(app, opts),
	)

	return rootCmd
}
