package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/gigachat-cli/internal/application"
	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/spf13/cobra"
)

type generationFlags struct {
	substitutions []string
	model         string
	stream        bool
}

func (f *generationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.substitutions, "set", "s", nil, "replace a placeholder in the prompt (key=value, repeatable)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model to use instead of the profile's")
	cmd.Flags().BoolVar(&f.stream, "stream", false, "stream the answer as it is generated")
}

func (f *generationFlags) overrides(cmd *cobra.Command) sessionOverrides {
	overrides := sessionOverrides{model: f.model}
	if cmd.Flags().Changed("stream") {
		stream := f.stream
		overrides.stream = &stream
	}
	return overrides
}

func newAskCmd(app *app, root *rootOptions) *cobra.Command {
	flags := &generationFlags{}

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			substitutions, err := parseSubstitutions(flags.substitutions)
			if err != nil {
				return err
			}

			session, err := app.newSession(cmd.Context(), domain.ProfileID(root.profile), flags.overrides(cmd))
			if err != nil {
				return err
			}

			return streamAnswer(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), session, strings.Join(args, " "), substitutions)
		},
	}
	flags.register(cmd)

	return cmd
}

// streamAnswer prints the fragments of one Respond call as they arrive.
func streamAnswer(ctx context.Context, out io.Writer, spinnerOut io.Writer, session *application.Session, text string, substitutions []domain.Substitution) error {
	var stream *application.Stream
	err := waitWithSpinner(ctx, spinnerOut, "Waiting for GigaChat...", func(ctx context.Context) error {
		var err error
		stream, err = session.Respond(ctx, text, substitutions)
		return err
	})
	if err != nil {
		return err
	}
	defer func() { _ = stream.Close() }()

	for stream.Next() {
		if _, err := fmt.Fprint(out, stream.Current()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}

	return stream.Err()
}
