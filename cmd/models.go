package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/gigachat-cli/internal/adapters/render/transcript"
	"github.com/bnema/gigachat-cli/internal/application"
	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/spf13/cobra"
)

type modelOutput struct {
	ID      string `json:"id"`
	Object  string `json:"object,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

func newModelsCmd(app *app, root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models available to the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.newSession(cmd.Context(), domain.ProfileID(root.profile), sessionOverrides{})
			if err != nil {
				return err
			}

			models, err := fetchModels(cmd, session)
			if err != nil {
				return err
			}

			return writeModelsOutput(cmd, app, session, models, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print models as JSON")

	return cmd
}

func fetchModels(cmd *cobra.Command, session *application.Session) ([]domain.ModelDescriptor, error) {
	var models []domain.ModelDescriptor
	err := waitWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching models...", func(ctx context.Context) error {
		var err error
		models, err = session.Models(ctx)
		return err
	})
	return models, err
}

func writeModelsOutput(cmd *cobra.Command, app *app, session *application.Session, models []domain.ModelDescriptor, asJSON bool) error {
	if asJSON {
		out := make([]modelOutput, 0, len(models))
		for _, descriptor := range models {
			out = append(out, modelOutput{ID: descriptor.ID, Object: descriptor.Object, OwnedBy: descriptor.OwnedBy})
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	rendered, err := app.modelsRenderer(models, transcript.ModelsOptions{
		Now:   app.clock.Now(),
		Token: session.Token(),
	})
	if err != nil {
		return fmt.Errorf("render models: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
