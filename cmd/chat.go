package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bnema/gigachat-cli/internal/adapters/render/transcript"
	"github.com/bnema/gigachat-cli/internal/application"
	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/spf13/cobra"
)

const (
	historyCommand = "/history"
	modelsCommand  = "/models"
	copyCommand    = "/copy"
	maxInputLine   = 1 << 20
)

func newChatCmd(app *app, root *rootOptions) *cobra.Command {
	flags := &generationFlags{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive dialogue",
		Long:  "chat lists the available models, then reads one prompt per line and prints each answer. An empty line ends the dialogue. Lines starting with a slash are commands: /history, /models, /copy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			substitutions, err := parseSubstitutions(flags.substitutions)
			if err != nil {
				return err
			}

			session, err := app.newSession(cmd.Context(), domain.ProfileID(root.profile), flags.overrides(cmd))
			if err != nil {
				return err
			}

			models, err := fetchModels(cmd, session)
			if err != nil {
				return err
			}
			if err := writeModelsOutput(cmd, app, session, models, false); err != nil {
				return err
			}

			d := dialogue{
				app:           app,
				session:       session,
				substitutions: substitutions,
				in:            cmd.InOrStdin(),
				out:           cmd.OutOrStdout(),
				errOut:        cmd.ErrOrStderr(),
				cmd:           cmd,
			}
			return d.run(cmd.Context())
		},
	}
	flags.register(cmd)

	return cmd
}

type dialogue struct {
	app           *app
	session       *application.Session
	substitutions []domain.Substitution
	in            io.Reader
	out           io.Writer
	errOut        io.Writer
	cmd           *cobra.Command
}

func (d dialogue) run(ctx context.Context) error {
	scanner := bufio.NewScanner(d.in)
	scanner.Buffer(make([]byte, 0, 4096), maxInputLine)

	for {
		turn := userTurns(d.session.Conversation()) + 1
		_, _ = fmt.Fprintf(d.out, "%s ", transcript.TurnHeader(turn, domain.RoleUser))

		if !scanner.Scan() {
			_, _ = fmt.Fprintln(d.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			return nil
		case historyCommand:
			if err := d.printHistory(); err != nil {
				return err
			}
			continue
		case copyCommand:
			d.copyLastAnswer()
			continue
		case modelsCommand:
			models, err := fetchModels(d.cmd, d.session)
			if err != nil {
				d.report(err)
				continue
			}
			if err := writeModelsOutput(d.cmd, d.app, d.session, models, false); err != nil {
				return err
			}
			continue
		}

		_, _ = fmt.Fprintf(d.out, "%s ", transcript.TurnHeader(turn, domain.RoleAssistant))
		err := streamAnswer(ctx, d.out, d.errOut, d.session, line, d.substitutions)
		if err != nil {
			if errors.Is(err, domain.ErrAuthentication) || errors.Is(err, context.Canceled) {
				return err
			}
			d.report(err)
		}
		_, _ = fmt.Fprintln(d.out, transcript.Separator())
	}
}

func (d dialogue) printHistory() error {
	rendered, err := d.app.transcriptRenderer(d.session.Conversation())
	if err != nil {
		return fmt.Errorf("render transcript: %w", err)
	}

	_, err = fmt.Fprintln(d.out, rendered)
	return err
}

func (d dialogue) copyLastAnswer() {
	messages := d.session.Conversation()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != domain.RoleAssistant {
			continue
		}
		if err := d.app.copyToClipboard(messages[i].Content); err != nil {
			d.report(fmt.Errorf("copy answer: %w", err))
			return
		}
		_, _ = fmt.Fprintln(d.out, "Copied answer to clipboard.")
		return
	}

	_, _ = fmt.Fprintln(d.out, "Nothing to copy yet.")
}

func (d dialogue) report(err error) {
	d.app.logger.Debug("turn failed", slog.Any("error", err))
	_, _ = fmt.Fprintf(d.errOut, "Error: %v\n", err)
}

func userTurns(messages []domain.Message) int {
	count := 0
	for _, message := range messages {
		if message.Role == domain.RoleUser {
			count++
		}
	}
	return count
}
