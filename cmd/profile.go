package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *app, root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage connection profiles",
	}

	cmd.AddCommand(
		newProfileListCmd(app, root),
		newProfileShowCmd(app, root),
		newProfileSetCmd(app, root),
	)

	return cmd
}

func newProfileListCmd(app *app, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := app.profiles.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, profile := range profiles {
				marker := " "
				if string(profile.ID) == root.profile {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s\n", marker, profile.ID, profile.Name, profile.Generation.Model)
			}

			return nil
		},
	}
}

func newProfileShowCmd(app *app, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [profile]",
		Short: "Show a profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := profileArg(root, args)
			profile, err := app.loadProfile(cmd.Context(), id)
			if err != nil {
				return err
			}

			secretState := "set"
			if _, err := app.secretStore.Get(cmd.Context(), profile.ClientSecretRef); err != nil {
				if !errors.Is(err, domain.ErrSecretNotFound) {
					return err
				}
				secretState = "missing"
			}

			writeProfile(cmd.OutOrStdout(), profile, secretState)
			return nil
		},
	}
}

type profileSetFlags struct {
	name              string
	apiURL            string
	oauthURL          string
	scope             string
	clientSecret      string
	systemPrompt      string
	stripChars        string
	model             string
	temperature       float64
	topP              float64
	repetitionPenalty float64
	maxTokens         int
	n                 int
	stream            bool
	updateInterval    time.Duration
}

func newProfileSetCmd(app *app, root *rootOptions) *cobra.Command {
	flags := &profileSetFlags{}

	cmd := &cobra.Command{
		Use:   "set [profile]",
		Short: "Create or update a profile",
		Long:  "set creates the profile when it does not exist and updates only the fields given as flags. --client-secret stores the authorization key in the secret store, never in the profile file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := profileArg(root, args)

			profile, err := app.profiles.GetByID(cmd.Context(), id)
			if err != nil {
				if !errors.Is(err, domain.ErrProfileNotFound) {
					return err
				}
				profile = domain.DefaultProfile()
				profile.ID = id
				profile.Name = string(id)
				profile.ClientSecretRef = domain.ClientSecretRef(id)
			}

			flags.apply(cmd, &profile)

			if err := app.profiles.Save(cmd.Context(), profile); err != nil {
				return err
			}

			if cmd.Flags().Changed("client-secret") {
				if strings.TrimSpace(flags.clientSecret) == "" {
					return errors.New("client secret must not be empty")
				}
				if err := app.secretStore.Put(cmd.Context(), profile.ClientSecretRef, flags.clientSecret); err != nil {
					return fmt.Errorf("store client secret: %w", err)
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "profile %s saved\n", profile.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "display name")
	cmd.Flags().StringVar(&flags.apiURL, "api-url", "", "API base URL")
	cmd.Flags().StringVar(&flags.oauthURL, "oauth-url", "", "OAuth base URL")
	cmd.Flags().StringVar(&flags.scope, "scope", "", "OAuth scope (GIGACHAT_API_PERS, GIGACHAT_API_B2B, GIGACHAT_API_CORP)")
	cmd.Flags().StringVar(&flags.clientSecret, "client-secret", "", "authorization key to store in the secret store")
	cmd.Flags().StringVar(&flags.systemPrompt, "system-prompt", "", "system prompt that opens every conversation")
	cmd.Flags().StringVar(&flags.stripChars, "strip-chars", "", "characters trimmed from both ends of answers")
	cmd.Flags().StringVar(&flags.model, "model", "", "model name")
	cmd.Flags().Float64Var(&flags.temperature, "temperature", domain.DefaultTemperature, "sampling temperature")
	cmd.Flags().Float64Var(&flags.topP, "top-p", domain.DefaultTopP, "nucleus sampling threshold")
	cmd.Flags().Float64Var(&flags.repetitionPenalty, "repetition-penalty", domain.DefaultRepetitionPenalty, "repetition penalty")
	cmd.Flags().IntVar(&flags.maxTokens, "max-tokens", domain.DefaultMaxTokens, "maximum answer length in tokens")
	cmd.Flags().IntVar(&flags.n, "n", domain.DefaultCandidateCount, "number of candidates")
	cmd.Flags().BoolVar(&flags.stream, "stream", false, "stream answers by default")
	cmd.Flags().DurationVar(&flags.updateInterval, "update-interval", 0, "minimum interval between streamed chunks")

	return cmd
}

func (f *profileSetFlags) apply(cmd *cobra.Command, profile *domain.Profile) {
	changed := cmd.Flags().Changed

	if changed("name") {
		profile.Name = f.name
	}
	if changed("api-url") {
		profile.APIBaseURL = f.apiURL
	}
	if changed("oauth-url") {
		profile.OAuthBaseURL = f.oauthURL
	}
	if changed("scope") {
		profile.Scope = f.scope
	}
	if changed("system-prompt") {
		profile.SystemPrompt = f.systemPrompt
	}
	if changed("strip-chars") {
		profile.StripChars = f.stripChars
	}
	if changed("model") {
		profile.Generation.Model = f.model
	}
	if changed("temperature") {
		profile.Generation.Temperature = f.temperature
	}
	if changed("top-p") {
		profile.Generation.TopP = f.topP
	}
	if changed("repetition-penalty") {
		profile.Generation.RepetitionPenalty = f.repetitionPenalty
	}
	if changed("max-tokens") {
		profile.Generation.MaxTokens = f.maxTokens
	}
	if changed("n") {
		profile.Generation.N = f.n
	}
	if changed("stream") {
		profile.Generation.Stream = f.stream
	}
	if changed("update-interval") {
		profile.Generation.UpdateInterval = f.updateInterval
	}
}

func profileArg(root *rootOptions, args []string) domain.ProfileID {
	if len(args) > 0 {
		return domain.ProfileID(args[0])
	}
	return domain.ProfileID(root.profile)
}

func writeProfile(w io.Writer, profile domain.Profile, secretState string) {
	generation := profile.Generation
	rows := [][2]string{
		{"id", string(profile.ID)},
		{"name", profile.Name},
		{"api_base_url", profile.APIBaseURL},
		{"oauth_base_url", profile.OAuthBaseURL},
		{"scope", profile.Scope},
		{"client_secret_ref", profile.ClientSecretRef},
		{"client_secret", secretState},
		{"system_prompt", profile.SystemPrompt},
		{"strip_chars", strconv.Quote(profile.StripChars)},
		{"model", generation.Model},
		{"temperature", strconv.FormatFloat(generation.Temperature, 'g', -1, 64)},
		{"top_p", strconv.FormatFloat(generation.TopP, 'g', -1, 64)},
		{"repetition_penalty", strconv.FormatFloat(generation.RepetitionPenalty, 'g', -1, 64)},
		{"max_tokens", strconv.Itoa(generation.MaxTokens)},
		{"n", strconv.Itoa(generation.N)},
		{"stream", strconv.FormatBool(generation.Stream)},
		{"update_interval", generation.UpdateInterval.String()},
	}

	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s: %s\n", row[0], row[1])
	}
}
