package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/bnema/gigachat-cli/internal/adapters/auth"
	"github.com/bnema/gigachat-cli/internal/adapters/gigachat"
	"github.com/bnema/gigachat-cli/internal/adapters/httpclient"
	"github.com/bnema/gigachat-cli/internal/adapters/render/transcript"
	tomlrepo "github.com/bnema/gigachat-cli/internal/adapters/repo/toml"
	"github.com/bnema/gigachat-cli/internal/adapters/secrets"
	"github.com/bnema/gigachat-cli/internal/application"
	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/bnema/gigachat-cli/internal/ports"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".gigachat"
	envPrefix  = "GIGACHAT"

	apiURLKey                 = "api.url"
	oauthURLKey               = "oauth.url"
	httpTimeoutKey            = "http.timeout"
	httpInsecureSkipVerifyKey = "http.insecure_skip_verify"
	httpCAFileKey             = "http.ca_file"
	logLevelKey               = "log.level"
)

// writeClipboard is swapped out in tests; headless CI has no clipboard.
var writeClipboard = clipboard.WriteAll

type app struct {
	cfg                *viper.Viper
	profiles           ports.ProfileRepository
	secretStore        ports.SecretStore
	httpClient         *http.Client
	clock              ports.Clock
	logLevel           *slog.LevelVar
	logger             *slog.Logger
	modelsRenderer     func([]domain.ModelDescriptor, transcript.ModelsOptions) (string, error)
	transcriptRenderer func([]domain.Message) (string, error)
	copyToClipboard    func(string) error
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	fileRoot, err := secrets.DefaultFileRoot()
	if err != nil {
		return nil, err
	}
	secretStore, err := secrets.NewDefaultChain(fileRoot)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	httpClient, err := httpclient.New(
		httpclient.WithTimeout(cfg.GetDuration(httpTimeoutKey)),
		httpclient.WithInsecureSkipVerify(cfg.GetBool(httpInsecureSkipVerifyKey)),
		httpclient.WithCAFile(cfg.GetString(httpCAFileKey)),
	)
	if err != nil {
		return nil, fmt.Errorf("wire http client: %w", err)
	}

	logLevel := new(slog.LevelVar)
	if raw := cfg.GetString(logLevelKey); raw != "" {
		if err := logLevel.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", logLevelKey, err)
		}
	}

	return &app{
		cfg:                cfg,
		profiles:           repo,
		secretStore:        secretStore,
		httpClient:         httpClient,
		clock:              ports.SystemClock{},
		logLevel:           logLevel,
		logger:             newLogger(os.Stderr, logLevel),
		modelsRenderer:     transcript.RenderModels,
		transcriptRenderer: transcript.RenderTranscript,
		copyToClipboard:    writeClipboard,
	}, nil
}

// loadConfig reads ~/.gigachat/config.toml when present. Every key can be
// overridden from the environment as GIGACHAT_<SECTION>_<KEY>.
func loadConfig() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(httpTimeoutKey, time.Duration(0))
	cfg.SetDefault(httpInsecureSkipVerifyKey, false)
	cfg.SetDefault(logLevelKey, "info")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type sessionOverrides struct {
	model  string
	stream *bool
}

func (a *app) loadProfile(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	profile, err := a.profiles.GetByID(ctx, id)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("load profile %q: %w", id, err)
	}

	if override := a.cfg.GetString(apiURLKey); override != "" {
		profile.APIBaseURL = override
	}
	if override := a.cfg.GetString(oauthURLKey); override != "" {
		profile.OAuthBaseURL = override
	}

	return profile, nil
}

func (a *app) newSession(ctx context.Context, id domain.ProfileID, overrides sessionOverrides) (*application.Session, error) {
	profile, err := a.loadProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	secret, err := a.secretStore.Get(ctx, profile.ClientSecretRef)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return nil, fmt.Errorf("client secret for profile %q not found: set %s or run \"gchat profile set %s --client-secret <secret>\": %w",
				profile.ID, secrets.ClientSecretEnv, profile.ID, err)
		}
		return nil, fmt.Errorf("resolve client secret for profile %q: %w", profile.ID, err)
	}

	creds := profile.Credentials(secret)
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("validate profile %q: %w", profile.ID, err)
	}

	generation := profile.Generation
	if overrides.model != "" {
		generation.Model = overrides.model
	}
	if overrides.stream != nil {
		generation.Stream = *overrides.stream
	}

	logger := a.logger.With(slog.String("profile", string(profile.ID)))
	tokens := application.NewTokenManager(auth.NewClientCredentialsAdapter(creds, a.httpClient), a.clock, logger)

	return application.NewSession(tokens, gigachat.NewClient(creds.APIBaseURL, a.httpClient), application.SessionOptions{
		SystemPrompt: profile.SystemPrompt,
		StripChars:   profile.StripChars,
		Generation:   generation,
		Logger:       logger,
	})
}
