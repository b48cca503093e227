package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/bnema/gigachat-cli/internal/ports"
)

const diagnosticFormat = "[GigaChat transport failure: %v]"

type SessionOptions struct {
	SystemPrompt string
	StripChars   string
	Generation   domain.GenerationConfig
	Logger       *slog.Logger
}

// Session owns one conversation and the token used to extend it. Only one
// Respond stream may be open at a time.
type Session struct {
	tokens       *TokenManager
	api          ports.CompletionAPI
	conversation *domain.Conversation
	generation   domain.GenerationConfig
	stripChars   string
	logger       *slog.Logger
	busy         atomic.Bool
}

func NewSession(tokens *TokenManager, api ports.CompletionAPI, opts SessionOptions) (*Session, error) {
	if tokens == nil {
		return nil, errors.New("token manager is nil")
	}
	if api == nil {
		return nil, errors.New("completion api is nil")
	}
	if err := opts.Generation.Validate(); err != nil {
		return nil, fmt.Errorf("validate generation config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Session{
		tokens:       tokens,
		api:          api,
		conversation: domain.NewConversation(opts.SystemPrompt),
		generation:   opts.Generation,
		stripChars:   opts.StripChars,
		logger:       logger,
	}, nil
}

func (s *Session) Models(ctx context.Context) ([]domain.ModelDescriptor, error) {
	if !s.tokens.EnsureValid(ctx) {
		return nil, fmt.Errorf("list models: %w", domain.ErrAuthentication)
	}

	models, err := s.api.ListModels(ctx, s.tokens.AccessToken())
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	return models, nil
}

// Respond sends text, with substitutions applied, as the next user turn.
//
// The user turn and the answer are appended to the conversation together when
// the returned stream is exhausted without error. A transport failure yields a
// stream carrying one diagnostic fragment; authentication and service failures
// are returned as errors. In every failure case the conversation is unchanged.
func (s *Session) Respond(ctx context.Context, text string, substitutions []domain.Substitution) (*Stream, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrSessionBusy
	}
	release := func() { s.busy.Store(false) }

	if !s.tokens.EnsureValid(ctx) {
		release()
		return nil, fmt.Errorf("respond: %w", domain.ErrAuthentication)
	}

	user := domain.Message{
		Role:    domain.RoleUser,
		Content: domain.ApplySubstitutions(text, substitutions),
	}
	req := ports.CompletionRequest{
		Messages:   s.conversation.With(user),
		Generation: s.generation,
	}

	s.logger.Debug("requesting completion",
		slog.String("model", s.generation.Model),
		slog.Bool("stream", s.generation.Stream),
		slog.Int("messages", len(req.Messages)),
	)

	body, err := s.api.CreateCompletion(ctx, s.tokens.AccessToken(), req)
	if err != nil {
		if errors.Is(err, domain.ErrTransport) {
			s.logger.Warn("completion request failed", slog.Any("error", err))
			source := &diagnosticSource{
				message: fmt.Sprintf(diagnosticFormat, err),
				err:     fmt.Errorf("respond: %w", err),
			}
			return newStream(source, "", nil, release), nil
		}

		release()
		return nil, fmt.Errorf("respond: %w", err)
	}

	var source fragmentSource
	if s.generation.Stream {
		source = newEventSource(body)
	} else {
		source = &bufferedSource{body: body, stripChars: s.stripChars}
	}

	commit := func(answer string) {
		s.commit(user, domain.Message{Role: domain.RoleAssistant, Content: answer})
	}

	return newStream(source, s.stripChars, commit, release), nil
}

func (s *Session) commit(user, assistant domain.Message) {
	for _, message := range []domain.Message{user, assistant} {
		if err := s.conversation.Append(message.Role, message.Content); err != nil {
			s.logger.Error("append message", slog.Any("error", err))
		}
	}
}

func (s *Session) Conversation() []domain.Message {
	return s.conversation.Messages()
}

func (s *Session) Generation() domain.GenerationConfig {
	return s.generation
}

func (s *Session) Token() domain.Token {
	return s.tokens.Token()
}
