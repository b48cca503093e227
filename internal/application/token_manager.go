package application

import (
	"context"
	"log/slog"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/bnema/gigachat-cli/internal/ports"
)

// TokenManager holds the bearer token of one session. It re-acquires a token
// when none is held or the held one has expired; tokens that are merely close
// to expiry are left alone.
type TokenManager struct {
	source ports.TokenSource
	clock  ports.Clock
	logger *slog.Logger
	token  domain.Token
}

func NewTokenManager(source ports.TokenSource, clock ports.Clock, logger *slog.Logger) *TokenManager {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &TokenManager{
		source: source,
		clock:  clock,
		logger: logger,
	}
}

// Acquire runs one credential exchange. Failures are logged and reported as
// the absent token.
func (m *TokenManager) Acquire(ctx context.Context) domain.Token {
	token, err := m.source.Acquire(ctx)
	if err != nil {
		m.logger.Error("failed to obtain access token", slog.Any("error", err))
		return domain.Token{}
	}
	if !token.Present() {
		m.logger.Error("failed to obtain access token", slog.String("reason", "empty access token"))
		return domain.Token{}
	}

	m.logger.Debug("obtained access token", slog.Time("expires_at", token.ExpiresAt))
	return token
}

func (m *TokenManager) EnsureValid(ctx context.Context) bool {
	if m.token.Usable(m.clock.Now()) {
		return true
	}

	if m.token.Present() {
		m.logger.Debug("access token expired", slog.Time("expired_at", m.token.ExpiresAt))
	}

	m.token = m.Acquire(ctx)
	if !m.token.Present() {
		return false
	}

	return m.token.Usable(m.clock.Now())
}

func (m *TokenManager) AccessToken() string {
	return m.token.AccessToken
}

func (m *TokenManager) Token() domain.Token {
	return m.token
}
