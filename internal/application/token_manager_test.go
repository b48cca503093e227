package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/bnema/gigachat-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerEnsureValidAcquiresWhenAbsent(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	source := mocks.NewMockTokenSource(t)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(now).Maybe()

	token := domain.Token{AccessToken: "tok-1", ExpiresAt: now.Add(30 * time.Minute)}
	source.EXPECT().Acquire(mockAnyContext()).Return(token, nil).Once()

	manager := NewTokenManager(source, clock, nil)

	assert.True(t, manager.EnsureValid(context.Background()))
	assert.True(t, manager.EnsureValid(context.Background()))
	assert.Equal(t, "tok-1", manager.AccessToken())
	assert.Equal(t, token, manager.Token())
}

func TestTokenManagerEnsureValidRefreshesExpiredToken(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)}
	source := mocks.NewMockTokenSource(t)

	first := domain.Token{AccessToken: "tok-1", ExpiresAt: clock.now.Add(time.Minute)}
	second := domain.Token{AccessToken: "tok-2", ExpiresAt: clock.now.Add(31 * time.Minute)}
	source.EXPECT().Acquire(mockAnyContext()).Return(first, nil).Once()
	source.EXPECT().Acquire(mockAnyContext()).Return(second, nil).Once()

	manager := NewTokenManager(source, clock, nil)
	require.True(t, manager.EnsureValid(context.Background()))

	clock.now = clock.now.Add(59 * time.Second)
	require.True(t, manager.EnsureValid(context.Background()))
	assert.Equal(t, "tok-1", manager.AccessToken(), "a token close to expiry is not refreshed")

	clock.now = clock.now.Add(2 * time.Second)
	require.True(t, manager.EnsureValid(context.Background()))
	assert.Equal(t, "tok-2", manager.AccessToken())
}

func TestTokenManagerEnsureValidFailsWhenAcquireFails(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)}
	source := mocks.NewMockTokenSource(t)
	logger, logs := bufferLogger()

	source.EXPECT().Acquire(mockAnyContext()).Return(domain.Token{}, &domain.ServiceError{Op: "request access token", StatusCode: 401}).Once()

	manager := NewTokenManager(source, clock, logger)

	assert.False(t, manager.EnsureValid(context.Background()))
	assert.Empty(t, manager.AccessToken())
	assert.Contains(t, logs.String(), "failed to obtain access token")
	assert.Contains(t, logs.String(), "status 401")
}

func TestTokenManagerAcquireTreatsEmptyTokenAsAbsent(t *testing.T) {
	source := mocks.NewMockTokenSource(t)
	source.EXPECT().Acquire(mockAnyContext()).Return(domain.Token{ExpiresAt: time.Now().Add(time.Hour)}, nil)

	manager := NewTokenManager(source, nil, nil)

	assert.Equal(t, domain.Token{}, manager.Acquire(context.Background()))
}

func TestTokenManagerEnsureValidMatchesTokenUsability(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token domain.Token
		err   error
		want  bool
	}{
		{name: "valid", token: domain.Token{AccessToken: "a", ExpiresAt: now.Add(time.Second)}, want: true},
		{name: "already expired", token: domain.Token{AccessToken: "a", ExpiresAt: now.Add(-time.Second)}, want: false},
		{name: "no expiry", token: domain.Token{AccessToken: "a"}, want: false},
		{name: "rejected", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := mocks.NewMockTokenSource(t)
			source.EXPECT().Acquire(mockAnyContext()).Return(tt.token, tt.err).Once()

			manager := NewTokenManager(source, &fixedClock{now: now}, nil)

			assert.Equal(t, tt.want, manager.EnsureValid(context.Background()))
		})
	}
}
