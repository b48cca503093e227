package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireSendsClientCredentialsRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/oauth", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Basic c2VjcmV0", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, domain.DefaultScope, r.Form.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_at":1767225600}`))
	}))
	t.Cleanup(server.Close)

	adapter := NewClientCredentialsAdapter(domain.Credentials{
		OAuthBaseURL: server.URL + "/api/v2",
		ClientSecret: "c2VjcmV0",
		Scope:        domain.DefaultScope,
	}, server.Client())

	token, err := adapter.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token.AccessToken)
	assert.True(t, token.ExpiresAt.Equal(time.Unix(1767225600, 0)))
}

func TestAcquireParsesMillisecondExpiry(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok-ms","expires_at":1767225600123}`))
	}))
	t.Cleanup(server.Close)

	adapter := ClientCredentialsAdapter{
		API:          API{BaseURL: server.URL},
		ClientSecret: "secret",
		Scope:        domain.DefaultScope,
		HTTPClient:   server.Client(),
		NewRequestID: func() string { return "fixed-id" },
	}

	token, err := adapter.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, token.ExpiresAt.Equal(time.UnixMilli(1767225600123)))
}

func TestAcquireUsesInjectedRequestID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fixed-id", r.Header.Get(RequestIDHeader))
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_at":1}`))
	}))
	t.Cleanup(server.Close)

	adapter := ClientCredentialsAdapter{
		API:          API{BaseURL: server.URL},
		ClientSecret: "secret",
		HTTPClient:   server.Client(),
		NewRequestID: func() string { return "fixed-id" },
	}

	_, err := adapter.Acquire(context.Background())
	require.NoError(t, err)
}

func TestAcquireReturnsServiceErrorOnUnauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":6,"message":"credentials doesn't match db data"}`))
	}))
	t.Cleanup(server.Close)

	adapter := ClientCredentialsAdapter{
		API:          API{BaseURL: server.URL},
		ClientSecret: "wrong",
		HTTPClient:   server.Client(),
	}

	_, err := adapter.Acquire(context.Background())
	require.Error(t, err)

	var serviceErr *domain.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, http.StatusUnauthorized, serviceErr.StatusCode)
	assert.Equal(t, "credentials doesn't match db data", serviceErr.Body)
	assert.Contains(t, err.Error(), "request access token")
}

func TestAcquireReturnsServiceErrorOnEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	adapter := ClientCredentialsAdapter{
		API:          API{BaseURL: server.URL},
		ClientSecret: "secret",
		HTTPClient:   server.Client(),
	}

	_, err := adapter.Acquire(context.Background())

	var serviceErr *domain.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, http.StatusOK, serviceErr.StatusCode)
}

func TestAcquireRejectsResponseWithoutToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"expires_at":1767225600}`))
	}))
	t.Cleanup(server.Close)

	adapter := ClientCredentialsAdapter{
		API:          API{BaseURL: server.URL},
		ClientSecret: "secret",
		HTTPClient:   server.Client(),
	}

	_, err := adapter.Acquire(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing access token")
}

func TestAcquireWrapsTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	adapter := ClientCredentialsAdapter{
		API:          API{BaseURL: baseURL},
		ClientSecret: "secret",
	}

	_, err := adapter.Acquire(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
}

func TestAcquireTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"access_token":"late","expires_at":1}`))
	}))
	t.Cleanup(server.Close)

	adapter := ClientCredentialsAdapter{
		API:            API{BaseURL: server.URL},
		ClientSecret:   "secret",
		HTTPClient:     server.Client(),
		RequestTimeout: 20 * time.Millisecond,
	}

	_, err := adapter.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestAcquireRequiresClientSecret(t *testing.T) {
	t.Parallel()

	_, err := ClientCredentialsAdapter{API: API{BaseURL: "https://example.com"}}.Acquire(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client secret is required")
}
