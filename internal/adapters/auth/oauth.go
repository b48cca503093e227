package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/gigachat-cli/internal/adapters/httpclient"
	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/bnema/gigachat-cli/internal/ports"
	"github.com/google/uuid"
)

const (
	DefaultTokenPath      = "oauth"
	RequestIDHeader       = "RqUID"
	maxOAuthResponseBytes = 1 << 20
	maxErrorBodyBytes     = 512
)

type API struct {
	BaseURL   string
	TokenPath string
}

// ClientCredentialsAdapter exchanges the shared client secret for a bearer
// token. The secret is sent as-is after "Basic "; it is already the base64
// encoded client_id:client_secret pair issued by the provider.
type ClientCredentialsAdapter struct {
	API            API
	ClientSecret   string
	Scope          string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	NewRequestID   func() string
}

var _ ports.TokenSource = ClientCredentialsAdapter{}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type oauthErrorResponse struct {
	Code             int    `json:"code"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func NewClientCredentialsAdapter(creds domain.Credentials, client *http.Client) ClientCredentialsAdapter {
	return ClientCredentialsAdapter{
		API: API{
			BaseURL:   creds.OAuthBaseURL,
			TokenPath: DefaultTokenPath,
		},
		ClientSecret: creds.ClientSecret,
		Scope:        creds.Scope,
		HTTPClient:   client,
	}
}

func (a ClientCredentialsAdapter) Acquire(ctx context.Context) (domain.Token, error) {
	if strings.TrimSpace(a.ClientSecret) == "" {
		return domain.Token{}, errors.New("client secret is required")
	}

	tokenPath := a.API.TokenPath
	if tokenPath == "" {
		tokenPath = DefaultTokenPath
	}
	endpoint, err := httpclient.JoinURL(a.API.BaseURL, tokenPath)
	if err != nil {
		return domain.Token{}, err
	}

	values := url.Values{}
	values.Set("scope", a.Scope)

	requestCtx, cancel := a.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return domain.Token{}, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+a.ClientSecret)
	req.Header.Set(RequestIDHeader, a.requestID())

	resp, err := a.httpClient().Do(req)
	if err != nil {
		return domain.Token{}, fmt.Errorf("request access token: %w: %w", domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOAuthResponseBytes))
	if err != nil {
		return domain.Token{}, fmt.Errorf("read token response: %w: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK || len(bytes.TrimSpace(body)) == 0 {
		return domain.Token{}, &domain.ServiceError{
			Op:         "request access token",
			StatusCode: resp.StatusCode,
			Body:       describeOAuthError(body),
		}
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Token{}, fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return domain.Token{}, errors.New("token response missing access token")
	}

	return domain.Token{
		AccessToken: payload.AccessToken,
		ExpiresAt:   domain.EpochTime(payload.ExpiresAt),
	}, nil
}

func (a ClientCredentialsAdapter) httpClient() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

func (a ClientCredentialsAdapter) requestID() string {
	if a.NewRequestID != nil {
		return a.NewRequestID()
	}
	return uuid.NewString()
}

func (a ClientCredentialsAdapter) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := a.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func describeOAuthError(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var oauthErr oauthErrorResponse
	if err := json.Unmarshal(trimmed, &oauthErr); err == nil {
		switch {
		case oauthErr.Message != "":
			return oauthErr.Message
		case oauthErr.Error != "" && oauthErr.ErrorDescription != "":
			return oauthErr.Error + ": " + oauthErr.ErrorDescription
		case oauthErr.Error != "":
			return oauthErr.Error
		}
	}

	if len(trimmed) > maxErrorBodyBytes {
		trimmed = trimmed[:maxErrorBodyBytes]
	}
	return string(trimmed)
}
