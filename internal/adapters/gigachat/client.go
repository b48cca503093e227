package gigachat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/gigachat-cli/internal/adapters/httpclient"
	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/bnema/gigachat-cli/internal/ports"
)

const (
	DefaultModelsPath      = "models"
	DefaultCompletionsPath = "chat/completions"
	maxModelsResponseBytes = 1 << 20
	maxErrorBodyBytes      = 512
)

type API struct {
	BaseURL         string
	ModelsPath      string
	CompletionsPath string
}

// Client talks to the chat completion and model listing endpoints.
// Completion bodies are handed back unread so the caller can decode them
// buffered or as an event stream.
type Client struct {
	API            API
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.CompletionAPI = Client{}

func NewClient(baseURL string, client *http.Client) Client {
	return Client{
		API: API{
			BaseURL:         baseURL,
			ModelsPath:      DefaultModelsPath,
			CompletionsPath: DefaultCompletionsPath,
		},
		HTTPClient: client,
	}
}

type modelsResponse struct {
	Data []struct {
		ID      string `json:"id"`
		Object  string `json:"object"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionPayload struct {
	MaxTokens         int           `json:"max_tokens"`
	Model             string        `json:"model"`
	Messages          []chatMessage `json:"messages"`
	N                 int           `json:"n"`
	RepetitionPenalty float64       `json:"repetition_penalty"`
	Stream            bool          `json:"stream"`
	Temperature       float64       `json:"temperature"`
	TopP              float64       `json:"top_p"`
	UpdateInterval    float64       `json:"update_interval"`
}

func (c Client) ListModels(ctx context.Context, accessToken string) ([]domain.ModelDescriptor, error) {
	endpoint, err := httpclient.JoinURL(c.API.BaseURL, pathOr(c.API.ModelsPath, DefaultModelsPath))
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create models request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w: %w", domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, newServiceError("list models", resp)
	}

	var payload modelsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxModelsResponseBytes)).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &domain.ServiceError{Op: "list models", StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode models response: %w", err)
	}

	models := make([]domain.ModelDescriptor, 0, len(payload.Data))
	for _, item := range payload.Data {
		models = append(models, domain.ModelDescriptor{
			ID:      item.ID,
			Object:  item.Object,
			OwnedBy: item.OwnedBy,
		})
	}

	return models, nil
}

// CreateCompletion posts the transcript and returns the open response body.
// The caller owns the body and must close it. The request context stays
// attached to the body, so no default timeout is applied here; long streams
// are bounded by the caller's context and the client's transport timeouts.
func (c Client) CreateCompletion(ctx context.Context, accessToken string, request ports.CompletionRequest) (io.ReadCloser, error) {
	endpoint, err := httpclient.JoinURL(c.API.BaseURL, pathOr(c.API.CompletionsPath, DefaultCompletionsPath))
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(newCompletionPayload(request))
	if err != nil {
		return nil, fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create completion request: %w", err)
	}
	if request.Generation.Stream {
		req.Header.Set("Content-Type", "text/event-stream")
		req.Header.Set("Accept", "text/event-stream")
	} else {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("create completion: %w: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, newServiceError("create completion", resp)
	}

	reader := bufio.NewReader(resp.Body)
	if _, err := reader.Peek(1); err != nil {
		_ = resp.Body.Close()
		if errors.Is(err, io.EOF) {
			return nil, &domain.ServiceError{Op: "create completion", StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("create completion: %w: %w", domain.ErrTransport, err)
	}

	return &responseBody{Reader: reader, closer: resp.Body}, nil
}

func newCompletionPayload(request ports.CompletionRequest) completionPayload {
	messages := make([]chatMessage, 0, len(request.Messages))
	for _, message := range request.Messages {
		messages = append(messages, chatMessage{Role: string(message.Role), Content: message.Content})
	}

	generation := request.Generation
	return completionPayload{
		MaxTokens:         generation.MaxTokens,
		Model:             generation.Model,
		Messages:          messages,
		N:                 generation.N,
		RepetitionPenalty: generation.RepetitionPenalty,
		Stream:            generation.Stream,
		Temperature:       generation.Temperature,
		TopP:              generation.TopP,
		UpdateInterval:    generation.UpdateInterval.Seconds(),
	}
}

type responseBody struct {
	*bufio.Reader
	closer io.Closer
}

func (b *responseBody) Close() error {
	return b.closer.Close()
}

func newServiceError(op string, resp *http.Response) *domain.ServiceError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return &domain.ServiceError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
	}
}

func pathOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}
