package ports

import (
	"context"
	"io"

	"github.com/bnema/gigachat-cli/internal/domain"
)

type CompletionRequest struct {
	Messages   []domain.Message
	Generation domain.GenerationConfig
}

// CompletionAPI is the HTTP surface of the completion service.
//
// CreateCompletion returns the raw response body of a 200 response with a
// non-empty body. Other statuses and empty bodies come back as
// *domain.ServiceError; network failures wrap domain.ErrTransport.
type CompletionAPI interface {
	ListModels(ctx context.Context, accessToken string) ([]domain.ModelDescriptor, error)
	CreateCompletion(ctx context.Context, accessToken string, req CompletionRequest) (io.ReadCloser, error)
}
