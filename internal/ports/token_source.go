package ports

import (
	"context"

	"github.com/bnema/gigachat-cli/internal/domain"
)

// TokenSource performs one credential exchange against the OAuth endpoint.
type TokenSource interface {
	Acquire(ctx context.Context) (domain.Token, error)
}
