package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/gigachat-cli/internal/ports"
)

var errEmptyChain = errors.New("secret chain needs at least one store")

// Chain tries its stores in order. The first success wins; a canceled or
// expired context stops the walk immediately.
type Chain struct {
	stores []ports.SecretStore
}

var _ ports.SecretStore = (*Chain)(nil)

func NewChain(stores ...ports.SecretStore) (*Chain, error) {
	if len(stores) == 0 {
		return nil, errEmptyChain
	}
	for i, store := range stores {
		if store == nil {
			return nil, fmt.Errorf("secret store %d is nil", i)
		}
	}

	return &Chain{stores: append([]ports.SecretStore(nil), stores...)}, nil
}

// NewDefaultChain reads GIGACHAT_CLIENT_SECRET first, then pass, then the
// file store under fileRoot.
func NewDefaultChain(fileRoot string) (*Chain, error) {
	return NewChain(NewEnvStore(DefaultEnvBindings()), NewPassStore(), NewFileStore(fileRoot))
}

func (c *Chain) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for _, store := range c.stores {
		value, err := store.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldSkipFallback(err) {
			return "", err
		}
		errs = append(errs, err)
	}

	return "", fmt.Errorf("get secret %q: %w", key, errors.Join(errs...))
}

func (c *Chain) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for _, store := range c.stores {
		err := store.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = append(errs, err)
	}

	return fmt.Errorf("put secret %q: %w", key, errors.Join(errs...))
}

func (c *Chain) Delete(ctx context.Context, key string) error {
	var errs []error
	for _, store := range c.stores {
		err := store.Delete(ctx, key)
		if err == nil {
			return nil
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = append(errs, err)
	}

	return fmt.Errorf("delete secret %q: %w", key, errors.Join(errs...))
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
