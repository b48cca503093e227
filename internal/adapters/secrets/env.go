package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/bnema/gigachat-cli/internal/ports"
)

const ClientSecretEnv = "GIGACHAT_CLIENT_SECRET"

var ErrReadOnly = errors.New("secret store is read-only")

// EnvStore resolves secret refs from environment variables. Each ref must be
// bound to a variable name; unbound refs are reported as not found.
type EnvStore struct {
	bindings map[string]string
	lookup   func(string) (string, bool)
}

var _ ports.SecretStore = (*EnvStore)(nil)

func NewEnvStore(bindings map[string]string) *EnvStore {
	copied := make(map[string]string, len(bindings))
	for ref, name := range bindings {
		copied[ref] = name
	}

	return &EnvStore{bindings: copied, lookup: os.LookupEnv}
}

// DefaultEnvBindings maps the default profile's secret ref to GIGACHAT_CLIENT_SECRET.
func DefaultEnvBindings() map[string]string {
	return map[string]string{
		domain.ClientSecretRef(domain.DefaultProfileID): ClientSecretEnv,
	}
}

func (s *EnvStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, ok := s.bindings[key]
	if !ok {
		return "", fmt.Errorf("env secret %q: %w", key, domain.ErrSecretNotFound)
	}

	value, ok := s.lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("env secret %q: %s unset: %w", key, name, domain.ErrSecretNotFound)
	}

	return strings.TrimSpace(value), nil
}

func (s *EnvStore) Put(ctx context.Context, key string, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("env secret %q: %w", key, ErrReadOnly)
}

func (s *EnvStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("env secret %q: %w", key, ErrReadOnly)
}
