package secrets

import (
	"context"
	"testing"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvStoreGetReadsBoundVariable(t *testing.T) {
	t.Parallel()

	store := NewEnvStore(DefaultEnvBindings())
	store.lookup = func(name string) (string, bool) {
		assert.Equal(t, ClientSecretEnv, name)
		return " c2VjcmV0 \n", true
	}

	value, err := store.Get(context.Background(), domain.ClientSecretRef(domain.DefaultProfileID))
	require.NoError(t, err)
	assert.Equal(t, "c2VjcmV0", value)
}

func TestEnvStoreGetReportsNotFound(t *testing.T) {
	t.Parallel()

	store := NewEnvStore(DefaultEnvBindings())
	store.lookup = func(string) (string, bool) { return "", false }

	testCases := []struct {
		name string
		key  string
	}{
		{name: "unset variable", key: domain.ClientSecretRef(domain.DefaultProfileID)},
		{name: "unbound ref", key: domain.ClientSecretRef("work")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Get(context.Background(), tc.key)
			require.ErrorIs(t, err, domain.ErrSecretNotFound)
		})
	}
}

func TestEnvStoreIsReadOnly(t *testing.T) {
	t.Parallel()

	store := NewEnvStore(DefaultEnvBindings())

	require.ErrorIs(t, store.Put(context.Background(), "key", "value"), ErrReadOnly)
	require.ErrorIs(t, store.Delete(context.Background(), "key"), ErrReadOnly)
}
