package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretRef = "gigachat/default/client_secret"

func TestPassStorePutUsesPassInsert(t *testing.T) {
	t.Parallel()

	called := false
	store := &PassStore{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, []string{"insert", "-m", "-f", testSecretRef}, args)
			assert.Equal(t, "top-secret\n", input)
			return "", "", nil
		},
	}

	err := store.Put(context.Background(), testSecretRef, "top-secret")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestPassStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := &PassStore{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", testSecretRef}, args)
			assert.Empty(t, input)
			return "top-secret\r\nurl: https://developers.sber.ru\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), testSecretRef)
	require.NoError(t, err)
	assert.Equal(t, "top-secret", value)
}

func TestPassStoreDeleteUsesPassRemove(t *testing.T) {
	t.Parallel()

	store := &PassStore{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "-f", testSecretRef}, args)
			return "", "", nil
		},
	}

	require.NoError(t, store.Delete(context.Background(), testSecretRef))
}

func TestPassStoreGetMapsMissingEntryToNotFound(t *testing.T) {
	t.Parallel()

	store := &PassStore{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "Error: gigachat/default/client_secret is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), testSecretRef)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestPassStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &PassStore{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "gpg: decryption failed", errors.New("exit status 2")
		},
	}

	_, err := store.Get(context.Background(), testSecretRef)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, testSecretRef)
	assert.ErrorContains(t, err, "decryption failed")
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
}
