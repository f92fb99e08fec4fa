package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvProviderReadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twitch.env")
	require.NoError(t, os.WriteFile(path, []byte("CLIENT_ID=file-id\nCLIENT_SECRET=file-secret\n"), 0o600))

	provider, err := NewEnvProvider(path)
	require.NoError(t, err)

	id, err := provider.GetSecret(context.Background(), "CLIENT_ID")
	require.NoError(t, err)
	assert.Equal(t, "file-id", id)
}

func TestEnvProviderPrefersEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twitch.env")
	require.NoError(t, os.WriteFile(path, []byte("CLIENT_ID=file-id\n"), 0o600))
	t.Setenv("CLIENT_ID", "env-id")

	provider, err := NewEnvProvider(path)
	require.NoError(t, err)

	id, err := provider.GetSecret(context.Background(), "CLIENT_ID")
	require.NoError(t, err)
	assert.Equal(t, "env-id", id)
}

func TestEnvProviderToleratesMissingFile(t *testing.T) {
	t.Setenv("CLIENT_SECRET", "env-secret")

	provider, err := NewEnvProvider(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	secret, err := provider.GetSecret(context.Background(), "CLIENT_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "env-secret", secret)

	_, err = provider.GetSecret(context.Background(), "TWITCH_SECRETS_TEST_UNSET")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaticProvider(t *testing.T) {
	provider := Static{"CLIENT_ID": " id "}

	id, err := provider.GetSecret(context.Background(), "CLIENT_ID")
	require.NoError(t, err)
	assert.Equal(t, "id", id)

	_, err = provider.GetSecret(context.Background(), "CLIENT_SECRET")
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = provider.GetSecret(ctx, "CLIENT_ID")
	assert.ErrorIs(t, err, context.Canceled)
}
