package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"wayfare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "credentials.json")
	store := NewFileStore(path)
	ctx := context.Background()

	t.Run("GetBeforeSet", func(t *testing.T) {
		got, err := store.GetSession(ctx, 0)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		sess := &Session{
			Token: "a.b.c",
			User:  &models.User{ID: 2, Name: "Dana", Email: "dana@example.com", Role: models.RoleDriver},
		}
		require.NoError(t, store.SetSession(ctx, 0, sess))

		got, err := store.GetSession(ctx, 0)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "a.b.c", got.Token)
		assert.Equal(t, "Dana", got.User.Name)
	})

	t.Run("FilePermissions", func(t *testing.T) {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.ClearSession(ctx, 0))
		got, err := store.GetSession(ctx, 0)
		require.NoError(t, err)
		assert.Nil(t, got)

		// clearing twice is fine
		require.NoError(t, store.ClearSession(ctx, 0))
	})

	t.Run("CorruptFile", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		_, err := store.GetSession(ctx, 0)
		assert.Error(t, err)
	})
}
