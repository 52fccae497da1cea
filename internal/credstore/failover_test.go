package credstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"wayfare/internal/logging"
	"wayfare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every call until fixed.
type brokenStore struct {
	*MemoryStore
	broken bool
}

var errStoreDown = errors.New("store down")

func (b *brokenStore) GetSession(ctx context.Context, ownerID int64) (*Session, error) {
	if b.broken {
		return nil, errStoreDown
	}
	return b.MemoryStore.GetSession(ctx, ownerID)
}

func (b *brokenStore) SetSession(ctx context.Context, ownerID int64, s *Session) error {
	if b.broken {
		return errStoreDown
	}
	return b.MemoryStore.SetSession(ctx, ownerID, s)
}

func (b *brokenStore) SetState(ctx context.Context, state *models.ChatState) error {
	if b.broken {
		return errStoreDown
	}
	return b.MemoryStore.SetState(ctx, state)
}

func (b *brokenStore) GetState(ctx context.Context, chatID int64) (*models.ChatState, error) {
	if b.broken {
		return nil, errStoreDown
	}
	return b.MemoryStore.GetState(ctx, chatID)
}

func TestFailoverStore(t *testing.T) {
	ctx := context.Background()

	t.Run("PrimaryHealthy", func(t *testing.T) {
		primary := &brokenStore{MemoryStore: NewMemoryStore()}
		fallback := NewMemoryStore()
		fo := NewFailoverStore(primary, fallback, logging.Discard())

		require.NoError(t, fo.SetSession(ctx, 1, &Session{Token: "a.b.c"}))

		got, err := primary.MemoryStore.GetSession(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, got, "healthy primary should receive writes")
	})

	t.Run("FallsBackOnFailure", func(t *testing.T) {
		primary := &brokenStore{MemoryStore: NewMemoryStore(), broken: true}
		fallback := NewMemoryStore()
		fo := NewFailoverStore(primary, fallback, logging.Discard())

		require.NoError(t, fo.SetSession(ctx, 2, &Session{Token: "x.y.z"}))

		got, err := fallback.GetSession(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "x.y.z", got.Token)

		// while primary is down, reads come from fallback without probing
		sess, err := fo.GetSession(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, "x.y.z", sess.Token)
	})

	t.Run("RecoversAfterProbeInterval", func(t *testing.T) {
		primary := &brokenStore{MemoryStore: NewMemoryStore(), broken: true}
		fallback := NewMemoryStore()
		fo := NewFailoverStore(primary, fallback, logging.Discard())

		_ = fo.SetState(ctx, &models.ChatState{ChatID: 3, CurrentStep: models.StepMainMenu})
		assert.True(t, fo.isDown.Load())

		primary.broken = false
		// pretend the failure happened long ago
		fo.lastCheck.Store(time.Now().Add(-2 * time.Minute).Unix())

		require.NoError(t, fo.SetState(ctx, &models.ChatState{ChatID: 3, CurrentStep: models.StepSelectStay}))
		assert.False(t, fo.isDown.Load())

		got, err := primary.MemoryStore.GetState(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.StepSelectStay, got.CurrentStep)
	})
}
