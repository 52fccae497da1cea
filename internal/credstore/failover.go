package credstore

import (
	"context"
	"sync/atomic"
	"time"

	"wayfare/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStore serves from primary (redis) until it errors, then from
// fallback (memory), probing primary again after a minute.
type FailoverStore struct {
	primary   Store
	fallback  Store
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverStore(primary, fallback Store, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

const recoveryProbeInterval = time.Minute

// usePrimary reports whether the primary should take this call.
func (r *FailoverStore) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	last := time.Unix(r.lastCheck.Load(), 0)
	return time.Since(last) > recoveryProbeInterval
}

func (r *FailoverStore) markFailed(err error) {
	r.logger.Error().Err(err).Msg("Primary credential store failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().Unix())
}

func (r *FailoverStore) markRecovered() {
	if r.isDown.Swap(false) {
		r.logger.Info().Msg("Primary credential store recovered")
	}
}

func (r *FailoverStore) GetSession(ctx context.Context, ownerID int64) (*Session, error) {
	if r.usePrimary() {
		sess, err := r.primary.GetSession(ctx, ownerID)
		if err == nil {
			r.markRecovered()
			return sess, nil
		}
		r.markFailed(err)
	}
	return r.fallback.GetSession(ctx, ownerID)
}

func (r *FailoverStore) SetSession(ctx context.Context, ownerID int64, s *Session) error {
	if r.usePrimary() {
		err := r.primary.SetSession(ctx, ownerID, s)
		if err == nil {
			r.markRecovered()
			return nil
		}
		r.markFailed(err)
	}
	return r.fallback.SetSession(ctx, ownerID, s)
}

func (r *FailoverStore) ClearSession(ctx context.Context, ownerID int64) error {
	if r.usePrimary() {
		err := r.primary.ClearSession(ctx, ownerID)
		if err == nil {
			r.markRecovered()
			return nil
		}
		r.markFailed(err)
	}
	return r.fallback.ClearSession(ctx, ownerID)
}

func (r *FailoverStore) GetState(ctx context.Context, chatID int64) (*models.ChatState, error) {
	if r.usePrimary() {
		state, err := r.primary.GetState(ctx, chatID)
		if err == nil {
			r.markRecovered()
			return state, nil
		}
		r.markFailed(err)
	}
	return r.fallback.GetState(ctx, chatID)
}

func (r *FailoverStore) SetState(ctx context.Context, state *models.ChatState) error {
	if r.usePrimary() {
		err := r.primary.SetState(ctx, state)
		if err == nil {
			r.markRecovered()
			return nil
		}
		r.markFailed(err)
	}
	return r.fallback.SetState(ctx, state)
}

func (r *FailoverStore) ClearState(ctx context.Context, chatID int64) error {
	if r.usePrimary() {
		err := r.primary.ClearState(ctx, chatID)
		if err == nil {
			r.markRecovered()
			return nil
		}
		r.markFailed(err)
	}
	return r.fallback.ClearState(ctx, chatID)
}

func (r *FailoverStore) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, chatID, limit, window)
		if err == nil {
			r.markRecovered()
			return allowed, nil
		}
		r.markFailed(err)
	}
	return r.fallback.CheckRateLimit(ctx, chatID, limit, window)
}
