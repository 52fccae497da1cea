// Package credstore persists client-side session credentials (bearer
// token plus the user object, always written and cleared together) and
// the per-chat conversation state of the bot.
package credstore

import (
	"context"
	"time"

	"wayfare/internal/models"
)

// Session is the persisted credential pair. A session without a token
// can exist right after registration, before the first login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SessionStore stores one Session per owner key.
// Get returns (nil, nil) when no session is stored.
type SessionStore interface {
	GetSession(ctx context.Context, ownerID int64) (*Session, error)
	SetSession(ctx context.Context, ownerID int64, s *Session) error
	ClearSession(ctx context.Context, ownerID int64) error
}

// StateStore keeps bot conversation state and message rate limits.
type StateStore interface {
	GetState(ctx context.Context, chatID int64) (*models.ChatState, error)
	SetState(ctx context.Context, state *models.ChatState) error
	ClearState(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

// Store combines both concerns for the bot wiring.
type Store interface {
	SessionStore
	StateStore
}

// Source reads the current token for one owner on every call, so the
// HTTP client always sees the freshest credentials.
type Source struct {
	store   SessionStore
	ownerID int64
}

func NewSource(store SessionStore, ownerID int64) *Source {
	return &Source{store: store, ownerID: ownerID}
}

// Token returns the stored bearer token, or "" when absent or on any
// storage error. An unreadable store degrades to anonymous requests.
func (s *Source) Token(ctx context.Context) string {
	sess, err := s.store.GetSession(ctx, s.ownerID)
	if err != nil || sess == nil {
		return ""
	}
	return sess.Token
}
