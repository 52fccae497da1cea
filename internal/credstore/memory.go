package credstore

import (
	"context"
	"sync"
	"time"

	"wayfare/internal/models"
)

// MemoryStore backs the bot when redis is unavailable and the tests.
type MemoryStore struct {
	sessions   sync.Map
	states     sync.Map
	rateLimits sync.Map
	mu         sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) GetSession(ctx context.Context, ownerID int64) (*Session, error) {
	val, ok := m.sessions.Load(ownerID)
	if !ok {
		return nil, nil
	}
	return val.(*Session), nil
}

func (m *MemoryStore) SetSession(ctx context.Context, ownerID int64, s *Session) error {
	m.sessions.Store(ownerID, s)
	return nil
}

func (m *MemoryStore) ClearSession(ctx context.Context, ownerID int64) error {
	m.sessions.Delete(ownerID)
	return nil
}

func (m *MemoryStore) GetState(ctx context.Context, chatID int64) (*models.ChatState, error) {
	val, ok := m.states.Load(chatID)
	if !ok {
		return nil, nil
	}
	return val.(*models.ChatState), nil
}

func (m *MemoryStore) SetState(ctx context.Context, state *models.ChatState) error {
	m.states.Store(state.ChatID, state)
	return nil
}

func (m *MemoryStore) ClearState(ctx context.Context, chatID int64) error {
	m.states.Delete(chatID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (m *MemoryStore) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var entry *rateLimitEntry
	if val, ok := m.rateLimits.Load(chatID); ok {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 0
			entry.expiresAt = now.Add(window)
		}
	} else {
		entry = &rateLimitEntry{expiresAt: now.Add(window)}
	}
	entry.count++
	m.rateLimits.Store(chatID, entry)

	return entry.count <= limit, nil
}
