// Package session tracks which user, if any, is currently signed in.
// The manager is an explicit dependency handed to front ends rather
// than ambient global state; interested parties subscribe for changes.
package session

import (
	"context"
	"sync"
	"time"

	"wayfare/internal/backend"
	"wayfare/internal/credstore"
	"wayfare/internal/models"
	"wayfare/internal/token"

	"github.com/rs/zerolog"
)

type Status int

const (
	// StatusInitializing holds while a stored token is being verified
	// on startup. Gates suspend rendering until it resolves.
	StatusInitializing Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	Status Status
	User   *models.User
}

func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

func (s Snapshot) HasRole(role string) bool {
	return s.User != nil && s.User.Role == role
}

func (s Snapshot) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

type Manager struct {
	client  *backend.Client
	store   credstore.SessionStore
	ownerID int64
	logger  *zerolog.Logger

	mu     sync.RWMutex
	status Status
	user   *models.User

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewManager binds the client to the store's token, so a stored token
// rides along on every request and a cleared one never does.
func NewManager(client *backend.Client, store credstore.SessionStore, ownerID int64, logger *zerolog.Logger) *Manager {
	return &Manager{
		client:  client.Bound(credstore.NewSource(store, ownerID)),
		store:   store,
		ownerID: ownerID,
		logger:  logger,
		status:  StatusInitializing,
		subs:    make(map[int]func(Snapshot)),
	}
}

// Client returns the token-bound client for domain calls made on
// behalf of this session.
func (m *Manager) Client() *backend.Client {
	return m.client
}

// Load resolves the initializing state from stored credentials. Every
// verification failure, storage errors included, degrades to anonymous;
// an invalid session must never take the app down.
func (m *Manager) Load(ctx context.Context) Snapshot {
	sess, err := m.store.GetSession(ctx, m.ownerID)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Credential store unreadable, starting anonymous")
		return m.setState(StatusAnonymous, nil)
	}
	if sess == nil || sess.Token == "" || sess.User == nil {
		// No network call without a stored token.
		return m.setState(StatusAnonymous, nil)
	}

	if token.ExpiringSoon(sess.Token, 5*time.Minute) {
		m.logger.Warn().Msg("Stored token expires soon")
	}

	if _, err := m.client.Profile(ctx); err != nil {
		m.logger.Info().Err(err).Msg("Stored token failed verification, clearing session")
		if clearErr := m.store.ClearSession(ctx, m.ownerID); clearErr != nil {
			m.logger.Warn().Err(clearErr).Msg("Failed to clear stale session")
		}
		return m.setState(StatusAnonymous, nil)
	}

	// The stored copy of the user stays authoritative for display;
	// profile responses are only used as a liveness check here.
	return m.setState(StatusAuthenticated, sess.User)
}

func (m *Manager) Login(ctx context.Context, req backend.LoginRequest) (*models.User, error) {
	resp, err := m.client.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		// Defensive: a login without a token leaves state untouched.
		return resp.User, nil
	}

	if err := m.store.SetSession(ctx, m.ownerID, &credstore.Session{Token: resp.Token, User: resp.User}); err != nil {
		return nil, err
	}
	m.setState(StatusAuthenticated, resp.User)
	return resp.User, nil
}

// Register creates an account. The backend issues no token on
// registration; the user object is held so the UI can greet them, and
// they sign in separately.
func (m *Manager) Register(ctx context.Context, req backend.RegisterRequest) (*models.User, error) {
	user, err := m.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := m.store.SetSession(ctx, m.ownerID, &credstore.Session{User: user}); err != nil {
		return nil, err
	}
	m.setState(StatusAuthenticated, user)
	return user, nil
}

// Logout is purely local: both stored keys go away together, the
// server-side token is not invalidated.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.store.ClearSession(ctx, m.ownerID)
	m.setState(StatusAnonymous, nil)
	return err
}

func (m *Manager) UpdateProfile(ctx context.Context, req backend.UpdateProfileRequest) (*models.User, error) {
	user, err := m.client.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}

	sess, getErr := m.store.GetSession(ctx, m.ownerID)
	if getErr != nil || sess == nil {
		sess = &credstore.Session{}
	}
	sess.User = user
	if err := m.store.SetSession(ctx, m.ownerID, sess); err != nil {
		return nil, err
	}
	m.setState(m.Snapshot().Status, user)
	return user, nil
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Status: m.status, User: m.user}
}

func (m *Manager) Authenticated() bool {
	return m.Snapshot().Authenticated()
}

func (m *Manager) HasRole(role string) bool {
	return m.Snapshot().HasRole(role)
}

func (m *Manager) HasAnyRole(roles ...string) bool {
	return m.Snapshot().HasAnyRole(roles...)
}

// Subscribe registers a listener for session changes and returns the
// matching unsubscribe.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) setState(status Status, user *models.User) Snapshot {
	m.mu.Lock()
	m.status = status
	m.user = user
	snap := Snapshot{Status: status, User: user}
	m.mu.Unlock()

	m.subMu.Lock()
	listeners := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		listeners = append(listeners, fn)
	}
	m.subMu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}
