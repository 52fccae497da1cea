package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"wayfare/internal/backend"
	"wayfare/internal/config"
	"wayfare/internal/credstore"
	"wayfare/internal/logging"
	"wayfare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records calls and serves canned auth responses.
type fakeBackend struct {
	mux        *http.ServeMux
	meCalls    atomic.Int64
	lastAuth   atomic.Value
	loginToken string
	meStatus   int
}

func newFakeBackend() *fakeBackend {
	f := &fakeBackend{mux: http.NewServeMux(), loginToken: "h.p.s", meStatus: http.StatusOK}
	f.lastAuth.Store("")

	f.mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.meCalls.Add(1)
		f.lastAuth.Store(r.Header.Get("Authorization"))
		if f.meStatus != http.StatusOK {
			w.WriteHeader(f.meStatus)
			_, _ = w.Write([]byte(`{"error":"invalid token"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(models.User{ID: 1, Name: "Alice", Role: models.RoleTourist})
	})
	f.mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req backend.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"bad credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(backend.LoginResponse{
			Token: f.loginToken,
			User:  &models.User{ID: 1, Name: "Alice", Email: req.Email, Role: models.RoleTourist},
		})
	})
	f.mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req backend.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(models.User{ID: 2, Name: req.Name, Email: req.Email, Role: req.Role})
	})
	f.mux.HandleFunc("/accommodations", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})
	return f
}

func newTestManager(t *testing.T) (*Manager, *fakeBackend, *credstore.MemoryStore) {
	t.Helper()
	fake := newFakeBackend()
	srv := httptest.NewServer(fake.mux)
	t.Cleanup(srv.Close)

	client, err := backend.New(config.BackendConfig{BaseURL: srv.URL}, logging.Discard())
	require.NoError(t, err)

	store := credstore.NewMemoryStore()
	return NewManager(client, store, 0, logging.Discard()), fake, store
}

func TestManager_LoadWithoutToken(t *testing.T) {
	mgr, fake, _ := newTestManager(t)

	assert.Equal(t, StatusInitializing, mgr.Snapshot().Status)

	snap := mgr.Load(context.Background())
	assert.Equal(t, StatusAnonymous, snap.Status)
	assert.False(t, snap.Authenticated())
	assert.Equal(t, int64(0), fake.meCalls.Load(), "no stored token must mean no network call")
}

func TestManager_LoadVerifiesStoredToken(t *testing.T) {
	ctx := context.Background()

	t.Run("VerifiedOK", func(t *testing.T) {
		mgr, fake, store := newTestManager(t)
		stored := &credstore.Session{Token: "h.p.s", User: &models.User{ID: 1, Name: "Stored Alice", Role: models.RoleTourist}}
		require.NoError(t, store.SetSession(ctx, 0, stored))

		snap := mgr.Load(ctx)
		assert.Equal(t, StatusAuthenticated, snap.Status)
		assert.Equal(t, "Stored Alice", snap.User.Name, "stored user copy is what gets displayed")
		assert.Equal(t, int64(1), fake.meCalls.Load())
		assert.Equal(t, "Bearer h.p.s", fake.lastAuth.Load())
	})

	t.Run("VerificationFailureIsSwallowed", func(t *testing.T) {
		mgr, fake, store := newTestManager(t)
		fake.meStatus = http.StatusUnauthorized
		require.NoError(t, store.SetSession(ctx, 0, &credstore.Session{Token: "h.p.s", User: &models.User{ID: 1}}))

		snap := mgr.Load(ctx)
		assert.Equal(t, StatusAnonymous, snap.Status)

		sess, err := store.GetSession(ctx, 0)
		require.NoError(t, err)
		assert.Nil(t, sess, "stale credentials are cleared together")
	})

	t.Run("UserWithoutTokenIsAnonymous", func(t *testing.T) {
		mgr, fake, store := newTestManager(t)
		require.NoError(t, store.SetSession(ctx, 0, &credstore.Session{User: &models.User{ID: 2}}))

		snap := mgr.Load(ctx)
		assert.Equal(t, StatusAnonymous, snap.Status)
		assert.Equal(t, int64(0), fake.meCalls.Load())
	})
}

func TestManager_LoginAndLogout(t *testing.T) {
	mgr, fake, store := newTestManager(t)
	ctx := context.Background()
	mgr.Load(ctx)

	t.Run("BadCredentials", func(t *testing.T) {
		_, err := mgr.Login(ctx, backend.LoginRequest{Email: "a@b.c", Password: "wrong"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad credentials")
		assert.False(t, mgr.Authenticated())
	})

	t.Run("Success", func(t *testing.T) {
		user, err := mgr.Login(ctx, backend.LoginRequest{Email: "a@b.c", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
		assert.True(t, mgr.Authenticated())
		assert.True(t, mgr.HasRole(models.RoleTourist))
		assert.True(t, mgr.HasAnyRole(models.RoleHost, models.RoleTourist))
		assert.False(t, mgr.HasAnyRole(models.RoleHost, models.RoleDriver))

		sess, err := store.GetSession(ctx, 0)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, "h.p.s", sess.Token)
	})

	t.Run("SubsequentCallsCarryToken", func(t *testing.T) {
		_, err := mgr.Client().Accommodations(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Bearer h.p.s", fake.lastAuth.Load())
	})

	t.Run("LogoutDropsToken", func(t *testing.T) {
		require.NoError(t, mgr.Logout(ctx))
		assert.False(t, mgr.Authenticated())

		_, err := mgr.Client().Accommodations(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", fake.lastAuth.Load(), "no Authorization header after logout")
	})
}

func TestManager_RegisterIssuesNoToken(t *testing.T) {
	mgr, _, store := newTestManager(t)
	ctx := context.Background()
	mgr.Load(ctx)

	user, err := mgr.Register(ctx, backend.RegisterRequest{Name: "Bob", Email: "bob@x.y", Password: "pw", Role: models.RoleHost})
	require.NoError(t, err)
	assert.Equal(t, "Bob", user.Name)
	assert.True(t, mgr.Authenticated(), "a held user object counts as authenticated")

	sess, err := store.GetSession(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Empty(t, sess.Token)

	// a fresh start with no token falls back to anonymous
	snap := mgr.Load(ctx)
	assert.Equal(t, StatusAnonymous, snap.Status)
}

func TestManager_Subscribe(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	var seen []Status
	unsubscribe := mgr.Subscribe(func(s Snapshot) {
		seen = append(seen, s.Status)
	})

	mgr.Load(ctx)
	_, err := mgr.Login(ctx, backend.LoginRequest{Email: "a@b.c", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, mgr.Logout(ctx))

	assert.Equal(t, []Status{StatusAnonymous, StatusAuthenticated, StatusAnonymous}, seen)

	unsubscribe()
	_, _ = mgr.Login(ctx, backend.LoginRequest{Email: "a@b.c", Password: "secret"})
	assert.Len(t, seen, 3, "unsubscribed listeners stay quiet")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "initializing", StatusInitializing.String())
	assert.Equal(t, "authenticated", StatusAuthenticated.String())
	assert.Equal(t, "anonymous", StatusAnonymous.String())
}
