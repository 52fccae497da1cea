package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wayfare/internal/backend"
	"wayfare/internal/config"
	"wayfare/internal/credstore"
	"wayfare/internal/logging"
	"wayfare/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	updatesChan chan tgbotapi.Update
	sent        []tgbotapi.Chattable
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.sent = append(m.sent, c)
	return tgbotapi.Message{}, nil
}

func (m *mockSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *mockSender) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updatesChan
}

func (m *mockSender) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "test_bot"}
}

func (m *mockSender) StopReceivingUpdates() {}

func (m *mockSender) texts() []string {
	var out []string
	for _, c := range m.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (m *mockSender) lastText() string {
	texts := m.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "header.payload.signature",
			"user":  models.User{ID: 1, Name: "Anna", Email: body["email"], Role: models.RoleTourist},
		})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing token"})
			return
		}
		_ = json.NewEncoder(w).Encode(models.User{ID: 1, Name: "Anna", Email: "anna@example.com", Role: models.RoleTourist})
	})
	mux.HandleFunc("/accommodations", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Accommodation{
			{ID: 1, Title: "Морская вилла", Location: "Сочи", PricePerNight: 100, Capacity: 4, Available: true},
		})
	})
	mux.HandleFunc("/accommodations/1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Accommodation{
			ID: 1, Title: "Морская вилла", Location: "Сочи", PricePerNight: 100, Capacity: 4, Available: true,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestBot(t *testing.T, baseURL string) (*Bot, *mockSender, credstore.Store) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Backend.BaseURL = baseURL
	cfg.Bot.PaginationSize = models.DefaultPaginationSize
	cfg.Bot.RateLimitMessages = models.RateLimitMessages
	cfg.Bot.RateLimitWindow = models.RateLimitWindow

	client, err := backend.New(cfg.Backend, logging.Discard())
	require.NoError(t, err)

	store := credstore.NewMemoryStore()
	tg := &mockSender{updatesChan: make(chan tgbotapi.Update, 1)}

	b, err := NewBot(tg, cfg, store, client, nil, nil, logging.Discard())
	require.NoError(t, err)
	return b, tg, store
}

func message(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: chatID, UserName: "tester"},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

func callback(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: chatID},
			Data:    data,
			Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: chatID}},
		},
	}
}

func TestStartShowsMainMenu(t *testing.T) {
	srv := newTestBackend(t)
	b, tg, _ := newTestBot(t, srv.URL)

	b.processUpdate(context.Background(), message(100, "/start"))

	require.NotEmpty(t, tg.texts())
	assert.Contains(t, tg.lastText(), "Добро пожаловать")
	assert.Contains(t, tg.lastText(), "Войдите или зарегистрируйтесь")
}

func TestLoginFlow(t *testing.T) {
	srv := newTestBackend(t)
	b, tg, store := newTestBot(t, srv.URL)
	ctx := context.Background()

	b.processUpdate(ctx, message(100, btnLogin))
	assert.Contains(t, tg.lastText(), "email")

	b.processUpdate(ctx, message(100, "anna@example.com"))
	assert.Contains(t, tg.lastText(), "пароль")

	b.processUpdate(ctx, message(100, "secret123"))
	assert.Contains(t, tg.lastText(), "С возвращением, Anna")

	sess, err := store.GetSession(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "header.payload.signature", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, models.RoleTourist, sess.User.Role)

	state, err := store.GetState(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestLoginFlowBadPassword(t *testing.T) {
	srv := newTestBackend(t)
	b, tg, store := newTestBot(t, srv.URL)
	ctx := context.Background()

	b.processUpdate(ctx, message(100, btnLogin))
	b.processUpdate(ctx, message(100, "anna@example.com"))
	b.processUpdate(ctx, message(100, "wrongpass"))

	assert.Contains(t, tg.lastText(), "Не удалось войти")

	sess, err := store.GetSession(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestBookingRequiresAuth(t *testing.T) {
	srv := newTestBackend(t)
	b, tg, _ := newTestBot(t, srv.URL)

	b.processUpdate(context.Background(), callback(100, "book_stay:1"))

	assert.Contains(t, tg.lastText(), "нужно войти")
}

func TestStayBookingFlow(t *testing.T) {
	srv := newTestBackend(t)
	b, tg, store := newTestBot(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, store.SetSession(ctx, 100, &credstore.Session{
		Token: "header.payload.signature",
		User:  &models.User{ID: 1, Name: "Anna", Role: models.RoleTourist},
	}))

	b.processUpdate(ctx, callback(100, "book_stay:1"))
	assert.Contains(t, tg.lastText(), "дату заезда")

	b.processUpdate(ctx, message(100, "01.09.2026"))
	assert.Contains(t, tg.lastText(), "дату выезда")

	b.processUpdate(ctx, message(100, "03.09.2026"))
	assert.Contains(t, tg.lastText(), "гостей")

	b.processUpdate(ctx, message(100, "2"))
	summary := tg.lastText()
	assert.Contains(t, summary, "Проверьте заявку")
	// Две ночи по 100
	assert.Contains(t, summary, "200.00")

	state, err := store.GetState(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.StepConfirmBooking, state.CurrentStep)
	assert.Equal(t, models.KindAccommodation, state.GetString("kind"))
}

func TestGuestsOverCapacity(t *testing.T) {
	srv := newTestBackend(t)
	b, tg, store := newTestBot(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, store.SetSession(ctx, 100, &credstore.Session{
		Token: "header.payload.signature",
		User:  &models.User{ID: 1, Name: "Anna", Role: models.RoleTourist},
	}))

	b.processUpdate(ctx, callback(100, "book_stay:1"))
	b.processUpdate(ctx, message(100, "01.09.2026"))
	b.processUpdate(ctx, message(100, "03.09.2026"))
	b.processUpdate(ctx, message(100, "10"))

	assert.Contains(t, tg.lastText(), "вместимость")

	state, err := store.GetState(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.StepEnterGuests, state.CurrentStep)
}

func TestCancelResetsState(t *testing.T) {
	srv := newTestBackend(t)
	b, tg, store := newTestBot(t, srv.URL)
	ctx := context.Background()

	b.processUpdate(ctx, message(100, btnLogin))
	b.processUpdate(ctx, message(100, btnCancel))

	assert.Contains(t, tg.lastText(), "отменено")

	state, err := store.GetState(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestRateLimitExceeded(t *testing.T) {
	srv := newTestBackend(t)
	b, tg, _ := newTestBot(t, srv.URL)
	b.config.Bot.RateLimitMessages = 1

	ctx := context.Background()
	b.processUpdate(ctx, message(100, "/start"))
	b.processUpdate(ctx, message(100, "/start"))

	assert.Contains(t, tg.lastText(), "слишком часто")
}

func TestHostDashboardForbiddenForTourist(t *testing.T) {
	srv := newTestBackend(t)
	b, tg, store := newTestBot(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, store.SetSession(ctx, 100, &credstore.Session{
		Token: "header.payload.signature",
		User:  &models.User{ID: 1, Name: "Anna", Role: models.RoleTourist},
	}))

	b.processUpdate(ctx, message(100, btnHostDashboard))

	assert.Contains(t, tg.lastText(), "только владельцам")
}

func TestParseUserDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"25.12.2026", "2026-12-25", false},
		{"2026-12-25", "2026-12-25", false},
		{" 01.09.2026 ", "2026-09-01", false},
		{"tomorrow", "", true},
		{"32.01.2026", "", true},
	}
	for _, tc := range cases {
		got, err := parseUserDate(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}
