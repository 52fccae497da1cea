// Package bot is the Telegram front end. Each chat gets its own
// session manager and booking store, so one bot process serves many
// independently authenticated users.
package bot

import (
	"context"
	"os"
	"sync"
	"time"

	"wayfare/internal/backend"
	"wayfare/internal/config"
	"wayfare/internal/credstore"
	"wayfare/internal/metrics"
	"wayfare/internal/models"
	"wayfare/internal/session"
	"wayfare/internal/trips"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TelegramSender abstracts the Telegram API for tests.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type Bot struct {
	tg       TelegramSender
	config   *config.Config
	store    credstore.Store
	client   *backend.Client
	recorder trips.Recorder
	mirror   trips.Mirror
	logger   *zerolog.Logger

	mu       sync.Mutex
	runtimes map[int64]*chatRuntime
}

// chatRuntime is the per-chat slice of the client state.
type chatRuntime struct {
	session *session.Manager
	trips   *trips.Store
}

func NewBot(
	tg TelegramSender,
	cfg *config.Config,
	store credstore.Store,
	client *backend.Client,
	recorder trips.Recorder,
	mirror trips.Mirror,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tg:       tg,
		config:   cfg,
		store:    store,
		client:   client,
		recorder: recorder,
		mirror:   mirror,
		logger:   logger,
		runtimes: make(map[int64]*chatRuntime),
	}, nil
}

// runtime returns the chat's session manager and booking store,
// creating them on first contact.
func (b *Bot) runtime(chatID int64) *chatRuntime {
	b.mu.Lock()
	defer b.mu.Unlock()

	rt, ok := b.runtimes[chatID]
	if !ok {
		mgr := session.NewManager(b.client, b.store, chatID, b.logger)
		rt = &chatRuntime{
			session: mgr,
			trips:   trips.NewStore(mgr.Client(), chatID, b.recorder, b.mirror, b.logger),
		}
		b.runtimes[chatID] = rt
	}
	return rt
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tg.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tg.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

// Stop stops receiving Telegram updates (best-effort).
func (b *Bot) Stop() {
	if b == nil || b.tg == nil {
		return
	}
	b.tg.StopReceivingUpdates()
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	// Создаем контекст для обработки каждого обновления
	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		var chatID int64
		switch {
		case update.Message != nil:
			chatID = update.Message.Chat.ID
		case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
			chatID = update.CallbackQuery.Message.Chat.ID
		}
		if chatID == 0 {
			return
		}

		limit := b.config.Bot.RateLimitMessages
		if limit <= 0 {
			limit = models.RateLimitMessages
		}
		window := b.config.Bot.RateLimitWindow
		if window <= 0 {
			window = models.RateLimitWindow
		}
		allowed, err := b.store.CheckRateLimit(updateCtx, chatID, limit, time.Duration(window)*time.Second)
		if err != nil {
			l.Error().Err(err).Int64("chat_id", chatID).Msg("Rate limit check failed")
		} else if !allowed {
			l.Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
			if update.Message != nil {
				b.sendMessage(chatID, "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного.")
			}
			return
		}

		if update.CallbackQuery != nil {
			metrics.IncBotUpdate("callback")
			b.handleCallbackQuery(updateCtx, update)
			return
		}

		if update.Message == nil {
			return
		}

		metrics.IncBotUpdate("message")
		b.handleMessage(updateCtx, update)
	})
}
