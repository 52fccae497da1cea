package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfare/internal/backend"
	"wayfare/internal/bot"
	"wayfare/internal/config"
	"wayfare/internal/credstore"
	"wayfare/internal/history"
	"wayfare/internal/logging"
	"wayfare/internal/metrics"
	"wayfare/internal/models"
	"wayfare/internal/sheets"
	"wayfare/internal/trips"
	"wayfare/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if cfg.Exports.Path != "" {
		if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
			logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := backend.New(cfg.Backend, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации клиента API")
		return err
	}

	redisClient, store := initStore(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	recorder, historyStore, err := initHistory(cfg, &logger)
	if err != nil {
		return err
	}
	if historyStore != nil {
		defer historyStore.Close()
	}

	mirror := initMirror(ctx, cfg, &logger)

	startMetrics(ctx, cfg, &logger)

	return startBot(ctx, cfg, store, client, recorder, mirror, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	return cfg, logger, closer, nil
}

// initStore builds the session and state store: Redis when configured,
// with an in-memory fallback behind a failover wrapper.
func initStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, credstore.Store) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = credstore.NewRedisClient(cfg.Redis)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable")
		}
	}

	stateTTL := time.Duration(models.DefaultSessionTTL) * time.Second
	primary := credstore.NewRedisStore(redisClient, stateTTL)
	fallback := credstore.NewMemoryStore()
	return redisClient, credstore.NewFailoverStore(primary, fallback, logger)
}

func initHistory(cfg *config.Config, logger *zerolog.Logger) (trips.Recorder, *history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil, nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.History.Path).Msg("Ошибка инициализации истории бронирований")
		return nil, nil, err
	}

	logger.Info().Str("path", cfg.History.Path).Msg("История бронирований включена")
	return store, store, nil
}

// initMirror wires the Google Sheets mirror when credentials are
// configured. Sheets being down is never fatal for the bot.
func initMirror(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) trips.Mirror {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadSheetID == "" {
		return nil
	}

	sheetsSvc, err := sheets.NewService(ctx, cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}
	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("google sheets connection test failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	mirrorWorker := worker.NewMirrorWorker(sheetsSvc, worker.RetryPolicy{}, logger)
	go mirrorWorker.Start(ctx)
	return mirrorWorker
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	store credstore.Store,
	client *backend.Client,
	recorder trips.Recorder,
	mirror trips.Mirror,
	logger *zerolog.Logger,
) error {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		logger.Error().Msg("Задайте токен бота в config.yaml")
		return os.ErrInvalid
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	telegramBot, err := bot.NewBot(bot.NewBotWrapper(botAPI), cfg, store, client, recorder, mirror, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
