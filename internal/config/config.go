package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"wayfare/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App         AppConfig         `yaml:"app"`
	Backend     BackendConfig     `yaml:"backend"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Redis       RedisConfig       `yaml:"redis"`
	Credentials CredentialsConfig `yaml:"credentials"`
	History     HistoryConfig     `yaml:"history"`
	Exports     ExportConfig      `yaml:"exports"`
	Google      GoogleConfig      `yaml:"google"`
	Logging     LoggingConfig     `yaml:"logging"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
	Bot         BotConfig         `yaml:"bot"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type BackendConfig struct {
	BaseURL        string           `yaml:"base_url"`
	TimeoutSeconds int              `yaml:"timeout_seconds"`
	RateLimit      BackendRateLimit `yaml:"rate_limit"`
}

type BackendRateLimit struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type CredentialsConfig struct {
	Path string `yaml:"path"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	CredentialsFile       string `yaml:"credentials_file"`
	BookingsSpreadSheetID string `yaml:"bookings_spreadsheet_id"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type BotConfig struct {
	PaginationSize    int `yaml:"pagination_size"`
	RateLimitMessages int `yaml:"rate_limit_messages"`
	RateLimitWindow   int `yaml:"rate_limit_window"`
}

// DefaultBaseURL is the local development backend address.
const DefaultBaseURL = "http://127.0.0.1:5000"

func Load(configPath string) (*Config, error) {
	// Подгружаем .env файл если существует
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	var config Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		// Предварительная замена переменных окружения в YAML
		expandedData := []byte(os.ExpandEnv(string(data)))

		if err := yaml.Unmarshal(expandedData, &config); err != nil {
			return nil, err
		}
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend base_url is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend base_url %q is not a valid URL", c.Backend.BaseURL)
	}
	if c.Backend.RateLimit.Enabled && c.Backend.RateLimit.RPS <= 0 {
		return errors.New("backend rate_limit.rps must be positive when enabled")
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history path is required when history is enabled")
	}
	return nil
}

func (c *Config) applyDefaults() {
	// WAYFARE_API_URL wins over the config file, matching how the
	// original deployment overrode the backend address per environment.
	if env := os.Getenv("WAYFARE_API_URL"); env != "" {
		c.Backend.BaseURL = env
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = DefaultBaseURL
	}
	if c.Backend.TimeoutSeconds < 0 {
		c.Backend.TimeoutSeconds = 0
	}
	if c.Backend.RateLimit.Enabled && c.Backend.RateLimit.Burst <= 0 {
		c.Backend.RateLimit.Burst = 5
	}

	if c.App.Name == "" {
		c.App.Name = "wayfare"
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	// Bot defaults
	if c.Bot.PaginationSize == 0 {
		c.Bot.PaginationSize = models.DefaultPaginationSize
	}
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
}
