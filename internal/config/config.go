// Package config loads application settings from a YAML file overlaid with
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/codecrafter02/papersbot/internal/database"
	"github.com/codecrafter02/papersbot/internal/logger"
)

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// StoragePostgres backs sessions and entitlements with Postgres.
	StoragePostgres = "postgres"
	// StorageMemory keeps all state in process memory (lost on restart).
	StorageMemory = "memory"
)

// TelegramConfig holds Telegram bot transport settings.
type TelegramConfig struct {
	Token                  string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode                string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	LongPollTimeoutSeconds int    `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies the Telegram webhook listener.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// ServerConfig specifies the payment/health HTTP server.
type ServerConfig struct {
	Listen string `yaml:"listen" envconfig:"SERVER_LISTEN"`
	Port   int    `yaml:"port" envconfig:"PORT"`
}

// PaymentsConfig holds Razorpay credentials and pricing.
type PaymentsConfig struct {
	KeyID         string `yaml:"key_id" envconfig:"RAZORPAY_KEY_ID"`
	KeySecret     string `yaml:"key_secret" envconfig:"RAZORPAY_KEY_SECRET"`
	WebhookSecret string `yaml:"webhook_secret" envconfig:"RAZORPAY_WEBHOOK_SECRET"`
	// PriceRupees is the one-time unlock price per semester, in INR.
	PriceRupees int `yaml:"price_rupees" envconfig:"SEMESTER_PRICE_RUPEES"`
	// BaseURL is the externally reachable base URL used for the payment
	// success redirect.
	BaseURL string `yaml:"base_url" envconfig:"PUBLIC_BASE_URL"`
}

// ContentConfig locates the paper files and static bot content.
type ContentConfig struct {
	PaperFolder string `yaml:"paper_folder" envconfig:"PAPER_FOLDER"`
	CatalogFile string `yaml:"catalog_file" envconfig:"CATALOG_FILE"`
	FeedbackURL string `yaml:"feedback_url" envconfig:"FEEDBACK_URL"`
}

// StorageConfig selects the session/entitlement backend.
type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"STORAGE_BACKEND"`
}

// RateLimitConfig holds settings for per-user rate limiting.
type RateLimitConfig struct {
	IntervalMS int `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
}

// Config aggregates all application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Server    ServerConfig    `yaml:"server"`
	Database  database.Config `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Payments  PaymentsConfig  `yaml:"payments"`
	Content   ContentConfig   `yaml:"content"`
	Logging   logger.Config   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" || rm == "polling" {
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			cfg.Webhook.Listen = "0.0.0.0"
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	backend := strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if backend == "" {
		backend = StoragePostgres
	}
	switch backend {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("invalid storage.backend %q; allowed: postgres, memory", cfg.Storage.Backend)
	}
	cfg.Storage.Backend = backend

	if cfg.Payments.KeyID == "" || cfg.Payments.KeySecret == "" {
		return fmt.Errorf("payments.key_id and payments.key_secret are required")
	}
	if cfg.Payments.WebhookSecret == "" {
		// Razorpay lets the webhook secret differ from the API secret; the
		// original deployment reused the API secret.
		cfg.Payments.WebhookSecret = cfg.Payments.KeySecret
	}
	if cfg.Payments.PriceRupees <= 0 {
		cfg.Payments.PriceRupees = 10
	}
	cfg.Payments.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Payments.BaseURL), "/")

	if strings.TrimSpace(cfg.Content.PaperFolder) == "" {
		cfg.Content.PaperFolder = "bpharm_bot_18"
	}

	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = "0.0.0.0"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}

	if cfg.RateLimit.IntervalMS < 0 {
		return fmt.Errorf("rate_limit.interval_ms must be >= 0")
	}
	return nil
}
