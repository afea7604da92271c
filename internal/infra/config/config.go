package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Delivery channel identifiers accepted in DELIVERY_CHANNEL.
const (
	ChannelTelegram = "telegram"
	ChannelEmail    = "email"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DeliveryChannel string

	DatabaseURL string

	TelegramToken     string
	TelegramChannelID int64

	SMTPHost    string
	SMTPPort    int
	SenderEmail string
	SenderPass  string

	// LedgerPath selects the ledger variant: set, the dedup ledger is
	// persisted there after every tick; empty, it lives in memory only.
	LedgerPath string

	TickInterval   time.Duration
	WindowWidth    time.Duration
	ThresholdSpec  string
	DefaultDueTime string
	Location       *time.Location

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
// Any missing required value or invalid setting is a fatal startup error.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables; errors are
	// ignored if the file doesn't exist.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DeliveryChannel = strings.ToLower(os.Getenv("DELIVERY_CHANNEL"))
	switch cfg.DeliveryChannel {
	case ChannelTelegram, ChannelEmail:
	case "":
		return nil, fmt.Errorf("DELIVERY_CHANNEL is not set")
	default:
		return nil, fmt.Errorf("unknown DELIVERY_CHANNEL %q (want %q or %q)", cfg.DeliveryChannel, ChannelTelegram, ChannelEmail)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	if cfg.DeliveryChannel == ChannelTelegram {
		cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
		if cfg.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
		}
		channelIDStr := os.Getenv("TELEGRAM_CHANNEL_ID")
		if channelIDStr == "" {
			return nil, fmt.Errorf("TELEGRAM_CHANNEL_ID is not set")
		}
		cfg.TelegramChannelID, err = strconv.ParseInt(channelIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHANNEL_ID: %w", err)
		}
	}

	if cfg.DeliveryChannel == ChannelEmail {
		cfg.SenderEmail = os.Getenv("SENDER_EMAIL")
		if cfg.SenderEmail == "" {
			return nil, fmt.Errorf("SENDER_EMAIL is not set")
		}
		cfg.SenderPass = os.Getenv("SENDER_PASS")
		if cfg.SenderPass == "" {
			return nil, fmt.Errorf("SENDER_PASS is not set")
		}
		cfg.SMTPHost = os.Getenv("SMTP_HOST")
		if cfg.SMTPHost == "" {
			cfg.SMTPHost = "smtp.gmail.com"
		}
		portStr := os.Getenv("SMTP_PORT")
		if portStr == "" {
			portStr = "587"
		}
		cfg.SMTPPort, err = strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
	}

	cfg.LedgerPath = os.Getenv("LEDGER_PATH") // optional

	cfg.TickInterval, err = durationFromEnv("TICK_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.WindowWidth, err = durationFromEnv("WINDOW_WIDTH", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	// A tick must never be able to step over a reminder window without
	// observing it.
	if cfg.WindowWidth < cfg.TickInterval {
		return nil, fmt.Errorf("WINDOW_WIDTH (%s) must be at least TICK_INTERVAL (%s)", cfg.WindowWidth, cfg.TickInterval)
	}

	cfg.ThresholdSpec = os.Getenv("REMINDER_THRESHOLDS")
	if cfg.ThresholdSpec == "" {
		cfg.ThresholdSpec = "24h,1h"
	}

	cfg.DefaultDueTime = os.Getenv("DEFAULT_DUE_TIME")
	if cfg.DefaultDueTime == "" {
		cfg.DefaultDueTime = "23:59"
	}
	if _, err := time.Parse("15:04", cfg.DefaultDueTime); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_DUE_TIME: %w", err)
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Kolkata"
	}
	cfg.Location, err = time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

func durationFromEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}
