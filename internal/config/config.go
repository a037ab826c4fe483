package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"eventcore/pkg/tz"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	Store           string        `env:"STORE" envDefault:"postgres"`
	Migrations      bool          `env:"MIGRATIONS" envDefault:"true"`
	Timezone        string        `env:"TIMEZONE" envDefault:"UTC"`
	JWTSecret       string        `env:"JWT_SECRET"`
	RedisURL        string        `env:"REDIS_URL"`
	RedisChannel    string        `env:"REDIS_CHANNEL" envDefault:"eventcore:notifications"`
	NotifyQueueSize int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"256"`
	DiscordToken    string        `env:"DISCORD_TOKEN"`
	DiscordChannel  string        `env:"DISCORD_CHANNEL_ID"`
	DefaultLocale   string        `env:"DEFAULT_LOCALE" envDefault:"en"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`

	// Location is resolved from Timezone by validate.
	Location *time.Location `env:"-"`
}

// Load reads an optional .env file, then the process environment, and validates the result.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI, etc.).
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			c.DatabaseURL = "postgres://localhost:5432/eventcore?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config: STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.NotifyQueueSize <= 0 {
		return fmt.Errorf("config: NOTIFY_QUEUE_SIZE must be positive, got %d", c.NotifyQueueSize)
	}

	loc, err := tz.Load(c.Timezone)
	if err != nil {
		return fmt.Errorf("config: invalid TIMEZONE: %w", err)
	}
	c.Location = loc

	if c.RedisURL != "" {
		if _, err := url.Parse(c.RedisURL); err != nil {
			return fmt.Errorf("config: invalid REDIS_URL: %w", err)
		}
	}

	if (c.DiscordToken == "") != (c.DiscordChannel == "") {
		return errors.New("config: DISCORD_TOKEN and DISCORD_CHANNEL_ID must be set together")
	}
	for _, r := range c.DiscordChannel {
		if r < '0' || r > '9' {
			return errors.New("config: DISCORD_CHANNEL_ID must be a Discord channel id (digits only)")
		}
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// DiscordEnabled reports whether the Discord observer should be started.
func (c *Config) DiscordEnabled() bool { return c.DiscordToken != "" }
