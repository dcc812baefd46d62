package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the bot's environment-driven configuration.
type Config struct {
	DiscordToken      string   `env:"DISCORD_TOKEN,required"`
	DiscordGuildIDs   []string `env:"DISCORD_GUILD_IDS" envSeparator:","`
	StoragePath       string   `env:"STORAGE_PATH" envDefault:"datastore.json"`
	LogLevel          string   `env:"LOG_LEVEL" envDefault:"info"`
	InitSlashCommands bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`

	// PageTTLMS is the idle lifetime of a cached page, in milliseconds.
	PageTTLMS int `env:"PAGE_TTL_MS" envDefault:"30000"`

	// SkipAutocompleteValidation bypasses option resolution on autocomplete
	// dispatch for latency-sensitive setups.
	SkipAutocompleteValidation bool `env:"SKIP_AUTOCOMPLETE_VALIDATION" envDefault:"false"`
}

// New loads configuration from a .env file (if present) and the environment.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// PageTTL returns the page idle lifetime as a duration.
func (c *Config) PageTTL() time.Duration {
	return time.Duration(c.PageTTLMS) * time.Millisecond
}

// ZerologLevel maps the configured level string to a zerolog level,
// defaulting to info.
func (c *Config) ZerologLevel() zerolog.Level {
	switch c.LogLevel {
	case "debug":
		return zerolog.DebugLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
