package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.DiscordToken)
	assert.Equal(t, "datastore.json", cfg.StoragePath)
	assert.True(t, cfg.InitSlashCommands)
	assert.False(t, cfg.SkipAutocompleteValidation)
	assert.Equal(t, 30*time.Second, cfg.PageTTL())
	assert.Equal(t, zerolog.InfoLevel, cfg.ZerologLevel())
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("DISCORD_GUILD_IDS", "g1,g2")
	t.Setenv("PAGE_TTL_MS", "1500")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("INIT_SLASH_COMMANDS", "false")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, []string{"g1", "g2"}, cfg.DiscordGuildIDs)
	assert.Equal(t, 1500*time.Millisecond, cfg.PageTTL())
	assert.Equal(t, zerolog.DebugLevel, cfg.ZerologLevel())
	assert.False(t, cfg.InitSlashCommands)
}

func TestNewRequiresToken(t *testing.T) {
	// Setenv registers the restore; the check needs the variable absent.
	t.Setenv("DISCORD_TOKEN", "x")
	os.Unsetenv("DISCORD_TOKEN")

	_, err := New()
	assert.Error(t, err)
}
