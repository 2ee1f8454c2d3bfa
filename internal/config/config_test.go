package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/powerbot/internal/models"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("YEAR", "2025")
	t.Setenv("LEAGUE_ID", "12345")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "2025", cfg.ESPNAPI.Year)
	assert.Equal(t, 10*time.Minute, cfg.ESPNAPI.CacheTTL)
	assert.Equal(t, "0 8 * * 2", cfg.Schedule.Cron)
	assert.Equal(t, ":80", cfg.HTTP.Addr)
	assert.Equal(t, models.Redraft, cfg.Engine.Type())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.False(t, cfg.BotEnabled())

	r := cfg.Engine.Rules()
	assert.Equal(t, 4, r.Workers)
	assert.Equal(t, 50, r.MaxTrades)
	assert.Equal(t, 500.0, r.MinTradeValue)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("YEAR", "2025")
	t.Setenv("LEAGUE_ID", "12345")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("CHAT_ID", "-100200")
	t.Setenv("LEAGUE_TYPE", "Dynasty")
	t.Setenv("TRADE_WORKERS", "8")
	t.Setenv("MAX_TRADES", "5")
	t.Setenv("MIN_TRADE_VALUE", "1200")
	t.Setenv("MARKET_FEED", "/tmp/values.json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := New()
	require.NoError(t, err)

	assert.True(t, cfg.BotEnabled())
	assert.Equal(t, int64(-100200), cfg.TelegramBot.ChatID)
	assert.Equal(t, models.Dynasty, cfg.Engine.Type())
	assert.Equal(t, "/tmp/values.json", cfg.Market.Feed)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	r := cfg.Engine.Rules()
	assert.Equal(t, 8, r.Workers)
	assert.Equal(t, 5, r.MaxTrades)
	assert.Equal(t, 10, r.MaxCandidatesPerPair)
	assert.Equal(t, 1200.0, r.MinTradeValue)
}

func TestNew_MissingLeague(t *testing.T) {
	t.Setenv("YEAR", "2025")
	t.Setenv("LEAGUE_ID", "")
	require.NoError(t, os.Unsetenv("LEAGUE_ID"))

	_, err := New()
	assert.Error(t, err)
}
