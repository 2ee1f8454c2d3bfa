package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/omarshaarawi/powerbot/internal/models"
	"github.com/omarshaarawi/powerbot/internal/rules"
)

type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	TelegramBot TelegramBot
	ESPNAPI     ESPNAPI
	Market      Market
	Engine      Engine
	Schedule    Schedule
	HTTP        HTTP
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

type ESPNAPI struct {
	Year     string        `envconfig:"YEAR" required:"true"`
	LeagueID string        `envconfig:"LEAGUE_ID" required:"true"`
	SWID     string        `envconfig:"SWID"`
	ESPNS2   string        `envconfig:"ESPN_S2"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"10m"`
}

type Market struct {
	// Feed is an http(s) URL or a local JSON file. Empty disables the feed.
	Feed    string        `envconfig:"MARKET_FEED"`
	Timeout time.Duration `envconfig:"MARKET_TIMEOUT" default:"10s"`
}

type Engine struct {
	LeagueType           string  `envconfig:"LEAGUE_TYPE" default:"redraft"`
	TradeWorkers         int     `envconfig:"TRADE_WORKERS" default:"4"`
	MaxCandidatesPerPair int     `envconfig:"MAX_CANDIDATES_PER_PAIR" default:"10"`
	MaxTrades            int     `envconfig:"MAX_TRADES" default:"50"`
	MinTradeValue        float64 `envconfig:"MIN_TRADE_VALUE" default:"500"`
}

type Schedule struct {
	Cron     string `envconfig:"REGENERATE_CRON" default:"0 8 * * 2"`
	Timezone string `envconfig:"TIMEZONE" default:"America/Chicago"`
}

type HTTP struct {
	Addr string `envconfig:"HTTP_ADDR" default:":80"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Rules returns the default engine rules with the configured search bounds.
func (e Engine) Rules() rules.Rules {
	return rules.Default().
		WithSearchBounds(e.TradeWorkers, e.MaxCandidatesPerPair, e.MaxTrades).
		WithMinTradeValue(e.MinTradeValue)
}

func (e Engine) Type() models.LeagueType {
	return models.ParseLeagueType(e.LeagueType)
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// BotEnabled reports whether Telegram credentials were provided.
func (c *Config) BotEnabled() bool {
	return c.TelegramBot.Token != "" && c.TelegramBot.ChatID != 0
}
