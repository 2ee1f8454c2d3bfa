package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Service is what the command handlers need from the power service.
type Service interface {
	PowerRankings(ctx context.Context) (string, error)
	Trades(ctx context.Context, team string) (string, error)
	Lineup(ctx context.Context, team string) (string, error)
	PlayerValue(ctx context.Context, name string) (string, error)
	Scarcity(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

const helpText = "Available commands:\n" +
	"/power - Get power rankings\n" +
	"/trades [team] - Get trade ideas, optionally for one team\n" +
	"/lineup <team> - View a team's optimal lineup\n" +
	"/value <player> - Look up a player's value\n" +
	"/scarcity - Get positional scarcity\n" +
	"/refresh - Regenerate rankings from fresh data"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to PowerBot! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "power":
		h.reply(&msg, "Error fetching power rankings", func() (string, error) {
			return h.service.PowerRankings(ctx)
		})
	case "trades":
		h.reply(&msg, "Error fetching trade ideas", func() (string, error) {
			return h.service.Trades(ctx, args)
		})
	case "lineup":
		if args == "" {
			msg.Text = "Please provide a team name. Usage: /lineup <team name>"
			return msg
		}
		h.reply(&msg, "Error fetching lineup", func() (string, error) {
			return h.service.Lineup(ctx, args)
		})
	case "value":
		if args == "" {
			msg.Text = "Please provide a player name. Usage: /value <player name>"
			return msg
		}
		h.reply(&msg, "Error fetching player value", func() (string, error) {
			return h.service.PlayerValue(ctx, args)
		})
	case "scarcity":
		h.reply(&msg, "Error fetching scarcity", func() (string, error) {
			return h.service.Scarcity(ctx)
		})
	case "refresh":
		h.reply(&msg, "Error regenerating rankings", func() (string, error) {
			return h.service.Refresh(ctx)
		})
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) reply(msg *tgbotapi.MessageConfig, errPrefix string, fn func() (string, error)) {
	text, err := fn()
	if err != nil {
		msg.Text = fmt.Sprintf("%s: %v", errPrefix, err)
		msg.ParseMode = ""
		return
	}
	msg.Text = text
}
