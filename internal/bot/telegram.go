package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength is Telegram's limit on a single message's text.
const maxMessageLength = 4096

const commandTimeout = 2 * time.Minute

var errNoChatID = errors.New("chat ID not set")

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, service Service) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramBot{
		bot:     bot,
		handler: NewHandler(service),
		chatID:  chatID,
	}, nil
}

// Start long-polls for updates and answers commands until ctx is cancelled.
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Telegram bot polling", "username", t.bot.Self.UserName, "chat_id", t.chatID)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	updates := t.bot.GetUpdatesChan(cfg)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, update)
		}
	}
}

func (t *TelegramBot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	slog.Debug("Handling command", "command", update.Message.Command(), "chat_id", update.Message.Chat.ID)
	reply := t.handler.HandleCommand(cmdCtx, update)
	if err := t.send(reply.ChatID, reply.Text, reply.ParseMode); err != nil {
		slog.Error("Failed to answer command", "command", update.Message.Command(), "error", err)
	}
}

// SendMessage posts Markdown text to the configured league chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return errNoChatID
	}
	return t.send(t.chatID, text, tgbotapi.ModeMarkdown)
}

func (t *TelegramBot) send(chatID int64, text, parseMode string) error {
	for _, part := range splitMessage(text, maxMessageLength) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = parseMode
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("sending message to chat %d: %w", chatID, err)
		}
	}
	return nil
}

// splitMessage breaks text into chunks of at most limit characters, cutting
// at line boundaries where it can.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	size := 0
	flush := func() {
		if size > 0 {
			parts = append(parts, current.String())
			current.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if size+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(line)
			parts = append(parts, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		current.WriteString(line)
		size += n
	}
	flush()
	return parts
}
