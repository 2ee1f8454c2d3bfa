package bot

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	lastArg string
	err     error
}

func (f *fakeService) PowerRankings(context.Context) (string, error) {
	return "rankings", f.err
}

func (f *fakeService) Trades(_ context.Context, team string) (string, error) {
	f.lastArg = team
	return "trades", f.err
}

func (f *fakeService) Lineup(_ context.Context, team string) (string, error) {
	f.lastArg = team
	return "lineup", f.err
}

func (f *fakeService) PlayerValue(_ context.Context, name string) (string, error) {
	f.lastArg = name
	return "value", f.err
}

func (f *fakeService) Scarcity(context.Context) (string, error) {
	return "scarcity", f.err
}

func (f *fakeService) Refresh(context.Context) (string, error) {
	return "refreshed", f.err
}

func command(text string) tgbotapi.Update {
	end := len(text)
	for i, r := range text {
		if r == ' ' {
			end = i
			break
		}
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: 99},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}},
		},
	}
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		arg  string
	}{
		{name: "Start", text: "/start", want: "Welcome to PowerBot! Use /help to see available commands."},
		{name: "Power", text: "/power", want: "rankings"},
		{name: "TradesAll", text: "/trades", want: "trades"},
		{name: "TradesTeam", text: "/trades Blitz Brigade", want: "trades", arg: "Blitz Brigade"},
		{name: "Lineup", text: "/lineup gurus", want: "lineup", arg: "gurus"},
		{name: "LineupMissingTeam", text: "/lineup", want: "Please provide a team name. Usage: /lineup <team name>"},
		{name: "Value", text: "/value Ja'Marr Chase", want: "value", arg: "Ja'Marr Chase"},
		{name: "ValueMissingPlayer", text: "/value", want: "Please provide a player name. Usage: /value <player name>"},
		{name: "Scarcity", text: "/scarcity", want: "scarcity"},
		{name: "Refresh", text: "/refresh", want: "refreshed"},
		{name: "Unknown", text: "/standings", want: "Unknown command. Use /help to see available commands."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{}
			msg := NewHandler(svc).HandleCommand(context.Background(), command(tc.text))

			assert.Equal(t, int64(99), msg.ChatID)
			assert.Equal(t, tc.want, msg.Text)
			assert.Equal(t, tc.arg, svc.lastArg)
		})
	}
}

func TestHandleCommand_Help(t *testing.T) {
	msg := NewHandler(&fakeService{}).HandleCommand(context.Background(), command("/help"))

	for _, cmd := range []string{"/power", "/trades", "/lineup", "/value", "/scarcity", "/refresh"} {
		assert.Contains(t, msg.Text, cmd)
	}
}

func TestHandleCommand_Error(t *testing.T) {
	svc := &fakeService{err: errors.New("league not found")}
	msg := NewHandler(svc).HandleCommand(context.Background(), command("/power"))

	assert.Equal(t, "Error fetching power rankings: league not found", msg.Text)
	assert.Empty(t, msg.ParseMode)
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "Short", text: "📊 rankings", limit: 20, want: []string{"📊 rankings"}},
		{name: "LineBoundaries", text: "aaa\nbbb\nccc\n", limit: 8, want: []string{"aaa\nbbb\n", "ccc\n"}},
		{name: "LongLine", text: "abcdefghij", limit: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "MultibyteCountsRunes", text: "🔄🔄🔄\n🔄", limit: 4, want: []string{"🔄🔄🔄\n", "🔄"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitMessage(tc.text, tc.limit))
		})
	}
}
