package telegram

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func commandUpdate(text string) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		From:     &tgbotapi.User{UserName: "ann"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		From:    &tgbotapi.User{FirstName: "Bob"},
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: 42}},
	}}
}

func TestDispatchCommand(t *testing.T) {
	r := NewRouter()
	var got string
	r.Command("remove", func(ctx context.Context, m *tgbotapi.Message) {
		got = m.CommandArguments()
	})
	defaultCalled := false
	r.Default(func(ctx context.Context, u tgbotapi.Update) { defaultCalled = true })

	r.Dispatch(context.Background(), commandUpdate("/remove Pho Bar"))

	assert.Equal(t, "Pho Bar", got)
	assert.False(t, defaultCalled)
}

func TestDispatchUnknownCommandFallsThrough(t *testing.T) {
	r := NewRouter()
	defaultCalled := false
	r.Default(func(ctx context.Context, u tgbotapi.Update) { defaultCalled = true })

	r.Dispatch(context.Background(), commandUpdate("/unknown"))

	assert.True(t, defaultCalled)
}

func TestDispatchCallbackLongestPrefix(t *testing.T) {
	r := NewRouter()
	var calls []string
	r.Callback("eat", func(ctx context.Context, c *tgbotapi.CallbackQuery) { calls = append(calls, "eat") })
	r.Callback("eat:", func(ctx context.Context, c *tgbotapi.CallbackQuery) { calls = append(calls, "eat:") })
	r.Default(func(ctx context.Context, u tgbotapi.Update) { calls = append(calls, "default") })

	r.Dispatch(context.Background(), callbackUpdate("eat:Pho"))
	r.Dispatch(context.Background(), callbackUpdate("nothing"))

	assert.Equal(t, []string{"eat:"}, calls)
}

func TestDispatchText(t *testing.T) {
	r := NewRouter()
	var text string
	r.Default(func(ctx context.Context, u tgbotapi.Update) { text = u.Message.Text })

	r.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Text: "Pho", Chat: &tgbotapi.Chat{ID: 1}}})

	assert.Equal(t, "Pho", text)
}
