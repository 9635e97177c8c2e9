package lunchbot

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/whatsforlunch/pkg/lunch"
	"github.com/korjavin/whatsforlunch/pkg/lunchdata"
	"github.com/korjavin/whatsforlunch/pkg/messages"
	"github.com/korjavin/whatsforlunch/pkg/picker"
	"github.com/korjavin/whatsforlunch/pkg/state"
	"github.com/korjavin/whatsforlunch/pkg/storage"
	"github.com/korjavin/whatsforlunch/pkg/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  *tgbotapi.InlineKeyboardMarkup
}

// FakeSender records everything the handlers send
type FakeSender struct {
	mu       sync.Mutex
	Messages []sent
	Edits    []sent
	Answers  []string
}

func (f *FakeSender) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, sent{ChatID: chatID, Text: text})
	return tgbotapi.Message{}, nil
}

func (f *FakeSender) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, sent{ChatID: chatID, Text: text, Keyboard: &keyboard})
	return tgbotapi.Message{}, nil
}

func (f *FakeSender) AnswerCallbackQuery(callbackID string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Answers = append(f.Answers, text)
	return nil
}

func (f *FakeSender) EditMessage(chatID int64, messageID int, text string) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edits = append(f.Edits, sent{ChatID: chatID, MessageID: messageID, Text: text})
	return tgbotapi.Message{}, nil
}

func (f *FakeSender) last(t *testing.T) sent {
	t.Helper()
	require.NotEmpty(t, f.Messages)
	return f.Messages[len(f.Messages)-1]
}

type fixture struct {
	router *telegram.Router
	sender *FakeSender
	mem    *storage.Memory
	lunch  *lunch.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := storage.NewMemory()
	lunchService := lunch.New(lunchdata.New(mem), picker.NewWithSource(1, rand.NewSource(1)))
	t.Cleanup(lunchService.Wait)

	sender := &FakeSender{}
	router := telegram.NewRouter()
	New(sender, lunchService, messages.New(nil), state.New()).Register(router)

	return &fixture{router: router, sender: sender, mem: mem, lunch: lunchService}
}

func (f *fixture) command(text string) {
	cmdLen := strings.IndexByte(text, ' ')
	if cmdLen < 0 {
		cmdLen = len(text)
	}
	f.router.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 1},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}})
}

func (f *fixture) text(text string) {
	f.router.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 1},
	}})
}

func (f *fixture) callback(data string) {
	f.router.Dispatch(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 9, Chat: &tgbotapi.Chat{ID: 1}},
	}})
}

func TestLunchWithEmptyList(t *testing.T) {
	f := newFixture(t)

	f.command("/lunch")

	assert.Equal(t, messages.EmptyListMessage(), f.sender.last(t).Text)
}

func TestAddingModeAndDone(t *testing.T) {
	f := newFixture(t)

	f.text("Pho")
	assert.Empty(t, f.sender.Messages, "text outside adding mode is ignored")

	f.command("/add")
	assert.Equal(t, messages.AddingPrompt(), f.sender.last(t).Text)

	f.text("Pho, Tacos\nBento")
	assert.Contains(t, f.sender.last(t).Text, "Added 3 restaurants")

	f.callback(CallbackDoneAdding)
	require.Len(t, f.sender.Edits, 1)
	assert.Equal(t, 9, f.sender.Edits[0].MessageID)

	f.text("Sushi")
	list, err := f.lunch.Restaurants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Pho", "Tacos", "Bento"}, list)
}

func TestAddWithArgumentsAndRemove(t *testing.T) {
	f := newFixture(t)

	f.command("/add Pho, Tacos")
	f.command("/remove pho")
	assert.Equal(t, "🗑️ Removed pho.", f.sender.last(t).Text)

	f.command("/remove Sushi")
	assert.Contains(t, f.sender.last(t).Text, "not on the list")

	f.command("/remove")
	assert.Equal(t, "Usage: /remove <restaurant>", f.sender.last(t).Text)

	f.command("/restaurants")
	assert.Contains(t, f.sender.last(t).Text, "1. Tacos")
}

func TestSuggestAndEat(t *testing.T) {
	f := newFixture(t)
	f.command("/add Pho")

	f.command("/lunch")
	msg := f.sender.last(t)
	assert.Equal(t, "🍽️ How about Pho today?", msg.Text)
	require.NotNil(t, msg.Keyboard)
	eat := msg.Keyboard.InlineKeyboard[0][0]
	require.NotNil(t, eat.CallbackData)
	assert.Equal(t, "eat:Pho", *eat.CallbackData)

	f.callback(*eat.CallbackData)
	assert.Equal(t, []string{"Saved!"}, f.sender.Answers)
	require.Len(t, f.sender.Edits, 1)
	assert.Contains(t, f.sender.Edits[0].Text, "Enjoy Pho")

	raw, ok := f.mem.Raw(lunchdata.KeyLunchHistory)
	require.True(t, ok)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "Pho", history[0]["restaurant"])

	f.command("/history")
	assert.Contains(t, f.sender.last(t).Text, "Pho")
	f.command("/stats")
	assert.Contains(t, f.sender.last(t).Text, "1. Pho (1 visits")
}

func TestEatUnknownRestaurant(t *testing.T) {
	f := newFixture(t)

	f.callback("eat:Gone")

	assert.Equal(t, []string{"That restaurant is no longer on the list."}, f.sender.Answers)
	assert.Empty(t, f.sender.Edits)
}

func TestPickAgain(t *testing.T) {
	f := newFixture(t)
	f.command("/add Pho")

	f.callback(CallbackAgain)

	assert.Equal(t, []string{"Picking again..."}, f.sender.Answers)
	assert.Equal(t, "🍽️ How about Pho today?", f.sender.last(t).Text)
}

func TestLongNamesSharingAPrefix(t *testing.T) {
	f := newFixture(t)
	prefix := strings.Repeat("Ресторан ", 8)
	first, second := prefix+"на углу", prefix+"у вокзала"
	f.command("/add " + first + ", " + second)

	data := eatData(second)
	assert.LessOrEqual(t, len(data), maxCallbackData)
	assert.True(t, strings.HasPrefix(data, CallbackEatHashed))
	assert.NotEqual(t, eatData(first), data)

	f.callback(data)
	assert.Equal(t, []string{"Saved!"}, f.sender.Answers)

	raw, ok := f.mem.Raw(lunchdata.KeyLunchHistory)
	require.True(t, ok)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Len(t, history, 1)
	assert.Equal(t, second, history[0]["restaurant"])
}

func TestHashedCallbackForRemovedRestaurant(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("Ресторан ", 8) + "закрыт"

	f.callback(eatData(long))

	assert.Equal(t, []string{"That restaurant is no longer on the list."}, f.sender.Answers)
}
