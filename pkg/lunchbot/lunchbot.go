// Package lunchbot wires the lunch service to Telegram commands and buttons.
package lunchbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/whatsforlunch/pkg/logger"
	"github.com/korjavin/whatsforlunch/pkg/lunch"
	"github.com/korjavin/whatsforlunch/pkg/messages"
	"github.com/korjavin/whatsforlunch/pkg/picker"
	"github.com/korjavin/whatsforlunch/pkg/state"
	"github.com/korjavin/whatsforlunch/pkg/telegram"
)

// Callback data prefixes
const (
	CallbackEat        = "eat:"
	CallbackEatHashed  = "eat#"
	CallbackAgain      = "again"
	CallbackDoneAdding = "done_adding"
)

// Telegram rejects callback data longer than this many bytes
const maxCallbackData = 64

const (
	historyLimit = 10
	statsLimit   = 5
)

// Sender is the part of the Telegram bot the handlers talk to
type Sender interface {
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallbackQuery(callbackID string, text string) error
	EditMessage(chatID int64, messageID int, text string) (tgbotapi.Message, error)
}

// Handlers holds everything the bot commands need
type Handlers struct {
	bot      Sender
	lunch    *lunch.Service
	messages *messages.Service
	states   *state.Manager
	logger   *logger.Logger
}

// New creates the bot handlers
func New(bot Sender, lunchService *lunch.Service, messageService *messages.Service, states *state.Manager) *Handlers {
	return &Handlers{
		bot:      bot,
		lunch:    lunchService,
		messages: messageService,
		states:   states,
		logger:   logger.New("lunchbot"),
	}
}

// Register adds all commands and callbacks to the router
func (h *Handlers) Register(r *telegram.Router) {
	r.Command("start", h.handleStart)
	r.Command("help", h.handleStart)
	r.Command("lunch", h.handleLunch)
	r.Command("restaurants", h.handleRestaurants)
	r.Command("add", h.handleAdd)
	r.Command("remove", h.handleRemove)
	r.Command("history", h.handleHistory)
	r.Command("stats", h.handleStats)

	r.Callback(CallbackEat, h.handleEat)
	r.Callback(CallbackEatHashed, h.handleEat)
	r.Callback(CallbackAgain, h.handleAgain)
	r.Callback(CallbackDoneAdding, h.handleDoneAdding)

	r.Default(h.handleText)
}

func (h *Handlers) send(chatID int64, text string) {
	if _, err := h.bot.SendMessage(chatID, text); err != nil {
		h.logger.Error("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (h *Handlers) sendError(ctx context.Context, chatID int64, action string, err error) {
	h.logger.Error("Failed to %s: %v", action, err)
	h.send(chatID, h.messages.GenerateErrorMessage(ctx, action))
}

func (h *Handlers) handleStart(ctx context.Context, message *tgbotapi.Message) {
	h.send(message.Chat.ID, h.messages.GenerateWelcomeMessage(ctx))
}

func (h *Handlers) handleLunch(ctx context.Context, message *tgbotapi.Message) {
	h.SendSuggestion(ctx, message.Chat.ID)
}

// SendSuggestion picks a restaurant and posts it with Eat here / Pick again buttons
func (h *Handlers) SendSuggestion(ctx context.Context, chatID int64) {
	choice, err := h.lunch.Suggest(ctx)
	if errors.Is(err, picker.ErrNoRestaurants) {
		h.send(chatID, messages.EmptyListMessage())
		return
	}
	if err != nil {
		h.sendError(ctx, chatID, "suggest a restaurant", err)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Eat here", eatData(choice)),
			tgbotapi.NewInlineKeyboardButtonData("Pick again", CallbackAgain),
		),
	)

	text := h.messages.GenerateSuggestion(ctx, choice)
	if _, err := h.bot.SendMessageWithKeyboard(chatID, text, keyboard); err != nil {
		h.logger.Error("Failed to send suggestion to chat %d: %v", chatID, err)
	}
}

func (h *Handlers) handleRestaurants(ctx context.Context, message *tgbotapi.Message) {
	list, err := h.lunch.Restaurants(ctx)
	if err != nil {
		h.sendError(ctx, message.Chat.ID, "load restaurants", err)
		return
	}
	h.send(message.Chat.ID, messages.FormatRestaurants(list))
}

func (h *Handlers) handleAdd(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if names := messages.ParseNames(message.CommandArguments()); len(names) > 0 {
		h.addNames(ctx, chatID, names)
		return
	}

	h.states.SetState(chatID, state.StateAddingRestaurants)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Done", CallbackDoneAdding),
		),
	)
	if _, err := h.bot.SendMessageWithKeyboard(chatID, messages.AddingPrompt(), keyboard); err != nil {
		h.logger.Error("Failed to send adding prompt to chat %d: %v", chatID, err)
	}
}

func (h *Handlers) addNames(ctx context.Context, chatID int64, names []string) {
	added, err := h.lunch.AddRestaurants(ctx, names)
	if err != nil {
		h.sendError(ctx, chatID, "add restaurants", err)
		return
	}
	h.send(chatID, fmt.Sprintf("✅ Added %d restaurants: %s", added, strings.Join(names, ", ")))
}

func (h *Handlers) handleRemove(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	name := strings.TrimSpace(message.CommandArguments())
	if name == "" {
		h.send(chatID, "Usage: /remove <restaurant>")
		return
	}

	err := h.lunch.RemoveRestaurant(ctx, name)
	if errors.Is(err, lunch.ErrNotFound) {
		h.send(chatID, fmt.Sprintf("🤔 %s is not on the list.", name))
		return
	}
	if err != nil {
		h.sendError(ctx, chatID, "remove restaurant", err)
		return
	}
	h.send(chatID, fmt.Sprintf("🗑️ Removed %s.", name))
}

func (h *Handlers) handleHistory(ctx context.Context, message *tgbotapi.Message) {
	history, err := h.lunch.History(ctx, historyLimit)
	if err != nil {
		h.sendError(ctx, message.Chat.ID, "load lunch history", err)
		return
	}
	h.send(message.Chat.ID, messages.FormatHistory(history))
}

func (h *Handlers) handleStats(ctx context.Context, message *tgbotapi.Message) {
	top, err := h.lunch.Stats(ctx, statsLimit)
	if err != nil {
		h.sendError(ctx, message.Chat.ID, "load statistics", err)
		return
	}
	h.send(message.Chat.ID, messages.FormatStats(top))
}

func (h *Handlers) handleText(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" || update.Message.IsCommand() {
		return
	}

	chatID := update.Message.Chat.ID
	if h.states.GetState(chatID) != state.StateAddingRestaurants {
		return
	}

	names := messages.ParseNames(update.Message.Text)
	if len(names) == 0 {
		h.send(chatID, "I couldn't find any restaurant names in your message. Please try again.")
		return
	}

	h.states.Touch(chatID)
	h.addNames(ctx, chatID, names)
}

func (h *Handlers) handleEat(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	name, err := h.resolveRestaurant(ctx, callback.Data)
	if err != nil {
		h.answer(callback.ID, "That restaurant is no longer on the list.")
		return
	}

	record, err := h.lunch.RecordLunch(ctx, name, "")
	if err != nil {
		h.answer(callback.ID, "Sorry, I couldn't save that.")
		h.sendError(ctx, chatID, "record lunch", err)
		return
	}

	h.answer(callback.ID, "Saved!")
	if _, err := h.bot.EditMessage(chatID, callback.Message.MessageID, messages.RecordedMessage(record)); err != nil {
		h.logger.Error("Failed to edit message in chat %d: %v", chatID, err)
	}
}

func (h *Handlers) handleAgain(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	h.answer(callback.ID, "Picking again...")
	if callback.Message != nil {
		h.SendSuggestion(ctx, callback.Message.Chat.ID)
	}
}

func (h *Handlers) handleDoneAdding(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	h.states.ClearState(chatID)
	h.answer(callback.ID, "Thanks! Your list is updated.")

	if _, err := h.bot.EditMessage(chatID, callback.Message.MessageID, "✅ Restaurant list updated! Use /restaurants to see it or /lunch to pick a place."); err != nil {
		h.logger.Error("Failed to edit message in chat %d: %v", chatID, err)
	}
}

func (h *Handlers) answer(callbackID, text string) {
	if err := h.bot.AnswerCallbackQuery(callbackID, text); err != nil {
		h.logger.Error("Failed to answer callback: %v", err)
	}
}

// resolveRestaurant maps eat callback data back to a listed restaurant
func (h *Handlers) resolveRestaurant(ctx context.Context, data string) (string, error) {
	list, err := h.lunch.Restaurants(ctx)
	if err != nil {
		return "", err
	}

	match := func(name string) bool {
		return name == strings.TrimPrefix(data, CallbackEat)
	}
	if sum, ok := strings.CutPrefix(data, CallbackEatHashed); ok {
		match = func(name string) bool {
			return nameHash(name) == sum
		}
	}

	for _, name := range list {
		if match(name) {
			return name, nil
		}
	}
	return "", lunch.ErrNotFound
}

// eatData builds callback data for a restaurant. Names too long for the
// callback limit are sent as a hash of the name.
func eatData(name string) string {
	if data := CallbackEat + name; len(data) <= maxCallbackData {
		return data
	}
	return CallbackEatHashed + nameHash(name)
}

func nameHash(name string) string {
	return strconv.FormatUint(xxhash.Sum64String(name), 16)
}
