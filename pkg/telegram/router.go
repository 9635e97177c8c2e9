package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/whatsforlunch/pkg/logger"
)

// CommandHandler is a function that handles a Telegram command
type CommandHandler func(ctx context.Context, message *tgbotapi.Message)

// CallbackHandler is a function that handles a Telegram callback query
type CallbackHandler func(ctx context.Context, callback *tgbotapi.CallbackQuery)

// HandlerFunc is a function that handles any other Telegram update
type HandlerFunc func(ctx context.Context, update tgbotapi.Update)

// Router routes updates to command, callback and default handlers
type Router struct {
	commands  map[string]CommandHandler
	callbacks map[string]CallbackHandler
	fallback  HandlerFunc
	logger    *logger.Logger
}

// NewRouter creates an empty router
func NewRouter() *Router {
	return &Router{
		commands:  make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
		logger:    logger.New("telegram"),
	}
}

// Command registers a handler for /name
func (r *Router) Command(name string, handler CommandHandler) {
	r.commands[name] = handler
}

// Callback registers a handler for callback data starting with prefix
func (r *Router) Callback(prefix string, handler CallbackHandler) {
	r.callbacks[prefix] = handler
}

// Default registers the handler for updates no other handler takes
func (r *Router) Default(handler HandlerFunc) {
	r.fallback = handler
}

// Dispatch routes a single update
func (r *Router) Dispatch(ctx context.Context, update tgbotapi.Update) {
	log := r.logger
	if chat := update.FromChat(); chat != nil {
		log = r.logger.With(fmt.Sprintf("chat %d", chat.ID))
	}

	// Handle commands
	if update.Message != nil && update.Message.IsCommand() {
		command := update.Message.Command()
		if handler, ok := r.commands[command]; ok {
			log.Info("Handling command: %s from user %s", command, userName(update.Message.From))
			handler(ctx, update.Message)
			return
		}
	}

	// Handle callback queries, longest matching prefix first
	if update.CallbackQuery != nil {
		data := update.CallbackQuery.Data
		for _, prefix := range r.callbackPrefixes() {
			if strings.HasPrefix(data, prefix) {
				log.Info("Handling callback: %s from user %s", data, userName(update.CallbackQuery.From))
				r.callbacks[prefix](ctx, update.CallbackQuery)
				break
			}
		}
		return
	}

	if r.fallback != nil {
		r.fallback(ctx, update)
	}
}

func (r *Router) callbackPrefixes() []string {
	prefixes := make([]string, 0, len(r.callbacks))
	for prefix := range r.callbacks {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		return len(prefixes[i]) > len(prefixes[j])
	})
	return prefixes
}

func userName(u *tgbotapi.User) string {
	if u == nil {
		return "unknown"
	}
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}
