package messages

import (
	"context"
	"fmt"
	"strings"

	"github.com/korjavin/whatsforlunch/pkg/logger"
	"github.com/korjavin/whatsforlunch/pkg/models"
	"github.com/korjavin/whatsforlunch/pkg/stats"
)

// Generator produces chat text for an intent
type Generator interface {
	GenerateChatMessage(ctx context.Context, intent string, contextData map[string]interface{}) (string, error)
}

// Service provides message generation functionality
type Service struct {
	generator Generator
	logger    *logger.Logger
}

// New creates a new message service. A nil generator always uses the built-in texts.
func New(generator Generator) *Service {
	return &Service{
		generator: generator,
		logger:    logger.New("messages"),
	}
}

func (s *Service) generate(ctx context.Context, intent string, contextData map[string]interface{}, fallback string) string {
	if s.generator == nil {
		return fallback
	}
	msg, err := s.generator.GenerateChatMessage(ctx, intent, contextData)
	if err != nil {
		s.logger.Error("Failed to generate %s message: %v", intent, err)
		return fallback
	}
	return msg
}

// GenerateWelcomeMessage generates a welcome message
func (s *Service) GenerateWelcomeMessage(ctx context.Context) string {
	return s.generate(ctx, "welcome", map[string]interface{}{
		"purpose":  "Help coworkers decide where to go for lunch",
		"commands": []string{"/lunch", "/restaurants", "/add", "/remove", "/history", "/stats"},
	}, "👋 Welcome to WhatsForLunch! Use /add to build your restaurant list and /lunch when you're hungry.")
}

// GenerateSuggestion generates a message announcing today's pick
func (s *Service) GenerateSuggestion(ctx context.Context, restaurant string) string {
	return s.generate(ctx, "lunch_suggestion", map[string]interface{}{
		"restaurant": restaurant,
	}, "🍽️ How about "+restaurant+" today?")
}

// GenerateErrorMessage generates an error message
func (s *Service) GenerateErrorMessage(ctx context.Context, action string) string {
	return s.generate(ctx, "error", map[string]interface{}{
		"context": action,
	}, "😢 Sorry, something went wrong. Please try again later.")
}

// EmptyListMessage is sent when there is nothing to pick from
func EmptyListMessage() string {
	return "Your restaurant list is empty! Add some places with /add."
}

// AddingPrompt asks for restaurant names in adding mode
func AddingPrompt() string {
	return "📝 Send me restaurant names, one per line or separated by commas. Press Done when you're finished."
}

// RecordedMessage confirms a recorded lunch
func RecordedMessage(rec models.LunchRecord) string {
	return fmt.Sprintf("✅ Enjoy %s! Saved for %s.", rec.Restaurant, rec.DateString())
}

// FormatRestaurants lists the restaurants in display order
func FormatRestaurants(list []string) string {
	if len(list) == 0 {
		return EmptyListMessage()
	}
	var b strings.Builder
	b.WriteString("🍴 Your restaurants:\n\n")
	for i, name := range list {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	return b.String()
}

// FormatHistory lists lunches, newest first
func FormatHistory(history []models.LunchRecord) string {
	if len(history) == 0 {
		return "No lunches recorded yet."
	}
	var b strings.Builder
	b.WriteString("📅 Recent lunches:\n\n")
	for i := len(history) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "• %s — %s\n", history[i].DateString(), history[i].Restaurant)
	}
	return b.String()
}

// FormatStats lists the most visited restaurants
func FormatStats(top []stats.RestaurantStat) string {
	if len(top) == 0 {
		return "No lunches recorded yet."
	}
	var b strings.Builder
	b.WriteString("🏆 Favourite spots:\n\n")
	for i, stat := range top {
		fmt.Fprintf(&b, "%d. %s (%d visits, last %s)\n", i+1, stat.Restaurant, stat.Visits, stat.LastDate)
	}
	return b.String()
}

// ParseNames splits user input into restaurant names on newlines and commas
func ParseNames(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ','
	})

	names := make([]string, 0, len(fields))
	for _, field := range fields {
		if name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(field), "-•*")); name != "" {
			names = append(names, name)
		}
	}
	return names
}
