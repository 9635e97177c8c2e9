// Package lunch implements the lunch chooser operations used by the bot and the CLI.
package lunch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/korjavin/whatsforlunch/pkg/logger"
	"github.com/korjavin/whatsforlunch/pkg/lunchdata"
	"github.com/korjavin/whatsforlunch/pkg/models"
	"github.com/korjavin/whatsforlunch/pkg/picker"
	"github.com/korjavin/whatsforlunch/pkg/stats"
)

// DateLayout is the format used for dates recorded by this package
const DateLayout = "2006-01-02"

var (
	// ErrEmptyName is returned for blank restaurant names
	ErrEmptyName = errors.New("restaurant name is empty")
	// ErrNotFound is returned when a restaurant is not on the list
	ErrNotFound = errors.New("restaurant not found")
)

// Service provides lunch planning functionality
type Service struct {
	data   *lunchdata.Service
	picker *picker.Picker
	logger *logger.Logger
	now    func() time.Time
}

// New creates a new lunch service
func New(data *lunchdata.Service, p *picker.Picker) *Service {
	return &Service{
		data:   data,
		picker: p,
		logger: logger.New("lunch"),
		now:    time.Now,
	}
}

// loadForUpdate loads the data and lets any repair write land first,
// so the caller's write is the last one
func (s *Service) loadForUpdate(ctx context.Context) (models.Data, error) {
	data, err := s.data.LoadAll(ctx)
	s.data.Wait()
	return data, err
}

// Restaurants returns the restaurant list in display order
func (s *Service) Restaurants(ctx context.Context) ([]string, error) {
	data, err := s.data.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurants: %w", err)
	}
	return data.RestaurantList, nil
}

// AddRestaurant appends a restaurant to the list
func (s *Service) AddRestaurant(ctx context.Context, name string) error {
	_, err := s.AddRestaurants(ctx, []string{name})
	return err
}

// AddRestaurants appends every non-blank name and returns how many were added
func (s *Service) AddRestaurants(ctx context.Context, names []string) (int, error) {
	var clean []string
	for _, name := range names {
		if name = models.TrimName(name); name != "" {
			clean = append(clean, name)
		}
	}
	if len(clean) == 0 {
		return 0, ErrEmptyName
	}

	data, err := s.loadForUpdate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load restaurants: %w", err)
	}

	list := append(data.RestaurantList, clean...)
	if err := s.data.SaveRestaurantList(ctx, list); err != nil {
		return 0, fmt.Errorf("failed to save restaurants: %w", err)
	}

	s.logger.Info("Added %d restaurants: %s", len(clean), strings.Join(clean, ", "))
	return len(clean), nil
}

// RemoveRestaurant removes every entry matching name, ignoring case
func (s *Service) RemoveRestaurant(ctx context.Context, name string) error {
	name = models.TrimName(name)
	if name == "" {
		return ErrEmptyName
	}

	data, err := s.loadForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("failed to load restaurants: %w", err)
	}

	kept := make([]string, 0, len(data.RestaurantList))
	for _, existing := range data.RestaurantList {
		if !strings.EqualFold(existing, name) {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(data.RestaurantList) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err := s.data.SaveRestaurantList(ctx, kept); err != nil {
		return fmt.Errorf("failed to save restaurants: %w", err)
	}

	s.logger.Info("Removed restaurant %s", name)
	return nil
}

// History returns the last limit lunches, oldest first. A limit of zero or less returns all.
func (s *Service) History(ctx context.Context, limit int) ([]models.LunchRecord, error) {
	data, err := s.data.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lunch history: %w", err)
	}

	history := data.LunchHistory
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

// RecordLunch appends a lunch to the history. An empty date means today.
func (s *Service) RecordLunch(ctx context.Context, restaurant, date string) (models.LunchRecord, error) {
	restaurant = models.TrimName(restaurant)
	if restaurant == "" {
		return models.LunchRecord{}, ErrEmptyName
	}
	if date = strings.TrimSpace(date); date == "" {
		date = s.now().Format(DateLayout)
	}

	data, err := s.loadForUpdate(ctx)
	if err != nil {
		return models.LunchRecord{}, fmt.Errorf("failed to load lunch history: %w", err)
	}

	record := models.NewLunchRecord(date, restaurant)
	history := append(data.LunchHistory, record)
	if err := s.data.SaveLunchHistory(ctx, history); err != nil {
		return models.LunchRecord{}, fmt.Errorf("failed to save lunch history: %w", err)
	}

	s.logger.Info("Recorded lunch at %s on %s", restaurant, date)
	return record, nil
}

// Suggest picks a restaurant, avoiding the most recent ones
func (s *Service) Suggest(ctx context.Context) (string, error) {
	data, err := s.data.LoadAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load lunch data: %w", err)
	}

	choice, err := s.picker.Pick(data.RestaurantList, data.LunchHistory)
	if err != nil {
		return "", err
	}

	s.logger.Debug("Suggested %s out of %d restaurants", choice, len(data.RestaurantList))
	return choice, nil
}

// Stats returns the most visited restaurants
func (s *Service) Stats(ctx context.Context, limit int) ([]stats.RestaurantStat, error) {
	data, err := s.data.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lunch history: %w", err)
	}
	return stats.TopRestaurants(data.LunchHistory, limit), nil
}

// Export returns everything that is stored
func (s *Service) Export(ctx context.Context) (models.Data, error) {
	return s.data.LoadAll(ctx)
}

// Import writes the fields present in a JSON document
func (s *Service) Import(ctx context.Context, raw json.RawMessage) error {
	s.data.Wait()
	if err := s.data.SaveAll(ctx, raw); err != nil {
		return fmt.Errorf("failed to import lunch data: %w", err)
	}
	return nil
}

// Wait blocks until background writes have finished
func (s *Service) Wait() {
	s.data.Wait()
}
