// Package lunchdata gives typed, validated access to the restaurant list and
// the lunch history kept in a key-value backend.
//
// Whatever is stored, LoadAll only ever returns well-formed data and quietly
// writes the cleaned values back. The save operations reject input of the
// wrong shape with a *ValidationError before touching the backend.
package lunchdata

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/korjavin/whatsforlunch/pkg/logger"
	"github.com/korjavin/whatsforlunch/pkg/models"
)

// Keys used in the backend
const (
	KeyRestaurantList = "restaurantList"
	KeyLunchHistory   = "lunchHistory"
)

// Backend is the key-value store the data lives in.
//
// Get returns the raw JSON stored under each key that exists. Set writes all
// given values in one call.
type Backend interface {
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, values map[string]any) error
}

// Service reads and writes lunch data through a Backend
type Service struct {
	backend Backend
	logger  *logger.Logger
	repairs sync.WaitGroup
}

// New creates a data access service over backend
func New(backend Backend) *Service {
	return &Service{
		backend: backend,
		logger:  logger.New("lunchdata"),
	}
}

// LoadAll reads both records and returns them cleaned.
//
// An absent or null key reads as an empty list. Any other malformed value is
// cleaned and the result is written back in the background. Only a backend
// read failure is returned as an error.
func (s *Service) LoadAll(ctx context.Context) (models.Data, error) {
	raw, err := s.backend.Get(ctx, KeyRestaurantList, KeyLunchHistory)
	if err != nil {
		return models.Data{}, err
	}

	list, listOK := s.loadRestaurantList(raw[KeyRestaurantList])
	history, historyOK := s.loadLunchHistory(raw[KeyLunchHistory])

	data := models.Data{RestaurantList: list, LunchHistory: history}
	if !listOK || !historyOK {
		s.repair(ctx, data)
	}
	return data, nil
}

func (s *Service) loadRestaurantList(raw json.RawMessage) ([]string, bool) {
	if unset(raw) {
		return []string{}, true
	}

	items, ok := decodeSequence(raw)
	if !ok {
		s.logger.Warn("%s is not a list, resetting to empty (stored: %s)", KeyRestaurantList, describe(raw))
		return []string{}, false
	}

	list := cleanRestaurants(items)
	if dropped := len(items) - len(list); dropped > 0 {
		s.logger.Info("Dropped %d invalid restaurant entries", dropped)
		return list, false
	}
	return list, true
}

func (s *Service) loadLunchHistory(raw json.RawMessage) ([]models.LunchRecord, bool) {
	if unset(raw) {
		return []models.LunchRecord{}, true
	}

	items, ok := decodeSequence(raw)
	if !ok {
		s.logger.Warn("%s is not a list, resetting to empty (stored: %s)", KeyLunchHistory, describe(raw))
		return []models.LunchRecord{}, false
	}

	history := cleanHistory(items)
	if dropped := len(items) - len(history); dropped > 0 {
		s.logger.Info("Dropped %d invalid lunch history records", dropped)
		return history, false
	}
	return history, true
}

// repair writes the cleaned data back in the background.
// The values are encoded before the goroutine starts, so the caller owns data
// outright once LoadAll returns. The outcome is logged and never reaches the caller.
func (s *Service) repair(ctx context.Context, data models.Data) {
	ctx = context.WithoutCancel(ctx)

	list, err := json.Marshal(data.RestaurantList)
	if err != nil {
		s.logger.Error("Failed to encode repaired %s: %v", KeyRestaurantList, err)
		return
	}
	history, err := json.Marshal(data.LunchHistory)
	if err != nil {
		s.logger.Error("Failed to encode repaired %s: %v", KeyLunchHistory, err)
		return
	}
	values := map[string]any{
		KeyRestaurantList: json.RawMessage(list),
		KeyLunchHistory:   json.RawMessage(history),
	}

	s.logger.Info("Malformed lunch data detected, writing repaired values")
	s.repairs.Add(1)
	go func() {
		defer s.repairs.Done()
		if err := s.backend.Set(ctx, values); err != nil {
			s.logger.Error("Failed to repair lunch data: %v", err)
			return
		}
		s.logger.Info("Lunch data repaired")
	}()
}

// Wait blocks until all background repair writes have finished
func (s *Service) Wait() {
	s.repairs.Wait()
}

// SaveRestaurantList replaces the stored restaurant list.
// list must be a slice, an array or a JSON array; blank and non-string entries are dropped.
func (s *Service) SaveRestaurantList(ctx context.Context, list any) error {
	items, err := sequenceArg(KeyRestaurantList, list)
	if err != nil {
		return err
	}

	return s.backend.Set(ctx, map[string]any{
		KeyRestaurantList: cleanRestaurants(items),
	})
}

// SaveLunchHistory replaces the stored lunch history; invalid records are dropped
func (s *Service) SaveLunchHistory(ctx context.Context, history any) error {
	items, err := sequenceArg(KeyLunchHistory, history)
	if err != nil {
		return err
	}

	return s.backend.Set(ctx, map[string]any{
		KeyLunchHistory: cleanHistory(items),
	})
}

// SaveAll writes whichever of restaurantList and lunchHistory data carries.
//
// data may be a models.Data, a map, a struct with the same JSON field names or
// a JSON object. Missing or null fields leave the stored value untouched.
func (s *Service) SaveAll(ctx context.Context, data any) error {
	fields, err := objectArg(data)
	if err != nil {
		return err
	}

	values := make(map[string]any, 2)

	if raw, ok := present(fields, KeyRestaurantList); ok {
		items, ok := decodeSequence(raw)
		if !ok {
			return newValidationError(KeyRestaurantList, "must be an ordered sequence")
		}
		values[KeyRestaurantList] = cleanRestaurants(items)
	}

	if raw, ok := present(fields, KeyLunchHistory); ok {
		items, ok := decodeSequence(raw)
		if !ok {
			return newValidationError(KeyLunchHistory, "must be an ordered sequence")
		}
		values[KeyLunchHistory] = cleanHistory(items)
	}

	return s.backend.Set(ctx, values)
}
