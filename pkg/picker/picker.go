// Package picker chooses where to have lunch.
package picker

import (
	"errors"
	"math/rand"
	"time"

	"github.com/korjavin/whatsforlunch/pkg/models"
	"github.com/samber/lo"
)

// ErrNoRestaurants is returned when there is nothing to pick from
var ErrNoRestaurants = errors.New("no restaurants to pick from")

// Picker picks restaurants at random, skipping recently visited ones
type Picker struct {
	rng         *rand.Rand
	avoidRecent int
}

// New creates a picker that skips the restaurants of the last avoidRecent lunches
func New(avoidRecent int) *Picker {
	// Use a local random source instead of the deprecated rand.Seed
	return NewWithSource(avoidRecent, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource creates a picker with a fixed random source
func NewWithSource(avoidRecent int, src rand.Source) *Picker {
	if avoidRecent < 0 {
		avoidRecent = 0
	}
	return &Picker{rng: rand.New(src), avoidRecent: avoidRecent}
}

// Candidates returns the restaurants eligible for the next pick.
// When every restaurant was visited recently the whole list is eligible again.
func (p *Picker) Candidates(list []string, history []models.LunchRecord) []string {
	candidates := lo.Uniq(list)
	if len(candidates) == 0 {
		return nil
	}

	recent := Recent(history, p.avoidRecent)
	fresh := lo.Filter(candidates, func(name string, _ int) bool {
		return !lo.Contains(recent, name)
	})
	if len(fresh) == 0 {
		return candidates
	}
	return fresh
}

// Pick returns a random restaurant from the candidates
func (p *Picker) Pick(list []string, history []models.LunchRecord) (string, error) {
	candidates := p.Candidates(list, history)
	if len(candidates) == 0 {
		return "", ErrNoRestaurants
	}
	return candidates[p.rng.Intn(len(candidates))], nil
}

// Recent returns the restaurants of the last n history records, newest first
func Recent(history []models.LunchRecord, n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(history) {
		n = len(history)
	}

	recent := make([]string, 0, n)
	for i := len(history) - 1; i >= len(history)-n; i-- {
		recent = append(recent, history[i].Restaurant)
	}
	return recent
}
