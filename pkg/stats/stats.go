package stats

import (
	"sort"

	"github.com/korjavin/whatsforlunch/pkg/models"
	"github.com/samber/lo"
)

// RestaurantStat holds how often a restaurant was visited
type RestaurantStat struct {
	Restaurant string `json:"restaurant"`
	Visits     int    `json:"visits"`
	LastDate   string `json:"last_date"`
}

// TopRestaurants returns the most visited restaurants, at most limit of them.
// A limit of zero or less returns all of them.
func TopRestaurants(history []models.LunchRecord, limit int) []RestaurantStat {
	visits := lo.CountValuesBy(history, func(rec models.LunchRecord) string {
		return rec.Restaurant
	})

	// Convert map to slice for sorting
	result := make([]RestaurantStat, 0, len(visits))
	for name, count := range visits {
		stat := RestaurantStat{Restaurant: name, Visits: count}
		if last, ok := LastVisit(history, name); ok {
			stat.LastDate = last.DateString()
		}
		result = append(result, stat)
	}

	// Sort by visits (descending), then by name
	sort.Slice(result, func(i, j int) bool {
		if result[i].Visits != result[j].Visits {
			return result[i].Visits > result[j].Visits
		}
		return result[i].Restaurant < result[j].Restaurant
	})

	// Take the top N restaurants
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result
}

// LastVisit returns the most recent record for a restaurant
func LastVisit(history []models.LunchRecord, restaurant string) (models.LunchRecord, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Restaurant == restaurant {
			return history[i], true
		}
	}
	return models.LunchRecord{}, false
}
