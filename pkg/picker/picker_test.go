package picker

import (
	"math/rand"
	"testing"

	"github.com/korjavin/whatsforlunch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history(names ...string) []models.LunchRecord {
	records := make([]models.LunchRecord, 0, len(names))
	for _, name := range names {
		records = append(records, models.NewLunchRecord("2024-01-01", name))
	}
	return records
}

func TestPickEmptyList(t *testing.T) {
	p := New(3)
	_, err := p.Pick(nil, history("A"))
	assert.ErrorIs(t, err, ErrNoRestaurants)
}

func TestPickSkipsRecent(t *testing.T) {
	p := NewWithSource(2, rand.NewSource(1))
	list := []string{"A", "B", "C"}

	for i := 0; i < 50; i++ {
		got, err := p.Pick(list, history("C", "A", "B"))
		require.NoError(t, err)
		assert.Equal(t, "C", got)
	}
}

func TestPickFallsBackToWholeList(t *testing.T) {
	p := NewWithSource(5, rand.NewSource(1))

	assert.ElementsMatch(t, []string{"A", "B"}, p.Candidates([]string{"A", "B", "A"}, history("A", "B")))

	got, err := p.Pick([]string{"A", "B"}, history("A", "B"))
	require.NoError(t, err)
	assert.Contains(t, []string{"A", "B"}, got)
}

func TestPickWithoutAvoidance(t *testing.T) {
	p := NewWithSource(-1, rand.NewSource(1))
	assert.Equal(t, []string{"A", "B"}, p.Candidates([]string{"A", "B"}, history("A")))
}

func TestRecent(t *testing.T) {
	h := history("A", "B", "C")

	assert.Equal(t, []string{"C", "B"}, Recent(h, 2))
	assert.Equal(t, []string{"C", "B", "A"}, Recent(h, 10))
	assert.Nil(t, Recent(h, 0))
}
