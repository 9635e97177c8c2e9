package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLunchRecordValid(t *testing.T) {
	tests := []struct {
		name string
		json string
		want bool
	}{
		{"string date", `{"date":"2024-01-01","restaurant":"X"}`, true},
		{"timestamp date", `{"date":1704067200000,"restaurant":"X"}`, true},
		{"empty date", `{"date":"","restaurant":"Y"}`, false},
		{"missing date", `{"restaurant":"Z"}`, false},
		{"null date", `{"date":null,"restaurant":"Z"}`, false},
		{"zero date", `{"date":0,"restaurant":"Z"}`, false},
		{"false date", `{"date":false,"restaurant":"Z"}`, false},
		{"empty restaurant", `{"date":"2024-01-01","restaurant":""}`, false},
		{"missing restaurant", `{"date":"2024-01-01"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec LunchRecord
			require.NoError(t, json.Unmarshal([]byte(tt.json), &rec))
			assert.Equal(t, tt.want, rec.Valid())
		})
	}
}

func TestLunchRecordRejectsNonStringRestaurant(t *testing.T) {
	var rec LunchRecord
	assert.Error(t, json.Unmarshal([]byte(`{"date":"2024-01-01","restaurant":5}`), &rec))
	assert.Error(t, json.Unmarshal([]byte(`"not an object"`), &rec))
	assert.Error(t, json.Unmarshal([]byte(`null`), &rec))
}

func TestLunchRecordPreservesExtraFields(t *testing.T) {
	in := `{"date":"2024-01-01","note":"rainy","rating":4,"restaurant":"X"}`

	var rec LunchRecord
	require.NoError(t, json.Unmarshal([]byte(in), &rec))
	assert.Equal(t, "X", rec.Restaurant)
	assert.Equal(t, "2024-01-01", rec.DateString())
	assert.Len(t, rec.Extra, 2)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestNewLunchRecord(t *testing.T) {
	rec := NewLunchRecord("2024-02-03", "Noodle Bar")

	assert.True(t, rec.Valid())
	assert.Equal(t, json.RawMessage(`"2024-02-03"`), rec.Date)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-02-03","restaurant":"Noodle Bar"}`, string(out))
}

func TestDateStringKeepsNonStringDates(t *testing.T) {
	rec := LunchRecord{Date: json.RawMessage(`1704067200000`), Restaurant: "X"}
	assert.Equal(t, "1704067200000", rec.DateString())
}

func TestTrimName(t *testing.T) {
	assert.Equal(t, "Pho", TrimName(" \t Pho\u3000\n"))
	assert.Equal(t, "", TrimName("\ufeff"))
	assert.Equal(t, "A", TrimName("\u00a0\u2005A\u202f"))
	assert.Equal(t, "\u0085", TrimName("\u0085"))
	assert.Equal(t, "Bánh mì", TrimName(" Bánh mì "))
}
