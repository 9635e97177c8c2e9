package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Data is the full persisted state: the restaurant list and the lunch history
type Data struct {
	RestaurantList []string      `json:"restaurantList"`
	LunchHistory   []LunchRecord `json:"lunchHistory"`
}

// LunchRecord is one entry of the lunch history.
//
// Date is kept as raw JSON because its format is not fixed: callers store
// formatted dates, timestamps or anything else that is not empty. Fields other
// than date and restaurant are carried in Extra and written back unchanged.
type LunchRecord struct {
	Date       json.RawMessage
	Restaurant string
	Extra      map[string]json.RawMessage
}

// NewLunchRecord creates a record with a string date
func NewLunchRecord(date, restaurant string) LunchRecord {
	raw, _ := json.Marshal(date)
	return LunchRecord{
		Date:       raw,
		Restaurant: restaurant,
	}
}

// Valid reports whether the record has a non-empty date and restaurant
func (r LunchRecord) Valid() bool {
	return r.Restaurant != "" && truthy(r.Date)
}

// DateString returns the date as text, unquoting JSON strings
func (r LunchRecord) DateString() string {
	var s string
	if err := json.Unmarshal(r.Date, &s); err == nil {
		return s
	}
	return string(r.Date)
}

// MarshalJSON flattens Extra next to date and restaurant
func (r LunchRecord) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(r.Extra)+2)
	for k, v := range r.Extra {
		fields[k] = v
	}

	date := r.Date
	if len(date) == 0 {
		date = json.RawMessage("null")
	}
	fields["date"] = date

	name, err := json.Marshal(r.Restaurant)
	if err != nil {
		return nil, err
	}
	fields["restaurant"] = name

	return json.Marshal(fields)
}

// UnmarshalJSON reads a record object. A restaurant that is not a string is an error.
func (r *LunchRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("lunch record must be an object")
	}

	*r = LunchRecord{Date: fields["date"]}
	delete(fields, "date")

	if raw, ok := fields["restaurant"]; ok {
		if err := json.Unmarshal(raw, &r.Restaurant); err != nil {
			return fmt.Errorf("restaurant: %w", err)
		}
		delete(fields, "restaurant")
	}

	if len(fields) > 0 {
		r.Extra = fields
	}
	return nil
}

// truthy treats absent, null, false, "" and numeric zero as empty
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	switch string(raw) {
	case "null", "false", `""`:
		return false
	}

	if c := raw[0]; c == '-' || (c >= '0' && c <= '9') {
		f, err := strconv.ParseFloat(string(raw), 64)
		return err != nil || f != 0
	}
	return true
}

// TrimName strips leading and trailing whitespace from a restaurant name.
// The whitespace set is the one browsers use for String.prototype.trim, so
// names cleaned here match names cleaned by the web client.
func TrimName(s string) string {
	return strings.TrimFunc(s, isNameSpace)
}

func isNameSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}
