package lunchdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/korjavin/whatsforlunch/pkg/models"
	"github.com/samber/lo"
)

const maxDescribed = 64

// decodeSequence splits a JSON array into its raw elements.
// Anything that is not an array, including null, reports false.
func decodeSequence(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, true
}

// cleanRestaurants keeps string entries that are not blank, trimmed
func cleanRestaurants(items []json.RawMessage) []string {
	return lo.FilterMap(items, func(raw json.RawMessage, _ int) (string, bool) {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return "", false
		}
		name = models.TrimName(name)
		return name, name != ""
	})
}

// cleanHistory keeps objects with a non-empty date and a non-empty string restaurant
func cleanHistory(items []json.RawMessage) []models.LunchRecord {
	return lo.FilterMap(items, func(raw json.RawMessage, _ int) (models.LunchRecord, bool) {
		var rec models.LunchRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return models.LunchRecord{}, false
		}
		return rec, rec.Valid()
	})
}

// sequenceArg turns a caller supplied list into raw JSON elements.
// Slices, arrays, pointers to them and JSON arrays are accepted.
func sequenceArg(field string, v any) ([]json.RawMessage, error) {
	if raw, ok := v.(json.RawMessage); ok {
		items, ok := decodeSequence(raw)
		if !ok {
			return nil, newValidationError(field, "must be an ordered sequence")
		}
		return items, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, newValidationError(field, "must be an ordered sequence")
	}

	items := make([]json.RawMessage, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		data, err := json.Marshal(rv.Index(i).Interface())
		if err != nil {
			// Unencodable elements can never be valid; keep the slot so it gets filtered.
			data = []byte("null")
		}
		items = append(items, data)
	}
	return items, nil
}

// objectArg turns a caller supplied object into its raw JSON fields
func objectArg(v any) (map[string]json.RawMessage, error) {
	raw, ok := v.(json.RawMessage)
	if !ok {
		if v == nil {
			return nil, newValidationError("data", "must be an object")
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, newValidationError("data", fmt.Sprintf("cannot be encoded: %v", err))
		}
		raw = data
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, newValidationError("data", "must be an object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, newValidationError("data", "must be an object")
	}
	return fields, nil
}

// unset reports a key that was never written or holds null
func unset(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

// present reports a field that exists and is not null
func present(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok || unset(raw) {
		return nil, false
	}
	return raw, true
}

func describe(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "absent"
	}
	if len(raw) > maxDescribed {
		return string(raw[:maxDescribed]) + "..."
	}
	return string(raw)
}
