package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// timeFormat is the lossless timestamp representation used in all columns.
const timeFormat = time.RFC3339Nano

// marshalTime formats a timestamp for storage.
func marshalTime(t time.Time) string {
	return t.Format(timeFormat)
}

// marshalTimePtr formats an optional timestamp, mapping nil to SQL NULL.
func marshalTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeFormat)
}

// unmarshalTime parses a stored timestamp.
func unmarshalTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unmarshal time %q: %w", s, err)
	}
	return t, nil
}

// unmarshalTimePtr parses an optional stored timestamp.
func unmarshalTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := unmarshalTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// marshalNotes serializes the GC response note list as a JSON array.
func marshalNotes(notes []string) (string, error) {
	if len(notes) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return "", fmt.Errorf("marshal response notes: %w", err)
	}
	return string(data), nil
}

// unmarshalNotes parses the stored JSON note list.
func unmarshalNotes(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var notes []string
	if err := json.Unmarshal([]byte(data), &notes); err != nil {
		return nil, fmt.Errorf("unmarshal response notes: %w", err)
	}
	return notes, nil
}

// nullableFloat maps an optional float to SQL NULL.
func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// floatPtr converts a scanned nullable float back to a pointer.
func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
