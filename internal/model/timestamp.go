package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayout matches the browser's ISO string form, so stored
// timestamps sort lexicographically in chronological order.
const timestampLayout = "2006-01-02T15:04:05.000Z"

var parseLayouts = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is a point in time serialized as a UTC millisecond ISO string.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns a Timestamp for t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t.UTC()}
}

// String formats the timestamp in its wire form.
func (t Timestamp) String() string {
	return t.UTC().Format(timestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed.Time
	return nil
}

// ParseTimestamp accepts ISO strings with or without a time part.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range parseLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: parsed.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("parsing timestamp %q", s)
}
