package entity

import (
	"encoding/json"
	"time"
)

// isoMillis matches the ISO-8601 form produced by JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Timestamp is a UTC instant serialised with millisecond precision.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) String() string {
	return t.UTC().Format(isoMillis)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}
