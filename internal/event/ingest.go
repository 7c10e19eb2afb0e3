package event

import (
	"encoding/json"
	"fmt"
)

// ParseBody splits a /ingest request body into its constituent raw events.
// Per spec §3, the body is either a single event object or an object with
// a single `batch` field holding an ordered list of events.
func ParseBody(body []byte) ([]json.RawMessage, error) {
	var wrapper struct {
		Batch []json.RawMessage `json:"batch"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("parse ingest body: %w", err)
	}
	if wrapper.Batch != nil {
		return wrapper.Batch, nil
	}
	return []json.RawMessage{json.RawMessage(body)}, nil
}
