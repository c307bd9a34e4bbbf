package events

import (
	"encoding/json"
	"time"
)

// Event types pushed to the browser.
const (
	TypePing             = "ping"
	TypeJobsInvalidated  = "jobs_invalidated"
	TypeJobsUpdated      = "jobs_updated"
	TypeNotification     = "notification"
	TypeNotificationGone = "notification_dismissed"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MakeEvent encodes an event envelope. Marshal failures of data are
// dropped; the envelope itself is always valid JSON.
func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = b
		}
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

func Parse(s string) (Event, error) {
	var e Event
	err := json.Unmarshal([]byte(s), &e)
	return e, err
}
