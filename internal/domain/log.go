package domain

import "time"

// Delivery outcome statuses recorded in the webhook log.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// LogEntry is one delivery attempt to one destination. Entries are
// append-only; the URL is a denormalized copy taken at send time, and
// ConfigID may reference a destination that has since been deleted.
type LogEntry struct {
	ID           int64     `json:"id"`
	ConfigID     string    `json:"config_id"`
	URL          string    `json:"url"`
	EventType    string    `json:"event_type"`
	Status       string    `json:"status"`
	ResponseCode *int      `json:"response_code,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
