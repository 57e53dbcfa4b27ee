package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics. Zero-result
// queries surfaced from these events drive catalog and vocabulary follow-up.
type SearchEvent struct {
	ID              string    `json:"id"`
	Query           string    `json:"query"`
	NormalizedQuery string    `json:"normalized_query"`
	DetectedIntent  string    `json:"detected_intent"`
	ResultCount     int       `json:"result_count"`
	LatencyMs       int       `json:"latency_ms"`
	UserID          string    `json:"user_id,omitempty"`
	SessionID       string    `json:"session_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
