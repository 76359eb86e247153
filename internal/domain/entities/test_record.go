package entities

import "time"

// TestRecord is an entry of the append-only test history.
type TestRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Scope     string    `json:"scope"` // e.g. "today", "mistakes", "book:<id>"
	Count     int       `json:"count"`
	Score     int       `json:"score"`
	Mistakes  []string  `json:"mistakes"`
}
