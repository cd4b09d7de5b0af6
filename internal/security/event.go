package security

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of security-relevant occurrence.
type EventType string

// Event types emitted by the service.
const (
	EventUnauthorizedAccess EventType = "UNAUTHORIZED_ACCESS"
	EventInvalidToken       EventType = "INVALID_TOKEN"
	EventSuspiciousActivity EventType = "SUSPICIOUS_ACTIVITY"
	EventDataBreachAttempt  EventType = "DATA_BREACH_ATTEMPT"
	EventRateLimitExceeded  EventType = "RATE_LIMIT_EXCEEDED"
)

// Severity grades how serious an event is.
type Severity string

// Severity levels, lowest to highest.
const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityFor returns the fixed severity mapping for an event type.
func SeverityFor(t EventType) Severity {
	switch t {
	case EventDataBreachAttempt:
		return SeverityCritical
	case EventUnauthorizedAccess, EventSuspiciousActivity:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// Event is an append-only record of a security-relevant occurrence.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	Endpoint  string    `json:"endpoint,omitempty"`
	Method    string    `json:"method,omitempty"`
	Details   string    `json:"details"`
	Blocked   bool      `json:"blocked"`
}

// NewEvent creates an event with its identifier, timestamp and severity filled in.
func NewEvent(t EventType, details string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Severity:  SeverityFor(t),
		Timestamp: time.Now().UTC(),
		Details:   details,
	}
}
