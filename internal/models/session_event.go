package models

import "time"

// Session event types.
const (
	EventSessionOpened      = "SESSION_OPENED"
	EventSessionClosed      = "SESSION_CLOSED"
	EventSessionExpired     = "SESSION_EXPIRED"
	EventNotificationRaised = "NOTIFICATION_RAISED"
)

// SessionEvent is a single log entry about a monitoring session.
type SessionEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // SESSION_OPENED | SESSION_CLOSED | SESSION_EXPIRED | NOTIFICATION_RAISED
	SessionID   string    `json:"session_id"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
