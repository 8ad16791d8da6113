package service

import (
	"time"

	"epoxy_monitor/internal/tracker"
)

// TimeParams carries the three elapsed-time form fields as entered.
type TimeParams struct {
	Hours   tracker.Number
	Minutes tracker.Number
	Seconds tracker.Number
}

// LogFilter supports history filtering by time range, type and session.
type LogFilter struct {
	From      time.Time // inclusive; zero means no lower bound
	To        time.Time // inclusive; zero means no upper bound
	Type      string    // "", "SESSION_OPENED", "SESSION_CLOSED", "SESSION_EXPIRED", "NOTIFICATION_RAISED"
	SessionID string    // "" means all sessions
}
