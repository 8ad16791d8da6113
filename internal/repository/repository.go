package repository

import (
	"context"
	"database/sql"
	"time"

	"epoxy_monitor/internal/models"
)

// EventRepo is the append-only session event log.
type EventRepo interface {
	Append(ctx context.Context, e models.SessionEvent) error
	List(ctx context.Context, from, to time.Time, typ, sessionID string) ([]models.SessionEvent, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
