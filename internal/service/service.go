package service

import (
	"context"
	"fmt"
	"time"

	"epoxy_monitor/internal/config"
	"epoxy_monitor/internal/logger"
	"epoxy_monitor/internal/messaging"
	"epoxy_monitor/internal/models"
	"epoxy_monitor/internal/repository"
	"epoxy_monitor/internal/tracker"
)

// Authorization issues and checks operator bearer tokens.
type Authorization interface {
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Sessions owns one tracker per monitoring session.
type Sessions interface {
	Open(ctx context.Context) (string, tracker.Snapshot, error)
	Close(ctx context.Context, id string) error
	SetElapsedTime(ctx context.Context, id string, p TimeParams) (tracker.Snapshot, error)
	SetTemperature(ctx context.Context, id string, temperature tracker.Number) (tracker.Snapshot, error)
	Update(ctx context.Context, id string) (tracker.Snapshot, error)
	GetState(ctx context.Context, id string) (tracker.Snapshot, error)
}

// EventLog exposes append-only session events with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.SessionEvent, error)
}

// Reaper discards idle sessions in the background.
// Stop via context cancellation in main() for graceful shutdown.
type Reaper interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Sessions
	EventLog
	Reaper
	Authorization
}

// NewService wires the repository layer and publisher into concrete services.
func NewService(repos *repository.Repository, publisher messaging.Publisher, cfg config.Config, log *logger.Logger) (*Service, error) {
	auth, err := NewAuthService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("init auth: %w", err)
	}
	sessions := NewSessionService(repos.EventRepo, publisher, cfg.Tracker.NotificationPolicy, log)
	return &Service{
		Sessions:      sessions,
		EventLog:      NewEventLogService(repos.EventRepo),
		Reaper:        NewReaperService(sessions, cfg.Session.IdleTTL),
		Authorization: auth,
	}, nil
}
