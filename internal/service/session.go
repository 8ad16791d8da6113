package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"epoxy_monitor/internal/logger"
	"epoxy_monitor/internal/messaging"
	"epoxy_monitor/internal/metrics"
	"epoxy_monitor/internal/models"
	"epoxy_monitor/internal/repository"
	"epoxy_monitor/internal/tracker"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown, closed or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// session serializes every operation on its tracker.
type session struct {
	mu       sync.Mutex
	tracker  *tracker.Tracker
	lastSeen time.Time
}

type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session

	eventRepo repository.EventRepo
	publisher messaging.Publisher
	policy    tracker.NotificationPolicy
	log       *logger.Logger
	now       func() time.Time
}

// NewSessionService builds the session registry. A nil publisher or logger
// is replaced by a no-op one.
func NewSessionService(eventRepo repository.EventRepo, publisher messaging.Publisher, policy tracker.NotificationPolicy, log *logger.Logger) *SessionService {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SessionService{
		sessions:  make(map[string]*session),
		eventRepo: eventRepo,
		publisher: publisher,
		policy:    policy,
		log:       log,
		now:       time.Now,
	}
}

// Open creates a tracker with zero inputs and empty history.
func (s *SessionService) Open(ctx context.Context) (string, tracker.Snapshot, error) {
	id := uuid.NewString()
	now := s.now().UTC()

	if err := s.eventRepo.Append(ctx, models.SessionEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventSessionOpened,
		SessionID:   id,
		Description: "Session opened",
		Metadata:    map[string]any{"notification_policy": s.policy.String()},
	}); err != nil {
		return "", tracker.Snapshot{}, err
	}

	sess := &session{tracker: tracker.New(tracker.WithPolicy(s.policy)), lastSeen: now}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	metrics.SessionOpened()

	return id, sess.tracker.Snapshot(), nil
}

// Close discards the session's tracker and logs SESSION_CLOSED.
func (s *SessionService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	metrics.SessionClosed("closed")

	return s.eventRepo.Append(ctx, models.SessionEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        models.EventSessionClosed,
		SessionID:   id,
		Description: "Session closed",
	})
}

func (s *SessionService) SetElapsedTime(_ context.Context, id string, p TimeParams) (tracker.Snapshot, error) {
	return s.withSession(id, func(t *tracker.Tracker) {
		t.SetElapsedTime(p.Hours, p.Minutes, p.Seconds)
	})
}

func (s *SessionService) SetTemperature(_ context.Context, id string, temperature tracker.Number) (tracker.Snapshot, error) {
	return s.withSession(id, func(t *tracker.Tracker) {
		t.SetTemperature(temperature)
	})
}

// Update runs the tracker update. When the notification switches to the
// range message a NOTIFICATION_RAISED event is logged and published.
func (s *SessionService) Update(ctx context.Context, id string) (tracker.Snapshot, error) {
	var (
		raised     bool
		rangeMin   tracker.Number
		recordedAt tracker.Number
	)
	snap, err := s.withSession(id, func(t *tracker.Tracker) {
		before := t.Notification()
		t.Update()
		raised = before != tracker.RangeMessage && t.Notification() == tracker.RangeMessage
		rangeMin = t.RangeMinutes()
		recordedAt = t.RawMinutes()
	})
	if err != nil {
		return tracker.Snapshot{}, err
	}

	metrics.UpdateRecorded(snap.TemperatureC)
	if raised {
		metrics.NotificationRaised()
		s.recordNotification(ctx, id, rangeMin, recordedAt, snap.TemperatureC)
	}
	return snap, nil
}

// GetState returns the current snapshot. Reading counts as activity.
func (s *SessionService) GetState(_ context.Context, id string) (tracker.Snapshot, error) {
	return s.withSession(id, func(*tracker.Tracker) {})
}

// Count reports how many sessions are held.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Expire discards sessions idle for longer than idleTTL and returns their IDs.
func (s *SessionService) Expire(ctx context.Context, idleTTL time.Duration) []string {
	now := s.now()

	var expired []string
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > idleTTL {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		metrics.SessionClosed("expired")
		s.appendBestEffort(ctx, models.SessionEvent{
			EventID:     uuid.NewString(),
			OccurredAt:  now.UTC(),
			Type:        models.EventSessionExpired,
			SessionID:   id,
			Description: "Session discarded after inactivity",
			Metadata:    map[string]any{"idle_ttl_sec": idleTTL.Seconds()},
		})
	}
	return expired
}

func (s *SessionService) withSession(id string, fn func(*tracker.Tracker)) (tracker.Snapshot, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return tracker.Snapshot{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.tracker)
	sess.lastSeen = s.now()
	return sess.tracker.Snapshot(), nil
}

// recordNotification is best-effort: the update has already been applied.
func (s *SessionService) recordNotification(ctx context.Context, id string, rangeMin, recorded, temperature tracker.Number) {
	ev := models.SessionEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        models.EventNotificationRaised,
		SessionID:   id,
		Description: tracker.RangeMessage,
		Metadata: map[string]any{
			"range_minutes":    rangeMin,
			"recorded_minutes": recorded,
			"temperature_c":    temperature,
		},
	}
	s.appendBestEffort(ctx, ev)
	// KafkaPublisher logs its own failures
	_ = s.publisher.Publish(ctx, ev)
}

func (s *SessionService) appendBestEffort(ctx context.Context, ev models.SessionEvent) {
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		s.log.Errorw("session_event_append_failed", "err", err, "type", ev.Type, "session_id", ev.SessionID)
	}
}
