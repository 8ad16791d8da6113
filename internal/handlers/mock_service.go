package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"epoxy_monitor/internal/models"
	"epoxy_monitor/internal/service"
	"epoxy_monitor/internal/tracker"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseSubject  string
	parseErr      error

	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseSubject, m.parseErr
}

// mockSessions serves a single tracker under any session ID. Once failAfter
// GetState calls have been served (when failAfter > 0) every call reports
// the session as gone.
type mockSessions struct {
	mu        sync.Mutex
	tr        *tracker.Tracker
	openID    string
	err       error
	closeErr  error
	failAfter int

	getCalls  int
	lastID    string
	lastTime  service.TimeParams
	lastTemp  tracker.Number
	updates   int
	closedIDs []string
}

func newMockSessions() *mockSessions {
	return &mockSessions{tr: tracker.New(), openID: "sess-1"}
}

func (m *mockSessions) Open(ctx context.Context) (string, tracker.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", tracker.Snapshot{}, m.err
	}
	return m.openID, m.tr.Snapshot(), nil
}
func (m *mockSessions) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closedIDs = append(m.closedIDs, id)
	return m.closeErr
}
func (m *mockSessions) SetElapsedTime(ctx context.Context, id string, p service.TimeParams) (tracker.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID, m.lastTime = id, p
	if m.err != nil {
		return tracker.Snapshot{}, m.err
	}
	m.tr.SetElapsedTime(p.Hours, p.Minutes, p.Seconds)
	return m.tr.Snapshot(), nil
}
func (m *mockSessions) SetTemperature(ctx context.Context, id string, temperature tracker.Number) (tracker.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID, m.lastTemp = id, temperature
	if m.err != nil {
		return tracker.Snapshot{}, m.err
	}
	m.tr.SetTemperature(temperature)
	return m.tr.Snapshot(), nil
}
func (m *mockSessions) Update(ctx context.Context, id string) (tracker.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID = id
	if m.err != nil {
		return tracker.Snapshot{}, m.err
	}
	m.updates++
	m.tr.Update()
	return m.tr.Snapshot(), nil
}
func (m *mockSessions) GetState(ctx context.Context, id string) (tracker.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID = id
	m.getCalls++
	if m.err != nil {
		return tracker.Snapshot{}, m.err
	}
	if m.failAfter > 0 && m.getCalls > m.failAfter {
		return tracker.Snapshot{}, service.ErrSessionNotFound
	}
	return m.tr.Snapshot(), nil
}

type mockEventLog struct {
	resp        []models.SessionEvent
	err         error
	lastFrom    time.Time
	lastTo      time.Time
	lastType    string
	lastSession string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.SessionEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastSession = f.SessionID
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
