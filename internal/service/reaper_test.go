package service

import (
	"context"
	"testing"
	"time"

	"epoxy_monitor/internal/tracker"
)

func TestReaperService_Run_ExpiresUntilCanceled(t *testing.T) {
	s, _, _, clock := newTestSessions(tracker.PolicySticky)
	mustOpen(t, s)
	clock.Advance(time.Hour)

	r := NewReaperService(s, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session was not reaped")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestReaperService_Run_DisabledReturnsImmediately(t *testing.T) {
	s, _, _, _ := newTestSessions(tracker.PolicySticky)
	r := NewReaperService(s, 0)

	done := make(chan struct{})
	go func() {
		r.Run(context.Background(), time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("disabled reaper should return")
	}
}
