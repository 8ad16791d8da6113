package service

import (
	"context"
	"time"
)

// ReaperService discards sessions whose UI went away without closing them.
type ReaperService struct {
	sessions *SessionService
	idleTTL  time.Duration
}

// NewReaperService returns a reaper; idleTTL <= 0 disables expiry.
func NewReaperService(sessions *SessionService, idleTTL time.Duration) *ReaperService {
	return &ReaperService{sessions: sessions, idleTTL: idleTTL}
}

// Run ticks at the given interval until ctx is canceled.
func (r *ReaperService) Run(ctx context.Context, tick time.Duration) {
	if r.idleTTL <= 0 || tick <= 0 {
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.sessions.Expire(ctx, r.idleTTL)
		}
	}
}
