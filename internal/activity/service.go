package activity

import (
	"context"
	"time"

	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the persistence surface the service needs; satisfied by
// *Repository and by the in-memory fake in tests.
type Store interface {
	UpsertDay(ctx context.Context, executiveID uuid.UUID, day time.Time) (Activity, error)
	GetDay(ctx context.Context, executiveID uuid.UUID, day time.Time) (Activity, error)
	Save(ctx context.Context, a Activity) (Activity, error)
	ListDay(ctx context.Context, day time.Time) ([]Activity, error)
	CountFreshLeadsByExecutive(ctx context.Context, executiveID uuid.UUID) (int, error)
	CountFollowUpsByExecutive(ctx context.Context, executiveID uuid.UUID) (int, error)
}

// PresenceSetter flips a user's online flag; implemented by the auth adapter.
type PresenceSetter interface {
	SetOnline(ctx context.Context, userID uuid.UUID, online bool) error
}

// DashboardStats is the executive's own workload summary.
type DashboardStats struct {
	FreshLeads int `json:"freshLeads"`
	FollowUps  int `json:"followUps"`
}

// Service accumulates per-day work, break and call timers. Durations are
// derived from the stored start timestamps, so stop calls are idempotent per
// started session.
type Service struct {
	store    Store
	presence PresenceSetter
	log      *logger.Logger
	now      func() time.Time
}

func New(store Store, presence PresenceSetter, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		presence: presence,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// StartWork opens the day's work session. Starting an already running
// session is a no-op.
func (s *Service) StartWork(ctx context.Context, executiveID uuid.UUID) (Activity, error) {
	a, err := s.store.UpsertDay(ctx, executiveID, s.today())
	if err != nil {
		return Activity{}, err
	}
	if a.WorkStartedAt != nil {
		return a, nil
	}
	started := s.now()
	a.WorkStartedAt = &started
	return s.store.Save(ctx, a)
}

// StopWork closes the running work session and accumulates its duration.
func (s *Service) StopWork(ctx context.Context, executiveID uuid.UUID) (Activity, error) {
	const op = "activity.StopWork"
	a, err := s.store.GetDay(ctx, executiveID, s.today())
	if err != nil {
		return Activity{}, err
	}
	if a.WorkStartedAt == nil {
		return Activity{}, apperr.Validation("work session not started").WithOp(op)
	}
	a.WorkSeconds += int64(s.now().Sub(*a.WorkStartedAt) / time.Second)
	a.WorkStartedAt = nil
	return s.store.Save(ctx, a)
}

// StartBreak opens a break and marks the executive offline. Requires an
// activity row for today, so a break cannot precede the first work session.
func (s *Service) StartBreak(ctx context.Context, executiveID uuid.UUID) (Activity, error) {
	a, err := s.store.GetDay(ctx, executiveID, s.today())
	if err != nil {
		return Activity{}, err
	}
	started := s.now()
	a.BreakStartedAt = &started
	saved, err := s.store.Save(ctx, a)
	if err != nil {
		return Activity{}, err
	}
	s.setPresence(ctx, executiveID, false)
	return saved, nil
}

// StopBreak closes the running break, accumulates its duration and marks the
// executive online again.
func (s *Service) StopBreak(ctx context.Context, executiveID uuid.UUID) (Activity, error) {
	const op = "activity.StopBreak"
	a, err := s.store.GetDay(ctx, executiveID, s.today())
	if err != nil {
		return Activity{}, err
	}
	if a.BreakStartedAt == nil {
		return Activity{}, apperr.Validation("break session not started").WithOp(op)
	}
	a.BreakSeconds += int64(s.now().Sub(*a.BreakStartedAt) / time.Second)
	a.BreakStartedAt = nil
	saved, err := s.store.Save(ctx, a)
	if err != nil {
		return Activity{}, err
	}
	s.setPresence(ctx, executiveID, true)
	return saved, nil
}

// AddCallTime accumulates call minutes reported by the dialer frontend.
func (s *Service) AddCallTime(ctx context.Context, executiveID uuid.UUID, minutes int) (Activity, error) {
	if minutes <= 0 {
		return Activity{}, apperr.Validation("call minutes must be positive").WithOp("activity.AddCallTime")
	}
	a, err := s.store.UpsertDay(ctx, executiveID, s.today())
	if err != nil {
		return Activity{}, err
	}
	a.CallSeconds += int64(minutes) * 60
	return s.store.Save(ctx, a)
}

// TrackLeadVisit counts a visit to the lead work queue.
func (s *Service) TrackLeadVisit(ctx context.Context, executiveID uuid.UUID) (Activity, error) {
	a, err := s.store.UpsertDay(ctx, executiveID, s.today())
	if err != nil {
		return Activity{}, err
	}
	a.LeadSectionVisits++
	return s.store.Save(ctx, a)
}

// AdminDashboard returns today's activity for every executive.
func (s *Service) AdminDashboard(ctx context.Context) ([]Activity, error) {
	return s.store.ListDay(ctx, s.today())
}

// ExecutiveStats returns the executive's own workload counters.
func (s *Service) ExecutiveStats(ctx context.Context, executiveID uuid.UUID) (DashboardStats, error) {
	freshLeads, err := s.store.CountFreshLeadsByExecutive(ctx, executiveID)
	if err != nil {
		return DashboardStats{}, err
	}
	followUps, err := s.store.CountFollowUpsByExecutive(ctx, executiveID)
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{FreshLeads: freshLeads, FollowUps: followUps}, nil
}

// setPresence is best effort: a failed flag update never fails the timer.
func (s *Service) setPresence(ctx context.Context, executiveID uuid.UUID, online bool) {
	if s.presence == nil {
		return
	}
	if err := s.presence.SetOnline(ctx, executiveID, online); err != nil {
		s.log.Warn("presence update failed", "executive_id", executiveID, "online", online, "error", err.Error())
	}
}
