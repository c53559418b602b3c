package activity

import (
	"context"
	"testing"
	"time"

	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type dayKey struct {
	executive uuid.UUID
	day       time.Time
}

type fakeStore struct {
	activities map[dayKey]Activity
	freshLeads map[uuid.UUID]int
	followUps  map[uuid.UUID]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		activities: make(map[dayKey]Activity),
		freshLeads: make(map[uuid.UUID]int),
		followUps:  make(map[uuid.UUID]int),
	}
}

func (f *fakeStore) UpsertDay(_ context.Context, executiveID uuid.UUID, day time.Time) (Activity, error) {
	key := dayKey{executiveID, day}
	a, ok := f.activities[key]
	if !ok {
		a = Activity{ID: uuid.New(), ExecutiveID: executiveID, ActivityDate: day}
		f.activities[key] = a
	}
	return a, nil
}

func (f *fakeStore) GetDay(_ context.Context, executiveID uuid.UUID, day time.Time) (Activity, error) {
	a, ok := f.activities[dayKey{executiveID, day}]
	if !ok {
		return Activity{}, apperr.NotFound("no activity recorded today")
	}
	return a, nil
}

func (f *fakeStore) Save(_ context.Context, a Activity) (Activity, error) {
	for key, existing := range f.activities {
		if existing.ID == a.ID {
			f.activities[key] = a
			return a, nil
		}
	}
	return Activity{}, apperr.NotFound("activity not found")
}

func (f *fakeStore) ListDay(_ context.Context, day time.Time) ([]Activity, error) {
	items := make([]Activity, 0)
	for key, a := range f.activities {
		if key.day.Equal(day) {
			items = append(items, a)
		}
	}
	return items, nil
}

func (f *fakeStore) CountFreshLeadsByExecutive(_ context.Context, executiveID uuid.UUID) (int, error) {
	return f.freshLeads[executiveID], nil
}

func (f *fakeStore) CountFollowUpsByExecutive(_ context.Context, executiveID uuid.UUID) (int, error) {
	return f.followUps[executiveID], nil
}

type fakePresence struct {
	online map[uuid.UUID]bool
}

func (f *fakePresence) SetOnline(_ context.Context, userID uuid.UUID, online bool) error {
	if f.online == nil {
		f.online = make(map[uuid.UUID]bool)
	}
	f.online[userID] = online
	return nil
}

func newTestService(store *fakeStore, presence *fakePresence) *Service {
	var p PresenceSetter
	if presence != nil {
		p = presence
	}
	svc := New(store, p, logger.New("development"))
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	return svc
}

func advance(svc *Service, d time.Duration) {
	current := svc.now()
	svc.now = func() time.Time { return current.Add(d) }
}

func TestWorkSessionAccumulates(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	exec := uuid.New()

	if _, err := svc.StartWork(ctx, exec); err != nil {
		t.Fatalf("start work: %v", err)
	}
	advance(svc, 90*time.Minute)
	a, err := svc.StopWork(ctx, exec)
	if err != nil {
		t.Fatalf("stop work: %v", err)
	}
	if a.WorkSeconds != 90*60 {
		t.Errorf("work seconds = %d, want %d", a.WorkSeconds, 90*60)
	}
	if a.WorkStartedAt != nil {
		t.Error("work session still open after stop")
	}

	// A second session the same day adds to the total.
	if _, err := svc.StartWork(ctx, exec); err != nil {
		t.Fatalf("restart work: %v", err)
	}
	advance(svc, 30*time.Minute)
	a, err = svc.StopWork(ctx, exec)
	if err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if a.WorkSeconds != 120*60 {
		t.Errorf("accumulated work seconds = %d, want %d", a.WorkSeconds, 120*60)
	}
}

func TestStopWithoutStartIsRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	exec := uuid.New()

	if _, err := svc.StopWork(ctx, exec); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("stop work with no activity: kind = %v, want NotFound", apperr.GetKind(err))
	}

	if _, err := svc.StartWork(ctx, exec); err != nil {
		t.Fatalf("start work: %v", err)
	}
	if _, err := svc.StopBreak(ctx, exec); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("stop break without start: kind = %v, want Validation", apperr.GetKind(err))
	}
	if _, err := svc.StopWork(ctx, exec); err != nil {
		t.Fatalf("stop work: %v", err)
	}
	if _, err := svc.StopWork(ctx, exec); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("double stop work: kind = %v, want Validation", apperr.GetKind(err))
	}
}

func TestBreakTogglesPresence(t *testing.T) {
	store := newFakeStore()
	presence := &fakePresence{}
	svc := newTestService(store, presence)
	ctx := context.Background()
	exec := uuid.New()

	if _, err := svc.StartWork(ctx, exec); err != nil {
		t.Fatalf("start work: %v", err)
	}
	if _, err := svc.StartBreak(ctx, exec); err != nil {
		t.Fatalf("start break: %v", err)
	}
	if presence.online[exec] {
		t.Error("executive still online during break")
	}

	advance(svc, 15*time.Minute)
	a, err := svc.StopBreak(ctx, exec)
	if err != nil {
		t.Fatalf("stop break: %v", err)
	}
	if a.BreakSeconds != 15*60 {
		t.Errorf("break seconds = %d, want %d", a.BreakSeconds, 15*60)
	}
	if !presence.online[exec] {
		t.Error("executive not back online after break")
	}
}

func TestCallTimeAndVisits(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	exec := uuid.New()

	if _, err := svc.AddCallTime(ctx, exec, 0); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("zero minutes: kind = %v, want Validation", apperr.GetKind(err))
	}
	a, err := svc.AddCallTime(ctx, exec, 12)
	if err != nil {
		t.Fatalf("add call time: %v", err)
	}
	if a.CallSeconds != 12*60 {
		t.Errorf("call seconds = %d, want %d", a.CallSeconds, 12*60)
	}

	for i := 0; i < 3; i++ {
		if a, err = svc.TrackLeadVisit(ctx, exec); err != nil {
			t.Fatalf("track visit %d: %v", i, err)
		}
	}
	if a.LeadSectionVisits != 3 {
		t.Errorf("lead section visits = %d, want 3", a.LeadSectionVisits)
	}
}

func TestExecutiveStats(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	exec := uuid.New()
	store.freshLeads[exec] = 7
	store.followUps[exec] = 4

	stats, err := svc.ExecutiveStats(context.Background(), exec)
	if err != nil {
		t.Fatalf("executive stats: %v", err)
	}
	if stats.FreshLeads != 7 || stats.FollowUps != 4 {
		t.Errorf("stats = %+v, want {7 4}", stats)
	}
}
