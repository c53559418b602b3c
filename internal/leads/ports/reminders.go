package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FollowUpReminder is the payload scheduled for a future follow-up.
type FollowUpReminder struct {
	FreshLeadID uuid.UUID
	ExecutiveID uuid.UUID
	ClientName  string
}

// ReminderScheduler schedules a reminder to fire at the follow-up's date and
// time. Scheduling is best-effort: failures are logged by the caller and never
// fail the lifecycle transaction.
type ReminderScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, reminder FollowUpReminder, runAt time.Time) error
}
