// Package activity tracks daily executive work, break and call time, and
// serves the activity dashboards.
package activity

import (
	"context"
	"errors"
	"time"

	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Activity is one executive's accumulated activity for a single day.
type Activity struct {
	ID                uuid.UUID  `json:"id"`
	ExecutiveID       uuid.UUID  `json:"executiveId"`
	ActivityDate      time.Time  `json:"activityDate"`
	WorkStartedAt     *time.Time `json:"workStartedAt,omitempty"`
	BreakStartedAt    *time.Time `json:"breakStartedAt,omitempty"`
	WorkSeconds       int64      `json:"workSeconds"`
	BreakSeconds      int64      `json:"breakSeconds"`
	CallSeconds       int64      `json:"callSeconds"`
	LeadSectionVisits int        `json:"leadSectionVisits"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Repository is the pgx-backed activity store.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const activityColumns = `id, executive_id, activity_date, work_started_at, break_started_at,
	work_seconds, break_seconds, call_seconds, lead_section_visits, updated_at`

func scanActivity(row pgx.Row) (Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.ExecutiveID, &a.ActivityDate, &a.WorkStartedAt, &a.BreakStartedAt,
		&a.WorkSeconds, &a.BreakSeconds, &a.CallSeconds, &a.LeadSectionVisits, &a.UpdatedAt)
	return a, err
}

// UpsertDay returns the executive's activity row for the given day, creating
// an empty one if none exists yet.
func (r *Repository) UpsertDay(ctx context.Context, executiveID uuid.UUID, day time.Time) (Activity, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO executive_activities (executive_id, activity_date)
		VALUES ($1, $2)
		ON CONFLICT (executive_id, activity_date) DO UPDATE SET updated_at = now()
		RETURNING `+activityColumns,
		executiveID, day,
	)
	a, err := scanActivity(row)
	if err != nil {
		return Activity{}, apperr.Wrap(apperr.KindInternal, "upsert activity failed", err)
	}
	return a, nil
}

// GetDay returns the executive's activity row for the given day.
func (r *Repository) GetDay(ctx context.Context, executiveID uuid.UUID, day time.Time) (Activity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+activityColumns+` FROM executive_activities
		WHERE executive_id = $1 AND activity_date = $2
	`, executiveID, day)
	a, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Activity{}, apperr.NotFound("no activity recorded today")
		}
		return Activity{}, apperr.Wrap(apperr.KindInternal, "get activity failed", err)
	}
	return a, nil
}

// Save persists the mutable timer and counter fields.
func (r *Repository) Save(ctx context.Context, a Activity) (Activity, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE executive_activities
		SET work_started_at = $2, break_started_at = $3, work_seconds = $4,
			break_seconds = $5, call_seconds = $6, lead_section_visits = $7,
			updated_at = now()
		WHERE id = $1
		RETURNING `+activityColumns,
		a.ID, a.WorkStartedAt, a.BreakStartedAt, a.WorkSeconds,
		a.BreakSeconds, a.CallSeconds, a.LeadSectionVisits,
	)
	saved, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Activity{}, apperr.NotFound("activity not found")
		}
		return Activity{}, apperr.Wrap(apperr.KindInternal, "save activity failed", err)
	}
	return saved, nil
}

// ListDay returns every executive's activity for the given day, most recently
// active first.
func (r *Repository) ListDay(ctx context.Context, day time.Time) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+activityColumns+` FROM executive_activities
		WHERE activity_date = $1
		ORDER BY updated_at DESC
	`, day)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list activities failed", err)
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan activity failed", err)
		}
		items = append(items, a)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list activities failed", rows.Err())
	}
	return items, nil
}

// CountFreshLeadsByExecutive counts working records assigned to an executive.
func (r *Repository) CountFreshLeadsByExecutive(ctx context.Context, executiveID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM fresh_leads fl
		JOIN leads l ON l.id = fl.lead_id
		WHERE l.executive_id = $1
	`, executiveID).Scan(&count)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "count fresh leads failed", err)
	}
	return count, nil
}

// CountFollowUpsByExecutive counts current follow-ups on an executive's leads.
func (r *Repository) CountFollowUpsByExecutive(ctx context.Context, executiveID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM follow_ups fu
		JOIN fresh_leads fl ON fl.id = fu.fresh_lead_id
		JOIN leads l ON l.id = fl.lead_id
		WHERE l.executive_id = $1
	`, executiveID).Scan(&count)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "count follow-ups failed", err)
	}
	return count, nil
}
