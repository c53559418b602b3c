package repository

import (
	"context"
	"errors"

	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const meetingColumns = `id, fresh_lead_id, executive_id, client_name, client_email, client_phone,
	reason_for_followup, start_time, end_time, created_at, updated_at`

func scanMeeting(row pgx.Row) (Meeting, error) {
	var m Meeting
	err := row.Scan(&m.ID, &m.FreshLeadID, &m.ExecutiveID, &m.ClientName, &m.ClientEmail, &m.ClientPhone,
		&m.ReasonForFollowup, &m.StartTime, &m.EndTime, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateMeetingWithStatus books a meeting and moves the owning client lead to
// Meeting in the same transaction.
func (r *Repository) CreateMeetingWithStatus(ctx context.Context, params CreateMeetingParams) (Meeting, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Meeting{}, apperr.Wrap(apperr.KindInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE client_leads SET status = 'Meeting', updated_at = now() WHERE id = $1
	`, params.ClientLeadID)
	if err != nil {
		return Meeting{}, apperr.Wrap(apperr.KindInternal, "update client lead status failed", err)
	}
	if tag.RowsAffected() == 0 {
		return Meeting{}, apperr.NotFound(clientLeadNotFoundMsg)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO meetings (fresh_lead_id, executive_id, client_name, client_email, client_phone,
			reason_for_followup, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+meetingColumns,
		params.FreshLeadID, params.ExecutiveID, params.ClientName, params.ClientEmail, params.ClientPhone,
		params.ReasonForFollowup, params.StartTime, params.EndTime,
	)

	m, err := scanMeeting(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Meeting{}, apperr.NotFound(freshLeadNotFoundMsg)
		}
		return Meeting{}, apperr.Wrap(apperr.KindInternal, "create meeting failed", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Meeting{}, apperr.Wrap(apperr.KindInternal, "failed to commit meeting", err)
	}
	return m, nil
}

// ListMeetingsByExecutive returns the executive's meetings, soonest first.
func (r *Repository) ListMeetingsByExecutive(ctx context.Context, executiveID uuid.UUID) ([]Meeting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE executive_id = $1
		ORDER BY start_time ASC
	`, executiveID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list meetings failed", err)
	}
	defer rows.Close()

	items := make([]Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan meeting failed", err)
		}
		items = append(items, m)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list meetings failed", rows.Err())
	}
	return items, nil
}

// ListMeetings returns a page of all meetings, soonest first.
func (r *Repository) ListMeetings(ctx context.Context, limit, offset int) ([]Meeting, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count meetings failed", err)
	}

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		ORDER BY start_time ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list meetings failed", err)
	}
	defer rows.Close()

	items := make([]Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan meeting failed", err)
		}
		items = append(items, m)
	}
	if rows.Err() != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list meetings failed", rows.Err())
	}
	return items, total, nil
}
