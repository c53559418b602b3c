// Package exports produces CSV extracts of the lead book for offline
// reporting.
package exports

import (
	"context"
	"time"

	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientLeadRow is one row of the client lead export, with the assigned
// executive and current follow-up state joined in when present.
type ClientLeadRow struct {
	ID                uuid.UUID
	Name              string
	Phone             string
	Email             string
	Source            *string
	Status            string
	ExecutiveUsername *string
	FollowUpStatus    *string
	CreatedAt         time.Time
}

// ProcessedFinalRow is one row of the finalized lead export.
type ProcessedFinalRow struct {
	ID              uuid.UUID
	FreshLeadID     uuid.UUID
	Name            string
	Phone           string
	Email           string
	ProcessPersonID uuid.UUID
	CreatedAt       time.Time
}

// Repository provides data access for export queries.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListClientLeadRows returns the lead book within [from, to), optionally
// filtered by status.
func (r *Repository) ListClientLeadRows(ctx context.Context, status string, from, to time.Time) ([]ClientLeadRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cl.id, cl.name, cl.phone, cl.email, cl.source, cl.status,
			u.username, fl.follow_up_status, cl.created_at
		FROM client_leads cl
		LEFT JOIN leads l ON l.client_lead_id = cl.id
		LEFT JOIN users u ON u.id = l.executive_id
		LEFT JOIN fresh_leads fl ON fl.lead_id = l.id
		WHERE cl.created_at >= $1 AND cl.created_at < $2
			AND ($3 = '' OR cl.status = $3)
		ORDER BY cl.created_at ASC
	`, from, to, status)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "export client leads failed", err)
	}
	defer rows.Close()

	items := make([]ClientLeadRow, 0)
	for rows.Next() {
		var row ClientLeadRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Phone, &row.Email, &row.Source,
			&row.Status, &row.ExecutiveUsername, &row.FollowUpStatus, &row.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan export row failed", err)
		}
		items = append(items, row)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "export client leads failed", rows.Err())
	}
	return items, nil
}

// ListProcessedFinalRows returns finalized leads within [from, to).
func (r *Repository) ListProcessedFinalRows(ctx context.Context, from, to time.Time) ([]ProcessedFinalRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, fresh_lead_id, name, phone, email, process_person_id, created_at
		FROM processed_finals
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC
	`, from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "export processed finals failed", err)
	}
	defer rows.Close()

	items := make([]ProcessedFinalRow, 0)
	for rows.Next() {
		var row ProcessedFinalRow
		if err := rows.Scan(&row.ID, &row.FreshLeadID, &row.Name, &row.Phone, &row.Email,
			&row.ProcessPersonID, &row.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan export row failed", err)
		}
		items = append(items, row)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "export processed finals failed", rows.Err())
	}
	return items, nil
}
