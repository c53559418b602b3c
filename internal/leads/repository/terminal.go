package repository

import (
	"context"
	"errors"

	"crm_portal_backend/platform/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

// CreateProcessedFinal snapshots a fresh lead into the processed finals
// table. At most one processed final per fresh lead; a repeat conflicts.
func (r *Repository) CreateProcessedFinal(ctx context.Context, params CreateProcessedFinalParams) (ProcessedFinal, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO processed_finals (fresh_lead_id, process_person_id, name, phone, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, fresh_lead_id, process_person_id, name, phone, email, created_at`,
		params.FreshLeadID, params.ProcessPersonID, params.Name, params.Phone, params.Email,
	)

	var pf ProcessedFinal
	err := row.Scan(&pf.ID, &pf.FreshLeadID, &pf.ProcessPersonID, &pf.Name, &pf.Phone, &pf.Email, &pf.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return ProcessedFinal{}, apperr.Conflict("lead is already finalized")
			case pgForeignKeyViolation:
				return ProcessedFinal{}, apperr.NotFound(freshLeadNotFoundMsg)
			}
		}
		return ProcessedFinal{}, apperr.Wrap(apperr.KindInternal, "create processed final failed", err)
	}
	return pf, nil
}

// ListProcessedFinals returns a page of finalized leads, newest first.
func (r *Repository) ListProcessedFinals(ctx context.Context, limit, offset int) ([]ProcessedFinal, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM processed_finals`).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count processed finals failed", err)
	}

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, fresh_lead_id, process_person_id, name, phone, email, created_at
		FROM processed_finals
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list processed finals failed", err)
	}
	defer rows.Close()

	items := make([]ProcessedFinal, 0)
	for rows.Next() {
		var pf ProcessedFinal
		if err := rows.Scan(&pf.ID, &pf.FreshLeadID, &pf.ProcessPersonID, &pf.Name, &pf.Phone, &pf.Email, &pf.CreatedAt); err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan processed final failed", err)
		}
		items = append(items, pf)
	}
	if rows.Err() != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list processed finals failed", rows.Err())
	}
	return items, total, nil
}

