// Package repository persists the lead lifecycle entity graph. Multi-step
// lifecycle operations run in a single transaction so no partial state is
// visible to other readers.
package repository

import (
	"context"
	"errors"
	"fmt"

	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	clientLeadNotFoundMsg = "client lead not found"
	freshLeadNotFoundMsg  = "fresh lead not found"
	leadNotFoundMsg       = "lead not found"
)

// Repository is the pgx-backed implementation of Store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const clientLeadColumns = `id, name, email, phone, source, status, created_at, updated_at`

func scanClientLead(row pgx.Row) (ClientLead, error) {
	var cl ClientLead
	err := row.Scan(&cl.ID, &cl.Name, &cl.Email, &cl.Phone, &cl.Source, &cl.Status, &cl.CreatedAt, &cl.UpdatedAt)
	return cl, err
}

// CreateClientLead inserts one imported client lead with status New.
func (r *Repository) CreateClientLead(ctx context.Context, params CreateClientLeadParams) (ClientLead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO client_leads (name, email, phone, source)
		VALUES ($1, $2, $3, $4)
		RETURNING `+clientLeadColumns,
		params.Name, params.Email, params.Phone, params.Source,
	)

	cl, err := scanClientLead(row)
	if err != nil {
		return ClientLead{}, apperr.Wrap(apperr.KindInternal, "create client lead failed", err)
	}
	return cl, nil
}

// BulkCreateClientLeads imports a batch of client leads in one transaction.
func (r *Repository) BulkCreateClientLeads(ctx context.Context, params []CreateClientLeadParams) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, p := range params {
		if _, err := tx.Exec(ctx, `
			INSERT INTO client_leads (name, email, phone, source)
			VALUES ($1, $2, $3, $4)
		`, p.Name, p.Email, p.Phone, p.Source); err != nil {
			return 0, apperr.Wrap(apperr.KindInternal, fmt.Sprintf("bulk insert failed after %d rows", inserted), err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to commit bulk import", err)
	}
	return inserted, nil
}

// GetClientLeadByID returns one client lead.
func (r *Repository) GetClientLeadByID(ctx context.Context, id uuid.UUID) (ClientLead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clientLeadColumns+` FROM client_leads WHERE id = $1`, id)
	cl, err := scanClientLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ClientLead{}, apperr.NotFound(clientLeadNotFoundMsg)
		}
		return ClientLead{}, apperr.Wrap(apperr.KindInternal, "get client lead failed", err)
	}
	return cl, nil
}

// ListClientLeads returns a page of client leads, optionally filtered by status.
func (r *Repository) ListClientLeads(ctx context.Context, params ListClientLeadsParams) ([]ClientLead, int, error) {
	where := ""
	args := []interface{}{}
	if params.Status != "" {
		where = "WHERE status = $1"
		args = append(args, params.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM client_leads `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "count client leads failed", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, params.Offset)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM client_leads %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, clientLeadColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list client leads failed", err)
	}
	defer rows.Close()

	items := make([]ClientLead, 0)
	for rows.Next() {
		cl, err := scanClientLead(rows)
		if err != nil {
			return nil, 0, apperr.Wrap(apperr.KindInternal, "scan client lead failed", err)
		}
		items = append(items, cl)
	}
	if rows.Err() != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list client leads failed", rows.Err())
	}

	return items, total, nil
}

// UpdateClientLeadStatus sets the status column. Transition validity is
// checked by the service against the domain transition table.
func (r *Repository) UpdateClientLeadStatus(ctx context.Context, id uuid.UUID, status string) (ClientLead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE client_leads SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+clientLeadColumns, id, status)

	cl, err := scanClientLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ClientLead{}, apperr.NotFound(clientLeadNotFoundMsg)
		}
		return ClientLead{}, apperr.Wrap(apperr.KindInternal, "update client lead status failed", err)
	}
	return cl, nil
}

// DeleteClientLead removes the client lead; the cascade chain removes its
// lead, fresh lead, follow-ups, histories and terminal records.
func (r *Repository) DeleteClientLead(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM client_leads WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete client lead failed", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(clientLeadNotFoundMsg)
	}
	return nil
}

const leadColumns = `id, client_lead_id, executive_id, assigned_to_executive, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.ClientLeadID, &l.ExecutiveID, &l.AssignedToExecutive, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// UpsertLeadAssignment creates the lead row for a client lead or, on
// reassignment, updates the existing row in place. Idempotent for repeated
// assignment to the same executive.
func (r *Repository) UpsertLeadAssignment(ctx context.Context, clientLeadID, executiveID uuid.UUID, executiveUsername string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (client_lead_id, executive_id, assigned_to_executive)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_lead_id) DO UPDATE
			SET executive_id = EXCLUDED.executive_id,
			    assigned_to_executive = EXCLUDED.assigned_to_executive,
			    updated_at = now()
		RETURNING `+leadColumns,
		clientLeadID, executiveID, executiveUsername,
	)

	l, err := scanLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Lead{}, apperr.NotFound(clientLeadNotFoundMsg)
		}
		return Lead{}, apperr.Wrap(apperr.KindInternal, "assign executive failed", err)
	}
	return l, nil
}

// GetLeadByID returns one lead.
func (r *Repository) GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	l, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return Lead{}, apperr.Wrap(apperr.KindInternal, "get lead failed", err)
	}
	return l, nil
}

// ListLeadsByExecutive returns all leads assigned to an executive.
func (r *Repository) ListLeadsByExecutive(ctx context.Context, executiveID uuid.UUID) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE executive_id = $1
		ORDER BY created_at DESC
	`, executiveID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list leads failed", err)
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan lead failed", err)
		}
		items = append(items, l)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list leads failed", rows.Err())
	}
	return items, nil
}
