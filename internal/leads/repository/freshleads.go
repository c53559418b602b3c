package repository

import (
	"context"
	"errors"

	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const freshLeadColumns = `id, lead_id, name, phone, email, follow_up_status, created_at, updated_at`

func scanFreshLead(row pgx.Row) (FreshLead, error) {
	var fl FreshLead
	err := row.Scan(&fl.ID, &fl.LeadID, &fl.Name, &fl.Phone, &fl.Email, &fl.FollowUpStatus, &fl.CreatedAt, &fl.UpdatedAt)
	return fl, err
}

// CreateFreshLead materializes the working record for an assigned lead.
// A lead has at most one fresh lead; a second create conflicts.
func (r *Repository) CreateFreshLead(ctx context.Context, params CreateFreshLeadParams) (FreshLead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO fresh_leads (lead_id, name, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING `+freshLeadColumns,
		params.LeadID, params.Name, params.Phone, params.Email,
	)

	fl, err := scanFreshLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return FreshLead{}, apperr.Conflict("fresh lead already exists for this lead")
			case pgForeignKeyViolation:
				return FreshLead{}, apperr.NotFound(leadNotFoundMsg)
			}
		}
		return FreshLead{}, apperr.Wrap(apperr.KindInternal, "create fresh lead failed", err)
	}
	return fl, nil
}

// GetFreshLeadByID returns one fresh lead.
func (r *Repository) GetFreshLeadByID(ctx context.Context, id uuid.UUID) (FreshLead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+freshLeadColumns+` FROM fresh_leads WHERE id = $1`, id)
	fl, err := scanFreshLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FreshLead{}, apperr.NotFound(freshLeadNotFoundMsg)
		}
		return FreshLead{}, apperr.Wrap(apperr.KindInternal, "get fresh lead failed", err)
	}
	return fl, nil
}

// GetLeadChain resolves the fresh lead together with its lead and client lead
// ancestry in one query.
func (r *Repository) GetLeadChain(ctx context.Context, freshLeadID uuid.UUID) (LeadChain, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT fl.id, fl.lead_id, fl.name, fl.phone, fl.email, fl.follow_up_status, fl.created_at, fl.updated_at,
		       l.id, l.client_lead_id, l.executive_id, l.assigned_to_executive, l.created_at, l.updated_at,
		       cl.id, cl.name, cl.email, cl.phone, cl.source, cl.status, cl.created_at, cl.updated_at
		FROM fresh_leads fl
		JOIN leads l ON l.id = fl.lead_id
		JOIN client_leads cl ON cl.id = l.client_lead_id
		WHERE fl.id = $1
	`, freshLeadID)

	var chain LeadChain
	err := row.Scan(
		&chain.FreshLead.ID, &chain.FreshLead.LeadID, &chain.FreshLead.Name, &chain.FreshLead.Phone,
		&chain.FreshLead.Email, &chain.FreshLead.FollowUpStatus, &chain.FreshLead.CreatedAt, &chain.FreshLead.UpdatedAt,
		&chain.Lead.ID, &chain.Lead.ClientLeadID, &chain.Lead.ExecutiveID, &chain.Lead.AssignedToExecutive,
		&chain.Lead.CreatedAt, &chain.Lead.UpdatedAt,
		&chain.ClientLead.ID, &chain.ClientLead.Name, &chain.ClientLead.Email, &chain.ClientLead.Phone,
		&chain.ClientLead.Source, &chain.ClientLead.Status, &chain.ClientLead.CreatedAt, &chain.ClientLead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LeadChain{}, apperr.NotFound(freshLeadNotFoundMsg)
		}
		return LeadChain{}, apperr.Wrap(apperr.KindInternal, "resolve lead chain failed", err)
	}
	return chain, nil
}
