package repository

import (
	"context"
	"errors"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const followUpColumns = `id, fresh_lead_id, connect_via, follow_up_type, interaction_rating,
	reason_for_follow_up, follow_up_date, follow_up_time::text, created_at, updated_at`

func scanFollowUp(row pgx.Row) (FollowUp, error) {
	var f FollowUp
	err := row.Scan(&f.ID, &f.FreshLeadID, &f.ConnectVia, &f.FollowUpType, &f.InteractionRating,
		&f.Reason, &f.FollowUpDate, &f.FollowUpTime, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// RecordFollowUp applies one contact attempt atomically: the current
// follow-up row is upserted, an immutable history row is appended, the fresh
// lead's follow-up status is advanced, and for a terminal type the outcome
// record is inserted. If any step fails nothing is visible.
//
// Concurrent terminal attempts are arbitrated by the unique constraint on the
// outcome tables: the second writer gets a conflict and the transaction rolls
// back whole.
func (r *Repository) RecordFollowUp(ctx context.Context, params FollowUpParams) (FollowUpResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return FollowUpResult{}, apperr.Wrap(apperr.KindInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO follow_ups (fresh_lead_id, connect_via, follow_up_type, interaction_rating,
			reason_for_follow_up, follow_up_date, follow_up_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7::time)
		ON CONFLICT (fresh_lead_id) DO UPDATE
			SET connect_via = EXCLUDED.connect_via,
			    follow_up_type = EXCLUDED.follow_up_type,
			    interaction_rating = EXCLUDED.interaction_rating,
			    reason_for_follow_up = EXCLUDED.reason_for_follow_up,
			    follow_up_date = EXCLUDED.follow_up_date,
			    follow_up_time = EXCLUDED.follow_up_time,
			    updated_at = now()
		RETURNING `+followUpColumns,
		params.FreshLeadID, params.ConnectVia, params.FollowUpType, params.InteractionRating,
		params.Reason, params.FollowUpDate, params.FollowUpTime,
	)

	var result FollowUpResult
	result.FollowUp, err = scanFollowUp(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return FollowUpResult{}, apperr.NotFound(freshLeadNotFoundMsg)
		}
		return FollowUpResult{}, apperr.Wrap(apperr.KindInternal, "upsert follow-up failed", err)
	}

	historyRow := tx.QueryRow(ctx, `
		INSERT INTO follow_up_histories (follow_up_id, fresh_lead_id, connect_via, follow_up_type,
			interaction_rating, reason_for_follow_up, follow_up_date, follow_up_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::time)
		RETURNING id, follow_up_id, fresh_lead_id, connect_via, follow_up_type, interaction_rating,
			reason_for_follow_up, follow_up_date, follow_up_time::text, created_at`,
		result.FollowUp.ID, params.FreshLeadID, params.ConnectVia, params.FollowUpType,
		params.InteractionRating, params.Reason, params.FollowUpDate, params.FollowUpTime,
	)
	h := &result.History
	if err := historyRow.Scan(&h.ID, &h.FollowUpID, &h.FreshLeadID, &h.ConnectVia, &h.FollowUpType,
		&h.InteractionRating, &h.Reason, &h.FollowUpDate, &h.FollowUpTime, &h.CreatedAt); err != nil {
		return FollowUpResult{}, apperr.Wrap(apperr.KindInternal, "append follow-up history failed", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE fresh_leads SET follow_up_status = $2, updated_at = now() WHERE id = $1
	`, params.FreshLeadID, params.FollowUpType); err != nil {
		return FollowUpResult{}, apperr.Wrap(apperr.KindInternal, "advance fresh lead status failed", err)
	}

	switch domain.FollowUpType(params.FollowUpType).Outcome() {
	case domain.OutcomeConverted:
		id, err := insertTerminal(ctx, tx, "converted_clients", "close_leads", params.FreshLeadID)
		if err != nil {
			return FollowUpResult{}, err
		}
		result.TerminalID = &id
	case domain.OutcomeClosed:
		id, err := insertTerminal(ctx, tx, "close_leads", "converted_clients", params.FreshLeadID)
		if err != nil {
			return FollowUpResult{}, err
		}
		result.TerminalID = &id
	}

	if err := tx.Commit(ctx); err != nil {
		return FollowUpResult{}, apperr.Wrap(apperr.KindInternal, "failed to commit follow-up", err)
	}
	return result, nil
}

// insertTerminal records the outcome in table after verifying the sibling
// table holds no record for the same fresh lead: conversion and closure are
// mutually exclusive, and the unique constraint only arbitrates same-table
// races.
func insertTerminal(ctx context.Context, tx pgx.Tx, table, sibling string, freshLeadID uuid.UUID) (uuid.UUID, error) {
	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+sibling+` WHERE fresh_lead_id = $1)`, freshLeadID,
	).Scan(&exists); err != nil {
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "check terminal outcome failed", err)
	}
	if exists {
		return uuid.Nil, apperr.Conflict("lead already has a terminal outcome")
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx,
		`INSERT INTO `+table+` (fresh_lead_id) VALUES ($1) RETURNING id`, freshLeadID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, apperr.Conflict("lead already has a terminal outcome")
		}
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "record terminal outcome failed", err)
	}
	return id, nil
}

// GetCurrentFollowUp returns the current contact attempt for a fresh lead.
func (r *Repository) GetCurrentFollowUp(ctx context.Context, freshLeadID uuid.UUID) (FollowUp, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups WHERE fresh_lead_id = $1`, freshLeadID)
	f, err := scanFollowUp(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FollowUp{}, apperr.NotFound("no follow-up recorded for this lead")
		}
		return FollowUp{}, apperr.Wrap(apperr.KindInternal, "get follow-up failed", err)
	}
	return f, nil
}

// ListFollowUpHistory returns all contact attempts for a fresh lead, oldest
// first.
func (r *Repository) ListFollowUpHistory(ctx context.Context, freshLeadID uuid.UUID) ([]FollowUpHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, follow_up_id, fresh_lead_id, connect_via, follow_up_type, interaction_rating,
			reason_for_follow_up, follow_up_date, follow_up_time::text, created_at
		FROM follow_up_histories
		WHERE fresh_lead_id = $1
		ORDER BY created_at ASC
	`, freshLeadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list follow-up history failed", err)
	}
	defer rows.Close()

	items := make([]FollowUpHistory, 0)
	for rows.Next() {
		var h FollowUpHistory
		if err := rows.Scan(&h.ID, &h.FollowUpID, &h.FreshLeadID, &h.ConnectVia, &h.FollowUpType,
			&h.InteractionRating, &h.Reason, &h.FollowUpDate, &h.FollowUpTime, &h.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan follow-up history failed", err)
		}
		items = append(items, h)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list follow-up history failed", rows.Err())
	}
	return items, nil
}
