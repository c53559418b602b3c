// Package documents stores customer document metadata with binaries in
// object storage. Not consumed by the lifecycle engine.
package documents

import (
	"context"
	"errors"
	"time"

	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Document is one stored customer document.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	FreshLeadID *uuid.UUID `json:"freshLeadId,omitempty"`
	UploadedBy  uuid.UUID  `json:"uploadedBy"`
	FileName    string     `json:"fileName"`
	ObjectKey   string     `json:"-"`
	ContentType string     `json:"contentType"`
	SizeBytes   int64      `json:"sizeBytes"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Repository is the pgx-backed document metadata store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const documentColumns = `id, fresh_lead_id, uploaded_by, file_name, object_key, content_type, size_bytes, created_at`

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.FreshLeadID, &d.UploadedBy, &d.FileName, &d.ObjectKey, &d.ContentType, &d.SizeBytes, &d.CreatedAt)
	return d, err
}

// Create inserts one document record.
func (r *Repository) Create(ctx context.Context, d Document) (Document, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customer_documents (fresh_lead_id, uploaded_by, file_name, object_key, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+documentColumns,
		d.FreshLeadID, d.UploadedBy, d.FileName, d.ObjectKey, d.ContentType, d.SizeBytes,
	)

	created, err := scanDocument(row)
	if err != nil {
		return Document{}, apperr.Wrap(apperr.KindInternal, "create document failed", err)
	}
	return created, nil
}

// GetByID returns one document record.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM customer_documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, apperr.NotFound("document not found")
		}
		return Document{}, apperr.Wrap(apperr.KindInternal, "get document failed", err)
	}
	return d, nil
}

// ListByFreshLead returns all documents attached to a fresh lead.
func (r *Repository) ListByFreshLead(ctx context.Context, freshLeadID uuid.UUID) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+` FROM customer_documents
		WHERE fresh_lead_id = $1
		ORDER BY created_at DESC
	`, freshLeadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list documents failed", err)
	}
	defer rows.Close()

	items := make([]Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan document failed", err)
		}
		items = append(items, d)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list documents failed", rows.Err())
	}
	return items, nil
}

// Delete removes one document record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customer_documents WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete document failed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("document not found")
	}
	return nil
}
