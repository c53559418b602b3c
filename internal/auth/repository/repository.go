// Package repository persists user accounts.
package repository

import (
	"context"
	"errors"

	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User is one portal account.
type User struct {
	ID           uuid.UUID
	Username     string
	FullName     string
	Email        string
	Phone        *string
	PasswordHash string
	Role         string
	IsOnline     bool
}

// CreateUserParams holds the fields for one new account.
type CreateUserParams struct {
	Username     string
	FullName     string
	Email        string
	Phone        *string
	PasswordHash string
	Role         string
}

// Repository is the pgx-backed user store.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const userColumns = `id, username, full_name, email, phone, password_hash, role, is_online`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.IsOnline)
	return u, err
}

// CreateUser inserts one account. Username and email are unique.
func (r *Repository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, full_name, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		params.Username, params.FullName, params.Email, params.Phone, params.PasswordHash, params.Role,
	)

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, apperr.Conflict("username or email already taken")
		}
		return User{}, apperr.Wrap(apperr.KindInternal, "create user failed", err)
	}
	return u, nil
}

// GetByUsername returns the account with the given username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, apperr.Wrap(apperr.KindInternal, "get user failed", err)
	}
	return u, nil
}

// GetByID returns the account with the given id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, apperr.Wrap(apperr.KindInternal, "get user failed", err)
	}
	return u, nil
}

// ListByRole returns all accounts with the given role, or all accounts when
// role is empty.
func (r *Repository) ListByRole(ctx context.Context, role string) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	args := []interface{}{}
	if role != "" {
		query = `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY username`
		args = append(args, role)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list users failed", err)
	}
	defer rows.Close()

	items := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan user failed", err)
		}
		items = append(items, u)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list users failed", rows.Err())
	}
	return items, nil
}

// SetOnline flips the presence flag.
func (r *Repository) SetOnline(ctx context.Context, id uuid.UUID, online bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET is_online = $2, updated_at = now() WHERE id = $1
	`, id, online)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "set online failed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "update password failed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
