// Package adapter bridges the auth module to ports other domains consume.
package adapter

import (
	"context"

	"crm_portal_backend/internal/auth/repository"
	"crm_portal_backend/internal/leads/ports"
	"crm_portal_backend/internal/notification"

	"github.com/google/uuid"
)

// UserDirectory implements the leads UserDirectory port on top of the user
// store.
type UserDirectory struct {
	repo repository.Store
}

// NewUserDirectory creates the adapter.
func NewUserDirectory(repo repository.Store) *UserDirectory {
	return &UserDirectory{repo: repo}
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

// GetByUsername resolves a user by username.
func (d *UserDirectory) GetByUsername(ctx context.Context, username string) (ports.Executive, error) {
	u, err := d.repo.GetByUsername(ctx, username)
	if err != nil {
		return ports.Executive{}, err
	}
	return ports.Executive{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// SetOnline flips the user's presence flag. Consumed by the activity module
// when executives start and stop breaks.
func (d *UserDirectory) SetOnline(ctx context.Context, userID uuid.UUID, online bool) error {
	return d.repo.SetOnline(ctx, userID, online)
}

// GetRecipient resolves a user's email address for outbound notifications.
func (d *UserDirectory) GetRecipient(ctx context.Context, userID uuid.UUID) (notification.Recipient, error) {
	u, err := d.repo.GetByID(ctx, userID)
	if err != nil {
		return notification.Recipient{}, err
	}
	return notification.Recipient{ID: u.ID, Email: u.Email}, nil
}
