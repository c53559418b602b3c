// Package ports defines the interfaces that the leads domain requires from
// external systems. The implementations are provided by the composition root,
// so the lifecycle engine never imports other domains directly.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Executive is the user information the leads domain needs when assigning work.
type Executive struct {
	ID       uuid.UUID
	Username string
	Role     string
}

// UserDirectory resolves principals by username. Backed by the identity
// collaborator; the leads domain trusts the role it returns.
type UserDirectory interface {
	// GetByUsername returns the user with the given username.
	GetByUsername(ctx context.Context, username string) (Executive, error)
}
