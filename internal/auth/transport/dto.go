// Package transport defines the request and response shapes for the auth
// HTTP surface.
package transport

import (
	"crm_portal_backend/internal/auth/repository"

	"github.com/google/uuid"
)

// CreateUserRequest registers one account (Admin only).
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	FullName string  `json:"fullName" validate:"required,min=1,max=200"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Role     string  `json:"role" validate:"required,oneof=Admin TL Executive HR Manager Process"`
}

// LoginRequest authenticates by username and password.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a session.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// ListUsersRequest filters the account list.
type ListUsersRequest struct {
	Role string `form:"role" validate:"omitempty,oneof=Admin TL Executive HR Manager Process"`
}

// UserResponse is the wire shape of an account.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Phone    *string   `json:"phone,omitempty"`
	Role     string    `json:"role"`
	IsOnline bool      `json:"isOnline"`
}

// NewUserResponse maps a stored account to the wire shape.
func NewUserResponse(u repository.User) UserResponse {
	return UserResponse{
		ID: u.ID, Username: u.Username, FullName: u.FullName, Email: u.Email,
		Phone: u.Phone, Role: u.Role, IsOnline: u.IsOnline,
	}
}

// SessionResponse carries the issued tokens and their owner.
type SessionResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}
