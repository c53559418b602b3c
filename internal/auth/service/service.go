// Package service implements account management and session issuance.
package service

import (
	"context"
	"time"

	"crm_portal_backend/internal/auth/password"
	"crm_portal_backend/internal/auth/repository"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

var knownRoles = map[string]struct{}{
	"Admin": {}, "TL": {}, "Executive": {}, "HR": {}, "Manager": {}, "Process": {},
}

// TokenPair is one issued session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service handles accounts and sessions.
type Service struct {
	repo repository.Store
	cfg  config.AuthServiceConfig
	log  *logger.Logger
	now  func() time.Time
}

// New creates the auth service.
func New(repo repository.Store, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, now: time.Now}
}

// CreateUserParams holds one admin-created account request.
type CreateUserParams struct {
	Username string
	FullName string
	Email    string
	Phone    *string
	Password string
	Role     string
}

// CreateUser registers a new account. Accounts are Admin-created; there is no
// open signup.
func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (repository.User, error) {
	if _, ok := knownRoles[params.Role]; !ok {
		return repository.User{}, apperr.Validation("unknown role: " + params.Role).WithOp("auth.CreateUser")
	}

	hash, err := password.Hash(params.Password)
	if err != nil {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "password hashing failed", err)
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Username:     params.Username,
		FullName:     params.FullName,
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: hash,
		Role:         params.Role,
	})
	if err != nil {
		return repository.User{}, err
	}

	s.log.AuthEvent("user_created", user.Username, true, "")
	return user, nil
}

// Login verifies credentials and issues a session.
func (s *Service) Login(ctx context.Context, username, plainPassword string) (repository.User, TokenPair, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		s.log.AuthEvent("login", username, false, "unknown user")
		return repository.User{}, TokenPair{}, apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", username, false, "bad password")
		return repository.User{}, TokenPair{}, apperr.Unauthorized("invalid credentials")
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return repository.User{}, TokenPair{}, err
	}

	if err := s.repo.SetOnline(ctx, user.ID, true); err != nil {
		s.log.Warn("presence update failed", "user", username, "error", err.Error())
	}
	s.log.AuthEvent("login", username, true, "")
	return user, pair, nil
}

// Logout clears the presence flag. Tokens are stateless and expire on their
// own.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.repo.SetOnline(ctx, userID, false)
}

// Refresh exchanges a valid refresh token for a new session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.parseRefreshClaims(refreshToken)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}

	userIDRaw, _ := claims["sub"].(string)
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}

	// Re-read the account so role changes take effect on rotation.
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}
	return s.issueTokens(user)
}

// Me returns the account behind an authenticated principal.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ListUsers returns accounts, optionally filtered by role.
func (s *Service) ListUsers(ctx context.Context, role string) ([]repository.User, error) {
	if role != "" {
		if _, ok := knownRoles[role]; !ok {
			return nil, apperr.Validation("unknown role: " + role)
		}
	}
	return s.repo.ListByRole(ctx, role)
}

// ChangePassword replaces the caller's password after verifying the current
// one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.Compare(user.PasswordHash, current); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}
	hash, err := password.Hash(next)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "password hashing failed", err)
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

func (s *Service) issueTokens(user repository.User) (TokenPair, error) {
	access, err := s.signJWT(user, accessTokenType, s.cfg.GetAccessTokenTTL(), s.cfg.GetJWTAccessSecret())
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.KindInternal, "access token signing failed", err)
	}
	refresh, err := s.signJWT(user, refreshTokenType, s.cfg.GetRefreshTokenTTL(), s.cfg.GetJWTRefreshSecret())
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.KindInternal, "refresh token signing failed", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) signJWT(user repository.User, tokenType string, ttl time.Duration, secret string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"type":     tokenType,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (s *Service) parseRefreshClaims(rawToken string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.GetJWTRefreshSecret()), nil
	})
	if err != nil || !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if tokenType, _ := claims["type"].(string); tokenType != refreshTokenType {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
