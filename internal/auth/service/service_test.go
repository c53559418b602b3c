package service

import (
	"context"
	"testing"
	"time"

	"crm_portal_backend/internal/auth/password"
	"crm_portal_backend/internal/auth/repository"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeUserStore struct {
	byUsername map[string]repository.User
	byID       map[uuid.UUID]repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byUsername: make(map[string]repository.User),
		byID:       make(map[uuid.UUID]repository.User),
	}
}

func (f *fakeUserStore) CreateUser(_ context.Context, params repository.CreateUserParams) (repository.User, error) {
	if _, exists := f.byUsername[params.Username]; exists {
		return repository.User{}, apperr.Conflict("username or email already taken")
	}
	u := repository.User{
		ID: uuid.New(), Username: params.Username, FullName: params.FullName,
		Email: params.Email, Phone: params.Phone, PasswordHash: params.PasswordHash, Role: params.Role,
	}
	f.byUsername[u.Username] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (repository.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUserStore) ListByRole(_ context.Context, role string) ([]repository.User, error) {
	var items []repository.User
	for _, u := range f.byID {
		if role == "" || u.Role == role {
			items = append(items, u)
		}
	}
	return items, nil
}

func (f *fakeUserStore) SetOnline(_ context.Context, id uuid.UUID, online bool) error {
	u, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.IsOnline = online
	f.byID[id] = u
	f.byUsername[u.Username] = u
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.PasswordHash = hash
	f.byID[id] = u
	f.byUsername[u.Username] = u
	return nil
}

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string        { return "access-secret" }
func (testAuthConfig) GetJWTRefreshSecret() string       { return "refresh-secret" }
func (testAuthConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testAuthConfig) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }

func newTestAuth() (*Service, *fakeUserStore) {
	store := newFakeUserStore()
	return New(store, testAuthConfig{}, logger.New("development")), store
}

func seedUser(t *testing.T, store *fakeUserStore, username, plain, role string) repository.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := store.CreateUser(context.Background(), repository.CreateUserParams{
		Username: username, FullName: username, Email: username + "@example.com",
		PasswordHash: hash, Role: role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestLoginIssuesAccessToken(t *testing.T) {
	svc, store := newTestAuth()
	seedUser(t, store, "alice", "correct horse", "Executive")
	ctx := context.Background()

	user, pair, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID.String() || claims["username"] != "alice" ||
		claims["role"] != "Executive" || claims["type"] != "access" {
		t.Errorf("claims = %v, want sub/username/role/type for alice", claims)
	}

	if got := store.byUsername["alice"]; !got.IsOnline {
		t.Error("login did not set the presence flag")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, store := newTestAuth()
	seedUser(t, store, "alice", "correct horse", "Executive")
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "alice", "wrong"); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("bad password: kind = %v, want Unauthorized", apperr.GetKind(err))
	}
	if _, _, err := svc.Login(ctx, "nobody", "whatever"); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("unknown user: kind = %v, want Unauthorized", apperr.GetKind(err))
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, store := newTestAuth()
	seedUser(t, store, "alice", "correct horse", "Executive")
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.AccessToken == "" {
		t.Error("rotation returned empty access token")
	}

	// An access token must not pass as a refresh token.
	if _, err := svc.Refresh(ctx, pair.AccessToken); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("access-as-refresh: kind = %v, want Unauthorized", apperr.GetKind(err))
	}
	if _, err := svc.Refresh(ctx, "garbage"); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("garbage refresh: kind = %v, want Unauthorized", apperr.GetKind(err))
	}
}

func TestCreateUserValidatesRole(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserParams{
		Username: "bob", FullName: "Bob", Email: "bob@example.com",
		Password: "longenoughpass", Role: "Superuser",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("unknown role: kind = %v, want Validation", apperr.GetKind(err))
	}

	u, err := svc.CreateUser(ctx, CreateUserParams{
		Username: "bob", FullName: "Bob", Email: "bob@example.com",
		Password: "longenoughpass", Role: "Process",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.PasswordHash == "longenoughpass" {
		t.Error("password stored in plaintext")
	}
}

func TestChangePassword(t *testing.T) {
	svc, store := newTestAuth()
	u := seedUser(t, store, "alice", "correct horse", "Executive")
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, u.ID, "wrong", "new-password-1"); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Errorf("wrong current password: kind = %v, want Unauthorized", apperr.GetKind(err))
	}
	if err := svc.ChangePassword(ctx, u.ID, "correct horse", "new-password-1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice", "new-password-1"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}
