package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/auth"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/jwt"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/oauth"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (r *fakeUserRepo) ListActiveByRole(_ context.Context, _ user.Role) ([]user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, _ user.UpdateUserRequest) error { return nil }

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]auth.RefreshToken
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token auth.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByHash(_ context.Context, tokenHash string) (auth.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok {
		return auth.RefreshToken{}, auth.ErrInvalidToken
	}
	return token, nil
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok || token.RevokedAt != nil {
		return auth.ErrInvalidToken
	}
	now := time.Now()
	token.RevokedAt = &now
	r.tokens[tokenHash] = token
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for hash, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
			r.tokens[hash] = token
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) (int64, error) { return 0, nil }

type fakeGoogleService struct {
	user        oauth.GoogleUser
	exchangeErr error
}

func (g *fakeGoogleService) GenerateState() string { return "state" }

func (g *fakeGoogleService) RedirectURL(state string) string {
	return "https://accounts.google.test/auth?state=" + state
}

func (g *fakeGoogleService) Exchange(_ context.Context, _ string) (*oauth2.Token, error) {
	if g.exchangeErr != nil {
		return nil, g.exchangeErr
	}
	return &oauth2.Token{AccessToken: "ya29.test"}, nil
}

func (g *fakeGoogleService) FetchUser(_ context.Context, _ *oauth2.Token) (oauth.GoogleUser, error) {
	return g.user, nil
}

const testPassword = "correct-horse-battery"

func newTestAuthService(t *testing.T) (auth.AuthService, *fakeRefreshTokenRepo, *fakeGoogleService) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	users := &fakeUserRepo{users: map[string]user.User{
		"u-1": {
			ID:           "u-1",
			Email:        "dewi@example.com",
			PasswordHash: &hashStr,
			FullName:     "Dewi Lestari",
			Role:         user.RoleJuniorStaff,
			IsActive:     true,
		},
		"u-2": {
			ID:           "u-2",
			Email:        "former@example.com",
			PasswordHash: &hashStr,
			FullName:     "Left Thecompany",
			Role:         user.RoleJuniorStaff,
			IsActive:     false,
		},
	}}
	refreshTokens := &fakeRefreshTokenRepo{tokens: make(map[string]auth.RefreshToken)}
	google := &fakeGoogleService{user: oauth.GoogleUser{
		GoogleID:      "g-1",
		Email:         "dewi@example.com",
		VerifiedEmail: true,
		Name:          "Dewi Lestari",
	}}
	jwtService := jwt.NewJWTService("test-secret", "15m", "168h")

	return NewAuthService(users, refreshTokens, jwtService, google), refreshTokens, google
}

func TestLogin(t *testing.T) {
	svc, tokens, _ := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "dewi@example.com", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, time.Now().Unix())

	// The refresh token is persisted hashed, never verbatim.
	_, stored := tokens.tokens[resp.RefreshToken]
	assert.False(t, stored)
	assert.Len(t, tokens.tokens, 1)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"wrong password", "dewi@example.com", "nope", auth.ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", testPassword, auth.ErrInvalidCredentials},
		{"inactive account", "former@example.com", testPassword, auth.ErrUserInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestAuthService(t)
			_, err := svc.Login(context.Background(), auth.LoginRequest{Email: tt.email, Password: tt.password})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "dewi@example.com", Password: testPassword})
	require.NoError(t, err)

	resp, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "dewi@example.com", Password: testPassword})
	require.NoError(t, err)

	// An access token is a valid JWT but the wrong type for this endpoint.
	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshTokenAfterLogout(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "dewi@example.com", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, auth.LogoutRequest{RefreshToken: login.RefreshToken}))

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshTokenExpiredRecord(t *testing.T) {
	svc, tokens, _ := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "dewi@example.com", Password: testPassword})
	require.NoError(t, err)

	// Age the stored record past its expiry without touching the JWT itself.
	tokens.mu.Lock()
	for hash, token := range tokens.tokens {
		token.ExpiresAt = time.Now().Add(-time.Hour)
		tokens.tokens[hash] = token
	}
	tokens.mu.Unlock()

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "dewi@example.com", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, auth.LogoutRequest{RefreshToken: login.RefreshToken}))
	require.NoError(t, svc.Logout(ctx, auth.LogoutRequest{RefreshToken: login.RefreshToken}))
	assert.NoError(t, svc.Logout(ctx, auth.LogoutRequest{RefreshToken: "never-issued"}))
}

func TestLoginWithGoogle(t *testing.T) {
	t.Run("existing verified account", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		resp, err := svc.LoginWithGoogle(context.Background(), "auth-code")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("unverified email", func(t *testing.T) {
		svc, _, google := newTestAuthService(t)
		google.user.VerifiedEmail = false
		_, err := svc.LoginWithGoogle(context.Background(), "auth-code")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("no matching account", func(t *testing.T) {
		svc, _, google := newTestAuthService(t)
		google.user.Email = "stranger@example.com"
		_, err := svc.LoginWithGoogle(context.Background(), "auth-code")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("exchange failure", func(t *testing.T) {
		svc, _, google := newTestAuthService(t)
		google.exchangeErr = errors.New("invalid_grant")
		_, err := svc.LoginWithGoogle(context.Background(), "auth-code")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
