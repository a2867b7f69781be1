package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/metrohr/leavehub/auth"
	"github.com/metrohr/leavehub/token"
	faketokenrepo "github.com/metrohr/leavehub/token/repofake"
	"github.com/metrohr/leavehub/users"
	fakeuserrepo "github.com/metrohr/leavehub/users/repofake"
)

const (
	testEmail    = "ana.lopez@example.com"
	testPassword = "Sup3r-secret"
	testSecret   = "test-secret-0123456789"
)

type testFixture struct {
	service  *auth.Service
	userRepo *fakeuserrepo.FakeUserRepo
	tokens   *token.Manager
	user     *users.User
	now      time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	userRepo := fakeuserrepo.NewFakeUserRepo()
	tokens := token.New([]byte(testSecret), faketokenrepo.NewFakeRefreshTokenRepo())

	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)

	user, err := userRepo.Create(context.Background(), &users.User{
		Email:        testEmail,
		FirstName:    "Ana",
		LastName:     "López",
		Role:         users.RoleSuperAdmin,
		PasswordHash: hash,
		Active:       true,
	})
	require.NoError(t, err)

	now := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	service, err := auth.NewService(userRepo, tokens,
		auth.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	return &testFixture{
		service:  service,
		userRepo: userRepo,
		tokens:   tokens,
		user:     user,
		now:      now,
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	tokens := token.New([]byte(testSecret), faketokenrepo.NewFakeRefreshTokenRepo())

	_, err := auth.NewService(nil, tokens)
	require.Error(t, err)

	_, err = auth.NewService(fakeuserrepo.NewFakeUserRepo(), nil)
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	fixture := setupTestFixture(t)
	ctx := context.Background()

	result, err := fixture.service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, result.Tokens.Access)
	require.NotEmpty(t, result.Tokens.Refresh)
	require.Equal(t, fixture.user.ID, result.User.ID)

	stored, err := fixture.userRepo.GetByID(ctx, fixture.user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastAccess)
	require.Equal(t, fixture.now, *stored.LastAccess)

	claims, err := fixture.tokens.Introspect(result.Tokens.Access)
	require.NoError(t, err)
	require.Equal(t, testEmail, claims.Email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	fixture := setupTestFixture(t)
	ctx := context.Background()

	_, err := fixture.service.Login(ctx, testEmail, "wrong-password")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = fixture.service.Login(ctx, "nobody@example.com", testPassword)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	fixture := setupTestFixture(t)
	ctx := context.Background()

	require.NoError(t, fixture.userRepo.SetActive(ctx, fixture.user.ID, false))

	_, err := fixture.service.Login(ctx, testEmail, testPassword)
	require.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestRefresh(t *testing.T) {
	fixture := setupTestFixture(t)
	ctx := context.Background()

	result, err := fixture.service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	access, err := fixture.service.Refresh(ctx, result.Tokens.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	_, err = fixture.service.Refresh(ctx, "bogus-refresh-token")
	require.ErrorIs(t, err, token.ErrRefreshNotFound)

	// A disabled account cannot refresh even with a live token.
	require.NoError(t, fixture.userRepo.SetActive(ctx, fixture.user.ID, false))
	_, err = fixture.service.Refresh(ctx, result.Tokens.Refresh)
	require.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestLogout(t *testing.T) {
	fixture := setupTestFixture(t)
	ctx := context.Background()

	result, err := fixture.service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(ctx, result.Tokens.Refresh))

	_, err = fixture.service.Refresh(ctx, result.Tokens.Refresh)
	require.ErrorIs(t, err, token.ErrRefreshNotFound)

	// Logging out twice stays quiet.
	require.NoError(t, fixture.service.Logout(ctx, result.Tokens.Refresh))
}

func TestAuthenticate(t *testing.T) {
	fixture := setupTestFixture(t)
	ctx := context.Background()

	result, err := fixture.service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	user, err := fixture.service.Authenticate(ctx, result.Tokens.Access)
	require.NoError(t, err)
	require.Equal(t, fixture.user.ID, user.ID)

	_, err = fixture.service.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, token.ErrInvalidToken)

	require.NoError(t, fixture.userRepo.SetActive(ctx, fixture.user.ID, false))
	_, err = fixture.service.Authenticate(ctx, result.Tokens.Access)
	require.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestChangePassword(t *testing.T) {
	fixture := setupTestFixture(t)
	ctx := context.Background()

	err := fixture.service.ChangePassword(ctx, fixture.user.ID, "wrong", "N3w-password")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	err = fixture.service.ChangePassword(ctx, fixture.user.ID, testPassword, "short")
	require.Error(t, err)

	err = fixture.service.ChangePassword(ctx, fixture.user.ID, testPassword, "N3w-password")
	require.NoError(t, err)

	_, err = fixture.service.Login(ctx, testEmail, testPassword)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	result, err := fixture.service.Login(ctx, testEmail, "N3w-password")
	require.NoError(t, err)
	require.NotEmpty(t, result.Tokens.Access)
}
