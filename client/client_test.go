package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/metrohr/leavehub/areas"
	fakearearepo "github.com/metrohr/leavehub/areas/repofake"
	fakecatalogrepo "github.com/metrohr/leavehub/catalogs/repofake"
	"github.com/metrohr/leavehub/client"
	"github.com/metrohr/leavehub/employees"
	fakeemployeerepo "github.com/metrohr/leavehub/employees/repofake"
	fakerequestrepo "github.com/metrohr/leavehub/requests/repofake"
	"github.com/metrohr/leavehub/server"
	"github.com/metrohr/leavehub/session"
	"github.com/metrohr/leavehub/token"
	faketokenrepo "github.com/metrohr/leavehub/token/repofake"
	"github.com/metrohr/leavehub/users"
	fakeuserrepo "github.com/metrohr/leavehub/users/repofake"
)

const (
	testEmail    = "super@metro.mx"
	testPassword = "Sup3r-secret"
)

// startBackend runs the real API server over fakes and returns its base URL.
func startBackend(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	userRepo := fakeuserrepo.NewFakeUserRepo()
	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)
	_, err = userRepo.Create(ctx, &users.User{
		Email: testEmail, FirstName: "Root", LastName: "Admin",
		Role: users.RoleSuperAdmin, PasswordHash: hash, Active: true,
	})
	require.NoError(t, err)

	areaRepo := fakearearepo.NewFakeAreaRepo()
	_, err = areaRepo.Create(ctx, &areas.Area{Name: "Taquillas", Code: "TAQ", Active: true})
	require.NoError(t, err)

	employeeRepo := fakeemployeerepo.NewFakeEmployeeRepo()
	_, err = employeeRepo.Create(ctx, &employees.Employee{
		AreaID:     1,
		FileNumber: "100200",
		FirstName:  "Jorge",
		LastName:   "Ramírez",
		HireDate:   time.Date(2015, time.March, 10, 0, 0, 0, 0, time.UTC),
		Active:     true,
	})
	require.NoError(t, err)

	tokenRepo := faketokenrepo.NewFakeRefreshTokenRepo()
	srv, err := server.New(server.Repos{
		Users:     userRepo,
		Areas:     areaRepo,
		Employees: employeeRepo,
		Catalogs:  fakecatalogrepo.NewFakeCatalogRepo(),
		Requests:  fakerequestrepo.NewFakeRequestRepo(),
		Balances:  fakerequestrepo.NewFakeBalanceRepo(),
		Tokens:    tokenRepo,
	}, token.New([]byte("test-secret-0123456789"), tokenRepo))
	require.NoError(t, err)

	backend := httptest.NewServer(srv)
	t.Cleanup(backend.Close)
	return backend.URL + "/api"
}

// newSessionClient wires the full client stack the TUI uses: file store,
// auth client, session manager and the refreshing transport.
func newSessionClient(t *testing.T, baseURL string) (*client.Client, *session.Manager, *session.FileStore) {
	t.Helper()
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	manager := session.NewManager(store, client.NewAuthClient(baseURL))
	api := client.New(baseURL, &http.Client{Transport: session.NewTransport(manager, nil)})
	return api, manager, store
}

func TestAPIErrorDecoding(t *testing.T) {
	baseURL := startBackend(t)
	api := client.New(baseURL, nil)

	_, err := api.Profile(context.Background())
	require.Error(t, err)
	require.True(t, client.IsStatus(err, http.StatusUnauthorized))
	require.Contains(t, err.Error(), "authentication credentials were not provided")
}

func TestAuthenticatedFlow(t *testing.T) {
	baseURL := startBackend(t)
	api, manager, _ := newSessionClient(t, baseURL)
	ctx := context.Background()

	user, err := manager.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)

	profile, err := api.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, testEmail, profile.Email)

	list, err := api.ListAreas(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	emps, err := api.ListEmployees(ctx, nil, "ram")
	require.NoError(t, err)
	require.Len(t, emps, 1)

	resume, err := api.CalculateResumeDate(ctx, "2025-06-02", 5)
	require.NoError(t, err)
	require.Equal(t, "2025-06-09", resume)

	stats, err := api.GetDashboardStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalEmployees)
}

func TestTransportRefreshesStaleToken(t *testing.T) {
	baseURL := startBackend(t)
	api, manager, store := newSessionClient(t, baseURL)
	ctx := context.Background()

	_, err := manager.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	// Simulate a restart with an access token the server no longer accepts:
	// the stored refresh token is still valid, so the first 401 triggers a
	// silent refresh and the request succeeds.
	snap, err := store.Read()
	require.NoError(t, err)
	snap.AccessToken = "stale-access-token"
	require.NoError(t, store.Write(snap))
	require.NoError(t, manager.Restore())

	profile, err := api.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, testEmail, profile.Email)
	require.NotEqual(t, "stale-access-token", manager.AccessToken())

	// The refreshed token was written back for the next run.
	snap, err = store.Read()
	require.NoError(t, err)
	require.Equal(t, manager.AccessToken(), snap.AccessToken)
}

func TestRefreshFailureLogsOut(t *testing.T) {
	baseURL := startBackend(t)
	api, manager, store := newSessionClient(t, baseURL)
	ctx := context.Background()

	_, err := manager.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	// A session whose refresh token the server has discarded cannot be
	// recovered; the transport surfaces the 401 and the session is cleared.
	snap, err := store.Read()
	require.NoError(t, err)
	snap.AccessToken = "stale-access-token"
	snap.RefreshToken = "revoked-refresh-token"
	require.NoError(t, store.Write(snap))
	require.NoError(t, manager.Restore())

	_, err = api.Profile(ctx)
	require.Error(t, err)
	require.True(t, client.IsStatus(err, http.StatusUnauthorized))

	state, _ := manager.Current()
	require.Equal(t, session.StateAnonymous, state)
}
