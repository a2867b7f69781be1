package session_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/metrohr/leavehub/internal/utils"
	"github.com/metrohr/leavehub/session"
	"github.com/metrohr/leavehub/users"
)

// fakeAuthAPI scripts the backend responses and counts the calls made.
type fakeAuthAPI struct {
	lock sync.Mutex

	loginResp session.LoginResponse
	loginErr  error

	refreshAccess string
	refreshErr    error
	refreshCalls  int32

	logoutErr   error
	logoutCalls int32
}

func (f *fakeAuthAPI) Login(_ context.Context, _, _ string) (session.LoginResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.loginResp, f.loginErr
}

func (f *fakeAuthAPI) Refresh(_ context.Context, _ string) (string, error) {
	atomic.AddInt32(&f.refreshCalls, 1)
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.refreshAccess, f.refreshErr
}

func (f *fakeAuthAPI) Logout(_ context.Context, _ string) error {
	atomic.AddInt32(&f.logoutCalls, 1)
	return f.logoutErr
}

func sessionUser() *users.User {
	return &users.User{
		ID:        1,
		Email:     "ana.lopez@example.com",
		FirstName: "Ana",
		LastName:  "López",
		Role:      users.RoleAreaAdmin,
		AreaID:    utils.Ptr(int64(7)),
		Active:    true,
	}
}

func newTestManager(t *testing.T, api *fakeAuthAPI) (*session.Manager, *session.FileStore) {
	t.Helper()
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	return session.NewManager(store, api), store
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := session.NewFileStore(path)

	// Missing file reads as empty.
	snap, err := store.Read()
	require.NoError(t, err)
	require.True(t, snap.Empty())

	require.NoError(t, store.Write(session.Snapshot{
		AccessToken:  "acc-1",
		RefreshToken: "ref-1",
		User:         sessionUser(),
	}))

	snap, err = store.Read()
	require.NoError(t, err)
	require.Equal(t, "acc-1", snap.AccessToken)
	require.Equal(t, "ref-1", snap.RefreshToken)
	require.NotNil(t, snap.User)

	require.NoError(t, store.SetAccessToken("acc-2"))
	snap, err = store.Read()
	require.NoError(t, err)
	require.Equal(t, "acc-2", snap.AccessToken)
	require.Equal(t, "ref-1", snap.RefreshToken)

	require.NoError(t, store.Clear())
	snap, err = store.Read()
	require.NoError(t, err)
	require.True(t, snap.Empty())

	// Clearing twice stays quiet.
	require.NoError(t, store.Clear())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	snap, err := session.NewFileStore(path).Read()
	require.NoError(t, err)
	require.True(t, snap.Empty())
}

func TestRestore(t *testing.T) {
	api := &fakeAuthAPI{}
	manager, store := newTestManager(t, api)

	state, _ := manager.Current()
	require.Equal(t, session.StateLoading, state)

	require.NoError(t, manager.Restore())
	state, user := manager.Current()
	require.Equal(t, session.StateAnonymous, state)
	require.Nil(t, user)

	require.NoError(t, store.Write(session.Snapshot{
		AccessToken:  "acc-1",
		RefreshToken: "ref-1",
		User:         sessionUser(),
	}))
	require.NoError(t, manager.Restore())
	state, user = manager.Current()
	require.Equal(t, session.StateAuthenticated, state)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "acc-1", manager.AccessToken())
}

func TestRestoreUnreadableStore(t *testing.T) {
	// A store path that cannot be read (here, a directory) degrades to
	// anonymous instead of leaving the app stuck in the loading state.
	store := session.NewFileStore(t.TempDir())
	manager := session.NewManager(store, &fakeAuthAPI{})

	require.NoError(t, manager.Restore())
	state, user := manager.Current()
	require.Equal(t, session.StateAnonymous, state)
	require.Nil(t, user)
}

func TestRestoreIgnoresPartialSnapshot(t *testing.T) {
	api := &fakeAuthAPI{}
	manager, store := newTestManager(t, api)

	// An access token without a refresh token cannot be recovered.
	require.NoError(t, store.Write(session.Snapshot{AccessToken: "acc-1"}))
	require.NoError(t, manager.Restore())

	state, user := manager.Current()
	require.Equal(t, session.StateAnonymous, state)
	require.Nil(t, user)
}

func TestLoginPersistsSession(t *testing.T) {
	api := &fakeAuthAPI{loginResp: session.LoginResponse{
		User:   sessionUser(),
		Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"},
	}}
	manager, store := newTestManager(t, api)

	user, err := manager.Login(context.Background(), "ana.lopez@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	state, _ := manager.Current()
	require.Equal(t, session.StateAuthenticated, state)

	snap, err := store.Read()
	require.NoError(t, err)
	require.Equal(t, "acc-1", snap.AccessToken)
	require.Equal(t, "ref-1", snap.RefreshToken)
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	api := &fakeAuthAPI{loginErr: errors.New("invalid credentials")}
	manager, store := newTestManager(t, api)
	require.NoError(t, manager.Restore())

	_, err := manager.Login(context.Background(), "ana.lopez@example.com", "wrong")
	require.Error(t, err)

	state, _ := manager.Current()
	require.Equal(t, session.StateAnonymous, state)

	snap, err := store.Read()
	require.NoError(t, err)
	require.True(t, snap.Empty())
}

func TestLogout(t *testing.T) {
	api := &fakeAuthAPI{loginResp: session.LoginResponse{
		User:   sessionUser(),
		Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"},
	}}
	manager, store := newTestManager(t, api)

	_, err := manager.Login(context.Background(), "ana.lopez@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, manager.Logout(context.Background()))
	state, user := manager.Current()
	require.Equal(t, session.StateAnonymous, state)
	require.Nil(t, user)
	require.Equal(t, int32(1), atomic.LoadInt32(&api.logoutCalls))

	snap, err := store.Read()
	require.NoError(t, err)
	require.True(t, snap.Empty())

	// Logging out while anonymous does not call the backend again.
	require.NoError(t, manager.Logout(context.Background()))
	require.Equal(t, int32(1), atomic.LoadInt32(&api.logoutCalls))
}

func TestLogoutClearsDespiteBackendError(t *testing.T) {
	api := &fakeAuthAPI{
		loginResp: session.LoginResponse{User: sessionUser(), Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"}},
		logoutErr: errors.New("backend down"),
	}
	manager, _ := newTestManager(t, api)

	_, err := manager.Login(context.Background(), "ana.lopez@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, manager.Logout(context.Background()))
	state, _ := manager.Current()
	require.Equal(t, session.StateAnonymous, state)
}

func TestAuthorizeRequest(t *testing.T) {
	api := &fakeAuthAPI{loginResp: session.LoginResponse{
		User:   sessionUser(),
		Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"},
	}}
	manager, _ := newTestManager(t, api)
	require.NoError(t, manager.Restore())

	// Anonymous requests proceed without credentials; the server rejects
	// them.
	req, err := http.NewRequest(http.MethodGet, "http://example.com/api/empleados/", nil)
	require.NoError(t, err)
	require.NoError(t, manager.AuthorizeRequest(req))
	require.Empty(t, req.Header.Get("Authorization"))

	_, err = manager.Login(context.Background(), "ana.lopez@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, manager.AuthorizeRequest(req))
	require.Equal(t, "Bearer acc-1", req.Header.Get("Authorization"))
}

func TestHandleUnauthorized(t *testing.T) {
	api := &fakeAuthAPI{
		loginResp:     session.LoginResponse{User: sessionUser(), Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"}},
		refreshAccess: "acc-2",
	}
	manager, store := newTestManager(t, api)

	_, err := manager.Login(context.Background(), "ana.lopez@example.com", "secret")
	require.NoError(t, err)

	access, err := manager.HandleUnauthorized(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Equal(t, "acc-2", access)
	require.Equal(t, int32(1), atomic.LoadInt32(&api.refreshCalls))

	// The refreshed token is persisted.
	snap, err := store.Read()
	require.NoError(t, err)
	require.Equal(t, "acc-2", snap.AccessToken)

	// A caller still holding the old token gets the new one without a
	// second network call.
	access, err = manager.HandleUnauthorized(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Equal(t, "acc-2", access)
	require.Equal(t, int32(1), atomic.LoadInt32(&api.refreshCalls))
}

func TestHandleUnauthorizedConcurrent(t *testing.T) {
	api := &fakeAuthAPI{
		loginResp:     session.LoginResponse{User: sessionUser(), Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"}},
		refreshAccess: "acc-2",
	}
	manager, _ := newTestManager(t, api)

	_, err := manager.Login(context.Background(), "ana.lopez@example.com", "secret")
	require.NoError(t, err)

	const callers = 8
	results := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			access, err := manager.HandleUnauthorized(context.Background(), "acc-1")
			require.NoError(t, err)
			results <- access
		}()
	}
	wg.Wait()
	close(results)

	for access := range results {
		require.Equal(t, "acc-2", access)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&api.refreshCalls))
}

func TestHandleUnauthorizedRefreshFailure(t *testing.T) {
	api := &fakeAuthAPI{
		loginResp:  session.LoginResponse{User: sessionUser(), Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"}},
		refreshErr: errors.New("refresh token not found"),
	}
	manager, store := newTestManager(t, api)

	_, err := manager.Login(context.Background(), "ana.lopez@example.com", "secret")
	require.NoError(t, err)

	_, err = manager.HandleUnauthorized(context.Background(), "acc-1")
	require.Error(t, err)

	state, user := manager.Current()
	require.Equal(t, session.StateAnonymous, state)
	require.Nil(t, user)

	snap, err := store.Read()
	require.NoError(t, err)
	require.True(t, snap.Empty())
}

func TestHandleUnauthorizedWithoutSession(t *testing.T) {
	manager, _ := newTestManager(t, &fakeAuthAPI{})
	require.NoError(t, manager.Restore())

	_, err := manager.HandleUnauthorized(context.Background(), "acc-1")
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}
