package session_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/metrohr/leavehub/session"
)

func loggedInManager(t *testing.T, api *fakeAuthAPI) *session.Manager {
	t.Helper()
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	manager := session.NewManager(store, api)
	_, err := manager.Login(context.Background(), "ana.lopez@example.com", "secret")
	require.NoError(t, err)
	return manager
}

func TestTransportAttachesToken(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	api := &fakeAuthAPI{loginResp: session.LoginResponse{
		User:   sessionUser(),
		Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"},
	}}
	manager := loggedInManager(t, api)
	client := &http.Client{Transport: session.NewTransport(manager, nil)}

	resp, err := client.Get(backend.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Bearer acc-1", gotAuth)
}

func TestTransportRefreshesAndRetriesOnce(t *testing.T) {
	var hits int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if atomic.AddInt32(&hits, 1) == 1 {
			require.Equal(t, "Bearer acc-1", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"token expired"}`))
			return
		}
		require.Equal(t, "Bearer acc-2", r.Header.Get("Authorization"))
		// The retried request carries the body again.
		require.Equal(t, `{"name":"Taller"}`, string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer backend.Close()

	api := &fakeAuthAPI{
		loginResp:     session.LoginResponse{User: sessionUser(), Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"}},
		refreshAccess: "acc-2",
	}
	manager := loggedInManager(t, api)
	client := &http.Client{Transport: session.NewTransport(manager, nil)}

	resp, err := client.Post(backend.URL, "application/json", strings.NewReader(`{"name":"Taller"}`))
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, int32(2), atomic.LoadInt32(&hits))
	require.Equal(t, int32(1), atomic.LoadInt32(&api.refreshCalls))
	require.Equal(t, "acc-2", manager.AccessToken())
}

func TestTransportReturnsOriginal401WhenRefreshFails(t *testing.T) {
	var hits int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	}))
	defer backend.Close()

	api := &fakeAuthAPI{
		loginResp:  session.LoginResponse{User: sessionUser(), Tokens: session.TokenPair{Access: "acc-1", Refresh: "ref-1"}},
		refreshErr: errors.New("refresh token not found"),
	}
	manager := loggedInManager(t, api)
	client := &http.Client{Transport: session.NewTransport(manager, nil)}

	resp, err := client.Get(backend.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// The caller can still read the original body.
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, `{"detail":"token expired"}`, string(body))

	// The failed refresh cleared the session.
	state, _ := manager.Current()
	require.Equal(t, session.StateAnonymous, state)
}

func TestTransportDoesNotRetryWithoutToken(t *testing.T) {
	var hits int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	api := &fakeAuthAPI{refreshAccess: "acc-2"}
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	manager := session.NewManager(store, api)
	require.NoError(t, manager.Restore())

	client := &http.Client{Transport: session.NewTransport(manager, nil)}
	resp, err := client.Get(backend.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))
	require.Equal(t, int32(0), atomic.LoadInt32(&api.refreshCalls))
}
