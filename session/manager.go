package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/metrohr/leavehub/users"
)

// State is the lifecycle phase of the session.
type State string

const (
	// StateLoading means the stored session has not been restored yet.
	StateLoading State = "loading"
	// StateAnonymous means no valid session exists.
	StateAnonymous State = "anonymous"
	// StateAuthenticated means a user is logged in.
	StateAuthenticated State = "authenticated"
)

// ErrNotAuthenticated is returned when an operation needs a session and
// none exists.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the slice of the backend API the manager needs. It is
// implemented by a transport-free client so the manager never routes its
// own calls through the refreshing transport.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

// TokenPair is the access/refresh pair inside a login response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResponse is what the backend returns on a successful login.
type LoginResponse struct {
	User   *users.User `json:"user"`
	Tokens TokenPair   `json:"tokens"`
}

// Manager owns the current session. All methods are safe for concurrent
// use; a refresh triggered from several requests at once runs only once.
type Manager struct {
	store Store
	api   AuthAPI

	// refreshLock serializes token refreshes so concurrent 401s trigger
	// one network call.
	refreshLock sync.Mutex

	lock         sync.RWMutex
	state        State
	accessToken  string
	refreshToken string
	user         *users.User
}

func NewManager(store Store, api AuthAPI) *Manager {
	return &Manager{
		store: store,
		api:   api,
		state: StateLoading,
	}
}

// Restore loads the stored session, if any. Until it runs the manager
// reports StateLoading. An unreadable store degrades to anonymous the
// same way a corrupt one does, so startup never hangs in the loading
// state.
func (m *Manager) Restore() error {
	snap, err := m.store.Read()
	if err != nil {
		log.Warn().Err(err).Msg("session store unreadable, starting anonymous")
		snap = Snapshot{}
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if snap.Empty() || snap.RefreshToken == "" || snap.User == nil {
		m.state = StateAnonymous
		m.accessToken = ""
		m.refreshToken = ""
		m.user = nil
		return nil
	}

	m.state = StateAuthenticated
	m.accessToken = snap.AccessToken
	m.refreshToken = snap.RefreshToken
	m.user = snap.User
	return nil
}

// Login authenticates against the backend and persists the session.
func (m *Manager) Login(ctx context.Context, email, password string) (*users.User, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	snap := Snapshot{
		AccessToken:  resp.Tokens.Access,
		RefreshToken: resp.Tokens.Refresh,
		User:         resp.User,
	}
	if err := m.store.Write(snap); err != nil {
		return nil, errors.Wrap(err, "[Login] Write")
	}

	m.lock.Lock()
	m.state = StateAuthenticated
	m.accessToken = resp.Tokens.Access
	m.refreshToken = resp.Tokens.Refresh
	m.user = resp.User
	m.lock.Unlock()

	return resp.User, nil
}

// Logout clears the session locally and tells the backend to invalidate
// the refresh token. It is idempotent, and the local session is cleared
// even when the backend call fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.lock.Lock()
	refresh := m.refreshToken
	m.state = StateAnonymous
	m.accessToken = ""
	m.refreshToken = ""
	m.user = nil
	m.lock.Unlock()

	if err := m.store.Clear(); err != nil {
		return errors.Wrap(err, "[Logout] Clear")
	}

	if refresh != "" {
		if err := m.api.Logout(ctx, refresh); err != nil {
			log.Warn().Err(err).Msg("logout: backend token invalidation failed")
		}
	}
	return nil
}

// Current returns the session state and, when authenticated, the user.
func (m *Manager) Current() (State, *users.User) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.state, m.user
}

// AccessToken returns the current access token, empty when anonymous.
func (m *Manager) AccessToken() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.accessToken
}

// AuthorizeRequest attaches the session's credentials to an outgoing
// request. Without a session the request is left untouched and proceeds
// unauthenticated; the server rejects it.
func (m *Manager) AuthorizeRequest(req *http.Request) error {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.state == StateAuthenticated && m.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+m.accessToken)
	}
	return nil
}

// HandleUnauthorized reacts to a rejected access token. The stale token is
// compared against the current one so concurrent callers trigger a single
// refresh: whoever arrives after the token already changed just picks up
// the new one. On refresh failure the session is cleared.
func (m *Manager) HandleUnauthorized(ctx context.Context, staleToken string) (string, error) {
	m.refreshLock.Lock()
	defer m.refreshLock.Unlock()

	m.lock.RLock()
	state, current, refresh := m.state, m.accessToken, m.refreshToken
	m.lock.RUnlock()

	if state != StateAuthenticated || refresh == "" {
		return "", ErrNotAuthenticated
	}
	if current != "" && current != staleToken {
		// Another caller already refreshed.
		return current, nil
	}

	access, err := m.api.Refresh(ctx, refresh)
	if err != nil {
		log.Debug().Err(err).Msg("session refresh failed, clearing session")
		if clearErr := m.Logout(ctx); clearErr != nil {
			log.Warn().Err(clearErr).Msg("failed to clear session after refresh failure")
		}
		return "", errors.Wrap(err, "[HandleUnauthorized] Refresh")
	}

	m.lock.Lock()
	m.accessToken = access
	m.lock.Unlock()

	if err := m.store.SetAccessToken(access); err != nil {
		return "", errors.Wrap(err, "[HandleUnauthorized] SetAccessToken")
	}
	return access, nil
}
