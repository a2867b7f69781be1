package session

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
)

var _ http.RoundTripper = (*Transport)(nil)

// Transport is an http.RoundTripper that attaches the session's access
// token to every request. When a response comes back 401 it refreshes the
// token once and retries the request once; if the refresh fails the
// original 401 is returned untouched.
type Transport struct {
	manager *Manager
	base    http.RoundTripper
}

func NewTransport(manager *Manager, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{manager: manager, base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.manager.AccessToken()
	authed := cloneWithToken(req, token)

	resp, err := t.base.RoundTrip(authed)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || token == "" {
		return resp, nil
	}

	fresh, refreshErr := t.manager.HandleUnauthorized(req.Context(), token)
	if refreshErr != nil {
		return resp, nil
	}

	retry, rewindErr := rewind(req)
	if rewindErr != nil {
		return resp, nil
	}

	// The retry replaces the original response, drain it so the
	// connection can be reused.
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	resp.Body.Close()              //nolint:errcheck

	return t.base.RoundTrip(cloneWithToken(retry, fresh))
}

func cloneWithToken(req *http.Request, token string) *http.Request {
	cloned := req.Clone(req.Context())
	if token != "" {
		cloned.Header.Set("Authorization", "Bearer "+token)
	}
	return cloned
}

// rewind rebuilds the request body for a retry. Requests with a
// non-replayable body cannot be retried.
func rewind(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("[rewind] request body is not replayable")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, errors.Wrap(err, "[rewind] GetBody")
	}
	retry := req.Clone(req.Context())
	retry.Body = body
	return retry, nil
}
