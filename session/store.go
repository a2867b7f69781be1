// Package session manages the client-side authenticated session: the
// access/refresh token pair, its durable storage, and the refresh-and-retry
// policy applied when the API rejects an access token.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/users"
)

// Snapshot is the durable form of a session. A zero Snapshot means no
// session is stored.
type Snapshot struct {
	AccessToken  string      `json:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         *users.User `json:"user,omitempty"`
}

// Empty reports whether the snapshot holds no usable session.
func (s Snapshot) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.User == nil
}

// Store persists session snapshots between runs.
type Store interface {
	Read() (Snapshot, error)
	Write(s Snapshot) error
	SetAccessToken(token string) error
	Clear() error
}

var _ Store = (*FileStore)(nil)

// FileStore keeps the session in a single JSON file. A missing or corrupt
// file reads as an empty snapshot so a damaged session degrades to
// anonymous instead of blocking startup.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Read() (Snapshot, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, errors.Wrap(err, "[Read] ReadFile")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt session file, treat as logged out.
		return Snapshot{}, nil
	}
	return snap, nil
}

func (fs *FileStore) Write(s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[Write] Marshal")
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "[Write] MkdirAll")
	}
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[Write] WriteFile")
	}
	return nil
}

func (fs *FileStore) SetAccessToken(token string) error {
	snap, err := fs.Read()
	if err != nil {
		return errors.Wrap(err, "[SetAccessToken] Read")
	}
	snap.AccessToken = token
	return fs.Write(snap)
}

func (fs *FileStore) Clear() error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[Clear] Remove")
	}
	return nil
}
