// Package session persists the login session between invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"taskboard/internal/service"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// Store reads and writes a session file.
type Store struct {
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file path.
func (s *Store) Path() string { return s.path }

// Exists reports whether a session file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the stored session. A missing file or a session without a token
// or user id yields ErrNoSession.
func (s *Store) Load() (service.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return service.Session{}, ErrNoSession
	}
	if err != nil {
		return service.Session{}, fmt.Errorf("read session: %w", err)
	}

	var sess service.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return service.Session{}, fmt.Errorf("invalid %s: %w", filepath.Base(s.path), err)
	}
	if !sess.Valid() {
		return service.Session{}, ErrNoSession
	}
	return sess, nil
}

// Save writes the session with mode 0600, creating the directory if needed.
func (s *Store) Save(sess service.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Remove deletes the session file. Removing a missing session is not an error.
func (s *Store) Remove() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
