// Package sessionstore persists QRZ session keys between process runs so a
// short-lived CLI invocation does not log in every time.
package sessionstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/usestring/qrz-mcp/pkg/client"
)

// DefaultMaxAge is how long a saved session is trusted. QRZ keys live about
// 24 hours.
const DefaultMaxAge = 23 * time.Hour

// Store reads and writes one JSON file per account under Dir.
type Store struct {
	Dir    string
	MaxAge time.Duration
	now    func() time.Time
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir, MaxAge: DefaultMaxAge, now: time.Now}
}

type record struct {
	Username string             `json:"username"`
	Session  client.SessionInfo `json:"session"`
	SavedAt  time.Time          `json:"saved_at"`
}

// Load returns the saved session of username. ok is false when nothing is
// saved or the saved session is older than MaxAge.
func (s *Store) Load(username string) (info client.SessionInfo, ok bool, err error) {
	path, err := s.path(username)
	if err != nil {
		return client.SessionInfo{}, false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return client.SessionInfo{}, false, nil
	}
	if err != nil {
		return client.SessionInfo{}, false, fmt.Errorf("reading session file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return client.SessionInfo{}, false, fmt.Errorf("decoding session file: %w", err)
	}
	if !strings.EqualFold(rec.Username, username) || rec.Session.Key == "" {
		return client.SessionInfo{}, false, nil
	}
	obtained := rec.Session.ObtainedAt
	if obtained.IsZero() {
		obtained = rec.SavedAt
	}
	if s.MaxAge > 0 && s.now().Sub(obtained) > s.MaxAge {
		return client.SessionInfo{}, false, nil
	}
	return rec.Session, true, nil
}

// Save writes info for username with owner-only permissions.
func (s *Store) Save(username string, info client.SessionInfo) error {
	path, err := s.path(username)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(record{Username: username, Session: info, SavedAt: s.now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".session-*")
	if err != nil {
		return fmt.Errorf("creating session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting session file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

// Delete removes the saved session of username, if any.
func (s *Store) Delete(username string) error {
	path, err := s.path(username)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

func (s *Store) path(username string) (string, error) {
	if s.Dir == "" {
		return "", errors.New("session cache directory is not configured")
	}
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '_'
	}, strings.TrimSpace(username))
	if name == "" {
		return "", errors.New("username must not be empty")
	}
	return filepath.Join(s.Dir, name+".json"), nil
}
