package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const sessionExt = ".json"

// FileStore keeps one JSON file per session in a directory. It lets a
// single server keep its pools across restarts without Redis.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore opens dir as a session store, creating it if needed. An
// empty dir means <user config dir>/poolkit/sessions.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir: %w", err)
		}
		dir = filepath.Join(base, "poolkit", "sessions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the session directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) file(id string) string { return filepath.Join(s.dir, id+sessionExt) }

// readSession loads the session stored at path. A missing file yields
// (nil, nil).
func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	sess := new(Session)
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", filepath.Base(path), err)
	}
	return sess, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := readSession(s.file(id))
	if err != nil || sess == nil || sess.IsExpired() {
		return nil, err
	}
	return sess, nil
}

// Set writes sess to a temporary file and renames it into place, so readers
// never see a partial document.
func (s *FileStore) Set(_ context.Context, sess *Session) error {
	data, err := s.encode(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(sess.ID, data)
}

func (s *FileStore) Replace(_ context.Context, sess *Session, prev uint64) error {
	data, err := s.encode(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := readSession(s.file(sess.ID))
	if err != nil {
		return err
	}
	if cur == nil || cur.IsExpired() {
		return ErrNotFound
	}
	if cur.Version != prev {
		return ErrConflict
	}
	return s.writeLocked(sess.ID, data)
}

func (s *FileStore) encode(sess *Session) ([]byte, error) {
	if !ValidID(sess.ID) {
		return nil, fmt.Errorf("invalid session id %q", sess.ID)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func (s *FileStore) writeLocked(id string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.file(id)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.file(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup removes expired and unreadable session files.
func (s *FileStore) Cleanup(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	now := time.Now()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sessionExt) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if sess, err := readSession(path); err != nil || (sess != nil && now.After(sess.ExpiresAt)) {
			os.Remove(path)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
