package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Entries are stored in
// encoded form, so callers never share a document with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	expires  map[string]time.Time
	versions map[string]uint64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string][]byte),
		expires:  make(map[string]time.Time),
		versions: make(map[string]uint64),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	data, ok := s.entries[id]
	exp := s.expires[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(exp) {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &sess, nil
}

func (s *MemoryStore) Set(_ context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(sess, data)
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, sess *Session, prev uint64) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[sess.ID]; !ok || time.Now().After(s.expires[sess.ID]) {
		return ErrNotFound
	}
	if s.versions[sess.ID] != prev {
		return ErrConflict
	}
	s.putLocked(sess, data)
	return nil
}

func (s *MemoryStore) putLocked(sess *Session, data []byte) {
	s.entries[sess.ID] = data
	s.expires[sess.ID] = sess.ExpiresAt
	s.versions[sess.ID] = sess.Version
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	delete(s.expires, id)
	delete(s.versions, id)
	return nil
}

func (s *MemoryStore) Cleanup(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, exp := range s.expires {
		if now.After(exp) {
			delete(s.entries, id)
			delete(s.expires, id)
			delete(s.versions, id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
