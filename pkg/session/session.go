// Package session stores editable pools for the HTTP API.
//
// A session holds the document of one pool under a random id, so that a
// client can create a pool once, then edit its lanes and query its geometry
// across many requests. Backends:
//   - memory: in-process storage for a single server and for tests
//   - redis: shared storage for multi-instance deployments
//   - file: JSON files for local use
//
// Sessions expire after their TTL. Every successful [Update] bumps the
// version. Update writes through [Store.Replace], which only succeeds while
// the stored version is still the one the edit was based on, so two edits
// of the same version never both land.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(doc, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/poolkit/pkg/diagram"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")

	// ErrConflict is returned when an update was based on a stale version.
	ErrConflict = errors.New("session was modified concurrently")
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 24 * time.Hour

// Session is one stored pool.
type Session struct {
	ID        string            `json:"id"`
	Document  *diagram.Document `json:"document"`
	Version   uint64            `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TTL returns the remaining lifetime, never less than one second.
func (s *Session) TTL() time.Duration {
	return max(time.Until(s.ExpiresAt), time.Second)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Replace stores sess only if the stored session is live and still at
	// version prev. It returns ErrNotFound for a missing or expired session
	// and ErrConflict for a version mismatch.
	Replace(ctx context.Context, sess *Session, prev uint64) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases the backend.
	Close() error
}

// New creates a session for doc with a fresh random id.
func New(doc *diagram.Document, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Document:  doc,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ValidID reports whether id has the shape of a session id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// updateAttempts bounds how often an unversioned Update retries after
// losing a race.
const updateAttempts = 5

// Update loads a session, applies fn and stores the result with a bumped
// version. If version is non-zero it must match the stored version, and a
// concurrent edit landing first yields ErrConflict. With version zero the
// edit is retried on a fresh copy instead. The lifetime is extended by ttl
// from now.
func Update(ctx context.Context, store Store, id string, version uint64, ttl time.Duration, fn func(*diagram.Document) error) (*Session, error) {
	for attempt := 1; ; attempt++ {
		sess, err := store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, ErrNotFound
		}
		if version != 0 && version != sess.Version {
			return nil, ErrConflict
		}
		if err := fn(sess.Document); err != nil {
			return nil, err
		}

		prev := sess.Version
		now := time.Now()
		sess.Version++
		sess.UpdatedAt = now
		sess.ExpiresAt = now.Add(ttl)
		err = store.Replace(ctx, sess, prev)
		if errors.Is(err, ErrConflict) && version == 0 && attempt < updateAttempts {
			continue
		}
		if err != nil {
			return nil, err
		}
		return sess, nil
	}
}
