package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcec-dev/feedesk-api/internal/models"
	appErrors "github.com/gcec-dev/feedesk-api/pkg/errors"
)

// SessionRepository holds fee sessions in memory. Sessions are short-lived
// working state, not durable data, so process memory is their home; expired
// sessions are swept opportunistically on writes.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.FeeSession
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRepository constructs a session store with the given TTL.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionRepository{
		sessions: make(map[string]*models.FeeSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session and returns its generated ID.
func (r *SessionRepository) Create(sess *models.FeeSession) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()

	sess.ID = uuid.NewString()
	now := r.now().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	r.sessions[sess.ID] = sess
	return sess.ID
}

// Mutate runs fn on the session under the store lock. Every state transition
// of the cell-selection machine goes through here, so concurrent requests
// against the same session serialize instead of racing.
func (r *SessionRepository) Mutate(id string, fn func(*models.FeeSession) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok || r.expiredLocked(sess) {
		delete(r.sessions, id)
		return appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	if err := fn(sess); err != nil {
		return err
	}
	sess.UpdatedAt = r.now().UTC()
	return nil
}

// View runs fn on a read-only copy of the session.
func (r *SessionRepository) View(id string, fn func(models.FeeSession)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok || r.expiredLocked(sess) {
		delete(r.sessions, id)
		return appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	fn(*sess)
	return nil
}

// Delete removes the session if present.
func (r *SessionRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of live sessions.
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.sessions)
}

func (r *SessionRepository) expiredLocked(sess *models.FeeSession) bool {
	return r.now().Sub(sess.UpdatedAt) > r.ttl
}

func (r *SessionRepository) sweepLocked() {
	for id, sess := range r.sessions {
		if r.expiredLocked(sess) {
			delete(r.sessions, id)
		}
	}
}
