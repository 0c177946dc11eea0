package checkout

import (
	"errors"
	"sync"
	"time"

	"github.com/artisanmarket/storefront/internal/domain"
)

const (
	// SessionTTL is how long an abandoned checkout session is kept.
	SessionTTL = 30 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = time.Minute
)

var ErrSessionNotFound = errors.New("checkout session not found")

// SessionStore holds in-flight checkout sessions. Get and Put move
// copies; TransitionStatus is the only operation that acts on the
// stored session itself, so status moves stay atomic.
type SessionStore interface {
	Get(id string) (*Session, error)
	Put(session *Session) error
	TransitionStatus(id string, from, to domain.CheckoutStatus) error
	Delete(id string) error
	Close() error
}

// MemoryStore implements SessionStore with in-memory storage. Sessions
// are transient, so process restart losing them is acceptable.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		sessions:    make(map[string]*Session),
		stopCleanup: make(chan struct{}),
	}

	// Start background cleanup goroutine
	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) expireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, id)
		}
	}
}

// Get returns a copy of the session so callers mutate their own view and
// persist it back with Put.
func (s *MemoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists || session.IsExpired() {
		return nil, ErrSessionNotFound
	}

	return cloneSession(session), nil
}

// Put stores a copy, never the caller's pointer: the caller keeps
// mutating its session after Put, and the stored one must not move
// underneath concurrent readers.
func (s *MemoryStore) Put(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now()
	session.ExpiresAt = time.Now().Add(SessionTTL)
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

// TransitionStatus compare-and-sets the stored session's status. A
// status check on a Get copy can go stale, so any transition that must
// happen at most once (claiming a session for submission) goes through
// here instead.
func (s *MemoryStore) TransitionStatus(id string, from, to domain.CheckoutStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists || session.IsExpired() {
		return ErrSessionNotFound
	}
	if session.Status != from || !domain.CanTransitionTo(from, to) {
		return ErrIllegalTransition
	}

	session.Status = to
	session.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Close stops the background cleanup and waits for it to finish
func (s *MemoryStore) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}

func cloneSession(session *Session) *Session {
	copied := *session
	copied.Errors = cloneErrors(session.Errors)
	return &copied
}

func cloneErrors(errs map[string]string) map[string]string {
	if errs == nil {
		return nil
	}
	copied := make(map[string]string, len(errs))
	for k, v := range errs {
		copied[k] = v
	}
	return copied
}
