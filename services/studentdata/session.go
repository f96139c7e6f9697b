package studentdata

import (
	"fmt"
	"sync"
	"time"
	"vtopassist/lib/scrapers/vtop"
	"vtopassist/lib/timezone"

	"github.com/mazen160/go-random"
)

var ErrSessionNotFound = fmt.Errorf("session not found or expired")

// Session pairs one student's portal client with their private
// resource cache. Clients are never shared across sessions, two
// students logged in concurrently hold disjoint cookie jars, auth
// contexts and caches.
type Session struct {
	ID     string
	Client *vtop.Client
	Cache  *resourceCache

	// loginMu serializes re-login attempts so concurrent fetches on an
	// expired session don't race the portal's captcha flow.
	loginMu sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = timezone.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*Session)}
}

func (s *sessionStore) Create(client *vtop.Client, cacheTTL time.Duration) (*Session, error) {
	id, err := random.String(32)
	if err != nil {
		return nil, err
	}
	session := &Session{
		ID:       id,
		Client:   client,
		Cache:    newResourceCache(cacheTTL),
		lastSeen: timezone.Now(),
	}
	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()
	return session, nil
}

func (s *sessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.touch()
	return session, nil
}

func (s *sessionStore) Delete(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	return session, ok
}

// EvictIdle removes and tears down sessions untouched for longer than
// maxIdle, returning how many were dropped.
func (s *sessionStore) EvictIdle(maxIdle time.Duration) int {
	cutoff := timezone.Now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*Session
	for id, session := range s.sessions {
		if session.idleSince().Before(cutoff) {
			stale = append(stale, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range stale {
		session.Cache.Purge()
		session.Client.Close()
	}
	return len(stale)
}
