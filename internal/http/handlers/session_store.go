package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"phishing_url_analyzer/internal/adaptors"
	"phishing_url_analyzer/internal/pkg/errors"
	"phishing_url_analyzer/internal/pkg/metrics"
	"phishing_url_analyzer/internal/service"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const SessionCookieName = `analyzer_session`

// DefaultSessionLimit bounds the number of live sessions held in memory.
const DefaultSessionLimit = 10000

// Session is one browser's page together with the controller driving it.
type Session struct {
	ID         string
	Page       *adaptors.Page
	Controller *service.AnalysisController
	lastSeen   time.Time
}

// SessionFactory builds the page and controller of a new session.
type SessionFactory func(id string) (*Session, error)

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	limit    int
	factory  SessionFactory
	now      func() time.Time
	log      *log.Logger
}

func NewSessionStore(ttl time.Duration, factory SessionFactory, log *log.Logger) *SessionStore {
	return &SessionStore{
		sessions: map[string]*Session{},
		ttl:      ttl,
		limit:    DefaultSessionLimit,
		factory:  factory,
		now:      time.Now,
		log:      log,
	}
}

// Lookup returns the caller's live session, or nil when the request carries
// none. It never creates a session.
func (s *SessionStore) Lookup(r *http.Request) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveLocked(r, s.now())
}

// Blank builds a page for a caller without a session. The result is not
// stored and sets no cookie.
func (s *SessionStore) Blank() (*Session, error) {
	sess, err := s.factory("")
	if err != nil {
		return nil, errors.Wrap(err, `failed to build blank page`)
	}
	return sess, nil
}

// Resolve returns the caller's session, creating one and setting the cookie
// when the request carries no live session. Once the store is full the least
// recently seen session is evicted.
func (s *SessionStore) Resolve(w http.ResponseWriter, r *http.Request) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess := s.liveLocked(r, now); sess != nil {
		return sess, nil
	}

	id := uuid.NewString()
	sess, err := s.factory(id)
	if err != nil {
		return nil, errors.Wrap(err, `failed to create session`)
	}
	s.makeRoomLocked(now)
	sess.ID = id
	sess.lastSeen = now
	s.sessions[id] = sess
	metrics.ActiveSessions.Inc()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     `/`,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	s.log.WithField(`session_id`, id).Debug(`session created`)
	return sess, nil
}

func (s *SessionStore) liveLocked(r *http.Request, now time.Time) *Session {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	sess, ok := s.sessions[c.Value]
	if !ok {
		return nil
	}
	if now.Sub(sess.lastSeen) > s.ttl {
		s.removeLocked(c.Value)
		return nil
	}
	sess.lastSeen = now
	return sess
}

// makeRoomLocked frees one slot when the store is at its limit, dropping
// expired sessions first and the least recently seen one otherwise.
func (s *SessionStore) makeRoomLocked(now time.Time) {
	if s.limit <= 0 || len(s.sessions) < s.limit {
		return
	}
	if s.sweepLocked(now) > 0 {
		return
	}

	var oldest *Session
	for _, sess := range s.sessions {
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldest = sess
		}
	}
	if oldest != nil {
		s.removeLocked(oldest.ID)
		s.log.WithField(`session_id`, oldest.ID).Debug(`session evicted`)
	}
}

// Sweep drops every session idle for longer than the ttl.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *SessionStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			s.removeLocked(id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.WithField(`expired`, n).Debug(`expired sessions removed`)
			}
		}
	}
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) removeLocked(id string) {
	delete(s.sessions, id)
	metrics.ActiveSessions.Dec()
}
