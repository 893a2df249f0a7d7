package server

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"trinkspiel/internal/catalog"
	"trinkspiel/internal/game"
	"trinkspiel/internal/room"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie    = "ts_session"
	hostCookiePrefix = "ts_host_"
	hostTokenHeader  = "X-Host-Token"
	hostCookieMaxAge = 30 * 24 * 60 * 60
)

type localSession struct {
	name    string
	games   *game.Session
	timer   *time.Timer
	touched uint64
}

// sessionStore holds the single-device game state of each browser, keyed by
// the session cookie. A session is torn down after idle without requests.
type sessionStore struct {
	mu       sync.Mutex
	accessor *catalog.Accessor
	idle     time.Duration
	options  []game.SessionOption
	sessions map[string]*localSession
}

func newSessionStore(accessor *catalog.Accessor, idle time.Duration) *sessionStore {
	return &sessionStore{
		accessor: accessor,
		idle:     idle,
		sessions: make(map[string]*localSession),
	}
}

// Games returns the controllers of the caller's session, creating both on
// first use, and restarts the idle timer.
func (s *sessionStore) Games(c *gin.Context) *game.Session {
	id := s.ensureSessionID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.touchLocked(id)
	if session.games == nil {
		session.games = game.NewSession(s.accessor, s.options...)
	}
	return session.games
}

func (s *sessionStore) SetName(c *gin.Context, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	id := s.ensureSessionID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked(id).name = name
}

func (s *sessionStore) GetName(c *gin.Context) string {
	id := s.ensureSessionID(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		return session.name
	}
	return ""
}

// End tears the caller's session down, stopping every game timer.
func (s *sessionStore) End(c *gin.Context) bool {
	cookie, err := c.Request.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	return s.expire(cookie.Value, "ended")
}

func (s *sessionStore) touchLocked(id string) *localSession {
	session, ok := s.sessions[id]
	if !ok {
		session = &localSession{}
		s.sessions[id] = session
	}
	session.touched++
	if s.idle > 0 {
		if session.timer != nil {
			session.timer.Stop()
		}
		touched := session.touched
		session.timer = time.AfterFunc(s.idle, func() {
			s.expireIdle(id, touched)
		})
	}
	return session
}

// expireIdle ignores a timer that a later request already replaced.
func (s *sessionStore) expireIdle(id string, touched uint64) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok || session.touched != touched {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, id)
	s.mu.Unlock()
	teardown(session, "idle")
}

func (s *sessionStore) expire(id, reason string) bool {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	teardown(session, reason)
	return true
}

func teardown(session *localSession, reason string) {
	if session.timer != nil {
		session.timer.Stop()
	}
	if session.games != nil {
		session.games.Close()
	}
	log.Printf("local session closed reason=%s", reason)
}

// Close tears down every session.
func (s *sessionStore) Close() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.expire(id, "shutdown")
	}
}

func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ensureSessionID reads the session cookie or issues a new one. The id also
// serves as the participant id in rooms.
func (s *sessionStore) ensureSessionID(c *gin.Context) string {
	if id, ok := c.Get(sessionCookie); ok {
		return id.(string)
	}
	cookie, err := c.Request.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		c.Set(sessionCookie, cookie.Value)
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(sessionCookie, id)
	return id
}

// hostCredential resolves the host token for code from the header or the
// durable per-room cookie.
func hostCredential(c *gin.Context, code string) room.Credential {
	token := strings.TrimSpace(c.GetHeader(hostTokenHeader))
	if token == "" {
		if cookie, err := c.Request.Cookie(hostCookiePrefix + code); err == nil {
			token = cookie.Value
		}
	}
	return room.Credential{Code: code, Token: token}
}

func setHostCookie(c *gin.Context, cred room.Credential) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     hostCookiePrefix + cred.Code,
		Value:    cred.Token,
		Path:     "/",
		MaxAge:   hostCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearHostCookie(c *gin.Context, code string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     hostCookiePrefix + code,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
