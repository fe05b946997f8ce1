package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSIONS
// Login hands out an opaque bearer token; the middleware resolves it back to a
// user ID and every command receives that ID explicitly. The domain layer
// never sees a session.
// ══════════════════════════════════════════════════════════════════════════════

type session struct {
	userID    string
	expiresAt time.Time
}

// SessionStore holds login tokens in memory. Tokens die with the process;
// clients log in again after a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a session store with the given token lifetime.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	st := &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
	go st.sweep()
	return st
}

// Issue creates a token for the user and returns it.
func (st *SessionStore) Issue(userID string) string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("http: crypto/rand unavailable: " + err.Error())
	}
	token := hex.EncodeToString(buf)

	st.mu.Lock()
	st.sessions[token] = session{userID: userID, expiresAt: time.Now().Add(st.ttl)}
	st.mu.Unlock()
	return token
}

// Resolve returns the user ID behind a token, or "" if unknown or expired.
func (st *SessionStore) Resolve(token string) string {
	st.mu.RLock()
	s, ok := st.sessions[token]
	st.mu.RUnlock()
	if !ok || time.Now().After(s.expiresAt) {
		return ""
	}
	return s.userID
}

// Revoke removes a token.
func (st *SessionStore) Revoke(token string) {
	st.mu.Lock()
	delete(st.sessions, token)
	st.mu.Unlock()
}

// Close stops the expiry sweep.
func (st *SessionStore) Close() {
	st.stopOnce.Do(func() { close(st.stopCh) })
}

func (st *SessionStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-st.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			st.mu.Lock()
			for token, s := range st.sessions {
				if now.After(s.expiresAt) {
					delete(st.sessions, token)
				}
			}
			st.mu.Unlock()
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

type contextKey string

const contextKeyUserID contextKey = "user_id"

// authMiddleware resolves the bearer token to a user ID and injects it into
// the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token", "a bearer token is required")
			return
		}

		userID := s.sessions.Resolve(token)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "invalid_token", "the token is unknown or expired")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// callerID returns the authenticated user ID from the request context.
func callerID(r *http.Request) string {
	if id, ok := r.Context().Value(contextKeyUserID).(string); ok {
		return id
	}
	return ""
}
