package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration matches the 24-hour cookie lifetime of the admin UI.
const SessionDuration = 24 * time.Hour

// CookieName is the session cookie set on login.
const CookieName = "mb_session"

// Session is the server-held state a cookie token points at. Logout
// deletes it, which kills the cookie even though its signature stays
// valid until expiry.
type Session struct {
	ID        string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Sessions issues and verifies session tokens. The token itself is an
// HS256 JWT whose ID indexes the in-memory registry, so a token is only
// accepted while its registry entry is alive.
type Sessions struct {
	secret []byte

	mu     sync.Mutex
	active map[string]Session
}

func NewSessions(secret string) *Sessions {
	return &Sessions{
		secret: []byte(secret),
		active: make(map[string]Session),
	}
}

// Issue creates a session for the user and returns the signed cookie
// token.
func (s *Sessions) Issue(userID, email string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	id := hex.EncodeToString(buf)
	expires := time.Now().Add(SessionDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	s.mu.Lock()
	s.active[id] = Session{ID: id, UserID: userID, Email: email, ExpiresAt: expires}
	s.mu.Unlock()
	return signed, nil
}

// Verify parses and validates the token and looks up its live session.
// Expired or revoked sessions report ok=false, never an error; a bad
// cookie is simply an anonymous request.
func (s *Sessions) Verify(tokenString string) (Session, bool) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, false
	}
	id, _ := claims["jti"].(string)
	if id == "" {
		return Session{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.active[id]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(s.active, id)
		return Session{}, false
	}
	return session, true
}

// Revoke destroys the session behind the token. Unknown or mangled
// tokens are a no-op; logout never fails for being logged out already.
func (s *Sessions) Revoke(tokenString string) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return
	}
	id, _ := claims["jti"].(string)
	if id == "" {
		return
	}
	s.mu.Lock()
	delete(s.active, id)
	s.mu.Unlock()
}

type contextKey struct{}

// WithSession attaches the session to the request context.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

// FromContext returns the session carried by the context, if any.
func FromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(contextKey{}).(Session)
	return session, ok
}
