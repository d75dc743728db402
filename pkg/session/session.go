// Package session keeps inventory API sessions between CLI invocations.
//
// A [Session] records the token issued by the inventory API at login,
// the account it belongs to and the API it is valid for. The CLI saves it
// after `labelsheet login` and attaches it to later fetch and batch
// requests until it expires or `labelsheet logout` removes it.
//
//	sess := session.New(baseURL, resp.Token, &resp.User, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, sessionID)
//	if sess == nil {
//	    // not logged in, or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/labelsheet/pkg/inventory"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// Session stores an inventory API login.
type Session struct {
	ID        string          `json:"id"`
	BaseURL   string          `json:"base_url"`
	Token     string          `json:"token"`
	User      *inventory.User `json:"user"`
	ExpiresAt time.Time       `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Username returns the logged-in user's name, or "" for a nil session.
func (s *Session) Username() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Username
}

// Faculty returns the user's faculty, which batch requests default to.
func (s *Session) Faculty() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Faculty
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// DefaultTTL is how long a saved login is trusted before the CLI asks for
// a new one.
const DefaultTTL = 24 * time.Hour

// New creates a session with a fresh random ID.
func New(baseURL, token string, user *inventory.User, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		BaseURL:   baseURL,
		Token:     token,
		User:      user,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}
