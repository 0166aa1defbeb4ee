package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrSessionNotFound covers both a missing identifier and one that has
// passively expired; callers cannot tell the two apart.
var ErrSessionNotFound = errors.New("session not found or expired")

// Claims is the server-side state attached to a session identifier.
type Claims struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Role    string    `json:"role,omitempty"`
}

// Store keeps session records keyed by opaque identifiers with a TTL
// applied on write. It is the sole owner of session lifetime: sessions are
// created at login, destroyed at logout and otherwise left to expire.
//
// A Store is constructed once at startup and closed at shutdown; any error
// from Get other than ErrSessionNotFound must be treated by callers as a
// rejection, never as an implicit allow.
type Store interface {
	Create(ctx context.Context, claims Claims) (string, error)
	Get(ctx context.Context, sessionID string) (Claims, error)
	Destroy(ctx context.Context, sessionID string) error
	Close() error
}

func newSessionID() string {
	return uuid.NewString()
}
