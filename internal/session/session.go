// Package session stores per-browser identity: the signed-in player, if any,
// and whether the browser has presented the admin key.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vimleague/hub/internal/league"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string    `json:"id"`
	PlayerID  league.ID `json:"playerId,omitempty"`
	IsAdmin   bool      `json:"isAdmin,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignedIn reports whether the session is bound to a player.
func (s Session) SignedIn() bool { return s.PlayerID != 0 }

type Store interface {
	// Get returns ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (Session, error)
	// Save creates or replaces the session and extends its expiry.
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// NewID returns an unguessable session token.
func NewID() string {
	return uuid.NewString()
}
