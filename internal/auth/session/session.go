package session

import (
	"context"
	"errors"
	"time"

	"authgate/internal/user/domain"
)

// Session binds a client to an authenticated user until explicitly destroyed.
// The ID travels in the cookie only; the stored value never includes it.
type Session struct {
	ID        string    `json:"-"`
	UserID    domain.ID `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions keyed by their opaque identifier.
type Store interface {
	Save(ctx context.Context, s Session) error
	Find(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
