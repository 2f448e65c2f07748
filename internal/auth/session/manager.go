package session

import (
	"context"
	"errors"

	"authgate/internal/common/clock"
	"authgate/internal/common/crypto"
	"authgate/internal/common/logger"
	"authgate/internal/observability/metrics"
	"authgate/internal/user/domain"
)

// DestroyOutcome is what a destroy attempt looks like from the client's side.
// The session is observably gone in every case; the outcome only selects the
// acknowledgment message.
type DestroyOutcome int

const (
	NoSession DestroyOutcome = iota
	DestroyedClean
	DestroyDegraded
)

// Manager owns the session lifecycle: create on successful login, look up for
// authenticated requests, destroy on logout. Destroy never fails the caller;
// store trouble degrades the acknowledgment and nothing else.
type Manager struct {
	store Store
	ids   crypto.IDGenerator
	clock clock.Clock
	log   *logger.Logger
}

func NewManager(store Store, ids crypto.IDGenerator, clk clock.Clock, log *logger.Logger) *Manager {
	return &Manager{
		store: store,
		ids:   ids,
		clock: clk,
		log:   log,
	}
}

func (m *Manager) Create(ctx context.Context, user domain.User) (Session, error) {
	id, err := m.ids.NewID()
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: m.clock.Now(),
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return Session{}, err
	}

	metrics.SessionsCreated.Inc()
	return sess, nil
}

// Current looks up the session bound to id. Lookup only, no mutation.
func (m *Manager) Current(ctx context.Context, id string) (Session, bool) {
	if id == "" {
		return Session{}, false
	}

	sess, err := m.store.Find(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			m.log.WithFields(ctx, logger.Fields{
				"action": "session_lookup_failed",
			}).Errorf("session lookup failed: %v", err)
		}
		return Session{}, false
	}

	return sess, true
}

// Destroy removes the session bound to id. Destroying an absent session is a
// no-op reported as NoSession; an underlying store failure is absorbed and
// reported as DestroyDegraded.
func (m *Manager) Destroy(ctx context.Context, id string) DestroyOutcome {
	if id == "" {
		metrics.SessionsDestroyed.WithLabelValues("no_session").Inc()
		return NoSession
	}

	err := m.store.Delete(ctx, id)
	switch {
	case err == nil:
		metrics.SessionsDestroyed.WithLabelValues("clean").Inc()
		return DestroyedClean
	case errors.Is(err, ErrSessionNotFound):
		metrics.SessionsDestroyed.WithLabelValues("no_session").Inc()
		return NoSession
	default:
		m.log.WithFields(ctx, logger.Fields{
			"action": "session_destroy_failed",
		}).Errorf("session destroy failed: %v", err)
		metrics.SessionsDestroyed.WithLabelValues("degraded").Inc()
		return DestroyDegraded
	}
}
