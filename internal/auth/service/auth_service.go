package service

import (
	"context"
	"errors"
	"fmt"

	"authgate/internal/auth/session"
	"authgate/internal/common/crypto"
	commonerrors "authgate/internal/common/errors"
	"authgate/internal/common/logger"
	"authgate/internal/observability/metrics"
	"authgate/internal/user/domain"
	"authgate/internal/user/repository"
)

// AuthService orchestrates the registration and login pipelines and the
// logout path. Stages run strictly in sequence per request; the only commit
// points are the credential store insert and the session store write.
type AuthService struct {
	repo     repository.Repository
	gate     *Gate
	hasher   crypto.PasswordHasher
	sessions *session.Manager
	log      *logger.Logger
}

func NewAuthService(
	repo repository.Repository,
	hasher crypto.PasswordHasher,
	sessions *session.Manager,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		gate:     NewGate(repo),
		hasher:   hasher,
		sessions: sessions,
		log:      log,
	}
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Message string
	Session session.Session
}

// Register runs length check, free-username check, hash, insert — in that
// order, so a short password is rejected even when the username is also
// taken. The store's unique constraint backs the free-username check against
// concurrent registrations.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.Summary, error) {
	err := RunSteps(ctx,
		s.gate.PasswordLength(input.Password),
		s.gate.UsernameFree(input.Username),
	)
	if err != nil {
		s.warnOrError(ctx, input.Username, "register", err)
		metrics.RegistrationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return domain.Summary{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return domain.Summary{}, err
	}

	user, err := s.repo.Insert(ctx, input.Username, hash)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
			return domain.Summary{}, ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_insert_failed",
		}).Errorf("register failed: %v", err)
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return domain.Summary{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  user.ID,
		"action":   "register_success",
	}).Info("register success")
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	return user.Summary(), nil
}

// Login verifies the candidate password against the record bound by the
// username-exists check, then creates the session. No session is left behind
// on any failure path.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	user, err := s.gate.UsernameExists(ctx, input.Username)
	if err != nil {
		s.warnOrError(ctx, input.Username, "login", err)
		metrics.LoginsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return LoginResult{}, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  user.ID,
			"action":   "login_session_create_failed",
		}).Errorf("login failed: session create error: %v", err)
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return LoginResult{}, commonerrors.ErrSessionStoreError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  user.ID,
		"action":   "login_success",
	}).Info("login success")
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return LoginResult{
		Message: fmt.Sprintf("Welcome %s", user.Username),
		Session: sess,
	}, nil
}

// Logout destroys the bound session, if any. Always succeeds from the
// caller's perspective; the outcome only picks the acknowledgment.
func (s *AuthService) Logout(ctx context.Context, sessionID string) session.DestroyOutcome {
	outcome := s.sessions.Destroy(ctx, sessionID)

	s.log.WithFields(ctx, logger.Fields{
		"action":  "logout",
		"outcome": int(outcome),
	}).Info("logout")

	return outcome
}

// ListUsers returns every registered user as {user_id, username}.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.Summary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "list_users_failed",
		}).Errorf("list users failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return users, nil
}

func outcomeLabel(err error) string {
	if isClientError(err) {
		return "rejected"
	}
	return "error"
}

func (s *AuthService) warnOrError(ctx context.Context, username, pipeline string, err error) {
	fields := logger.Fields{
		"username": username,
		"action":   pipeline + "_check_failed",
	}
	if isClientError(err) {
		s.log.WithFields(ctx, fields).Warnf("%s rejected: %v", pipeline, err)
		return
	}
	s.log.WithFields(ctx, fields).Errorf("%s failed: %v", pipeline, err)
}
