package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"authgate/internal/common/constants"
	commonerrors "authgate/internal/common/errors"
	"authgate/internal/user/domain"
	"authgate/internal/user/repository"
)

// Step is one precondition check in a pipeline. Steps never write responses;
// they either let the pipeline proceed or stop it with the failing error.
type Step func(ctx context.Context) error

// RunSteps executes steps in order and short-circuits on the first failure.
// No aggregation: the first failing check wins.
func RunSteps(ctx context.Context, steps ...Step) error {
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Gate holds the precondition checks shared by the registration and login
// pipelines. All checks are read-only against the credential store.
type Gate struct {
	repo repository.Repository
}

func NewGate(repo repository.Repository) *Gate {
	return &Gate{repo: repo}
}

// PasswordLength rejects candidates of 3 characters or fewer. Characters,
// not bytes: a multibyte rune counts once.
func (g *Gate) PasswordLength(password string) Step {
	return func(ctx context.Context) error {
		if utf8.RuneCountInString(password) < constants.PasswordMinLength {
			return ErrPasswordTooShort
		}
		return nil
	}
}

// UsernameFree succeeds only when no user with this username exists.
// It is a fast-path courtesy check; the insert-time unique constraint is the
// safeguard against concurrent duplicates.
func (g *Gate) UsernameFree(username string) Step {
	return func(ctx context.Context) error {
		_, err := g.repo.FindByUsername(ctx, username)
		switch {
		case err == nil:
			return ErrUsernameTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return nil
		default:
			return commonerrors.ErrDatabaseError.WithCause(err)
		}
	}
}

// UsernameExists fetches the user record so the caller can reuse it without a
// second store lookup. The record is an explicit output, not a context
// attachment.
func (g *Gate) UsernameExists(ctx context.Context, username string) (domain.User, error) {
	user, err := g.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUnknownUsername
		}
		return domain.User{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return user, nil
}
