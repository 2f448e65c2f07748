package service

import (
	"context"

	"authgate/internal/auth/session"
	"authgate/internal/user/domain"
	"authgate/internal/user/repository"
)

type mockRepo struct {
	findByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	insertFunc         func(ctx context.Context, username, passwordHash string) (domain.User, error)
	listFunc           func(ctx context.Context) ([]domain.Summary, error)
}

func (m *mockRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockRepo) Insert(ctx context.Context, username, passwordHash string) (domain.User, error) {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, username, passwordHash)
	}
	return domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

func (m *mockRepo) List(ctx context.Context) ([]domain.Summary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type mockSessionStore struct {
	saveFunc   func(ctx context.Context, s session.Session) error
	findFunc   func(ctx context.Context, id string) (session.Session, error)
	deleteFunc func(ctx context.Context, id string) error

	saved []session.Session
}

func (m *mockSessionStore) Save(ctx context.Context, s session.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, s)
	}
	m.saved = append(m.saved, s)
	return nil
}

func (m *mockSessionStore) Find(ctx context.Context, id string) (session.Session, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, id)
	}
	return session.Session{}, session.ErrSessionNotFound
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return session.ErrSessionNotFound
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "test-session-id", nil
}
