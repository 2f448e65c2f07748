package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"authgate/internal/auth/session"
	"authgate/internal/common/clock"
	commonerrors "authgate/internal/common/errors"
	"authgate/internal/common/logger"
	"authgate/internal/user/domain"
)

func setupAuthService(t *testing.T) (*AuthService, *mockRepo, *mockHasher, *mockSessionStore) {
	t.Helper()

	repo := &mockRepo{}
	hasher := &mockHasher{}
	store := &mockSessionStore{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	sessions := session.NewManager(store, &mockIDGenerator{}, mockClock, log)
	svc := NewAuthService(repo, hasher, sessions, log)

	return svc, repo, hasher, store
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	var insertedHash string
	repo.insertFunc = func(_ context.Context, username, passwordHash string) (domain.User, error) {
		insertedHash = passwordHash
		return domain.User{ID: 2, Username: username, PasswordHash: passwordHash}, nil
	}

	result, err := svc.Register(context.Background(), RegisterInput{
		Username: "sue",
		Password: "1234",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.ID != 2 || result.Username != "sue" {
		t.Errorf("expected {2 sue}, got %+v", result)
	}
	if insertedHash != "hashed_1234" {
		t.Errorf("expected digest to be persisted, got %q", insertedHash)
	}
}

func TestAuthService_Register_PasswordTooShort(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	// Username is also taken; the length check must win because it runs first.
	repo.findByUsernameFunc = func(_ context.Context, username string) (domain.User, error) {
		return domain.User{ID: 1, Username: username}, nil
	}
	inserted := false
	repo.insertFunc = func(_ context.Context, _, _ string) (domain.User, error) {
		inserted = true
		return domain.User{}, nil
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "sue",
		Password: "12",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if inserted {
		t.Error("expected no insert on rejected registration")
	}
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(_ context.Context, username string) (domain.User, error) {
		return domain.User{ID: 1, Username: username}, nil
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "sue",
		Password: "1234",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	// Free at check time, conflict at insert time: the store constraint is
	// the safeguard and its conflict must surface as the same rejection.
	repo.insertFunc = func(_ context.Context, _, _ string) (domain.User, error) {
		return domain.User{}, commonerrors.ErrUsernameAlreadyExists
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "sue",
		Password: "1234",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_StoreFault(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.insertFunc = func(_ context.Context, _, _ string) (domain.User, error) {
		return domain.User{}, errors.New("connection reset")
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "sue",
		Password: "1234",
	})
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "DATABASE_ERROR" {
		t.Fatalf("expected DATABASE_ERROR, got %v", err)
	}
	if de.HTTPStatus() != 500 {
		t.Errorf("expected server fault, got status %d", de.HTTPStatus())
	}
}

func TestAuthService_Register_ContextCancelled(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	// The store surfaces the cancellation the way a real driver would.
	repo.findByUsernameFunc = func(ctx context.Context, _ string) (domain.User, error) {
		return domain.User{}, ctx.Err()
	}
	inserted := false
	repo.insertFunc = func(_ context.Context, _, _ string) (domain.User, error) {
		inserted = true
		return domain.User{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Register(ctx, RegisterInput{
		Username: "sue",
		Password: "1234",
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation to surface, got %v", err)
	}
	if inserted {
		t.Error("expected no insert after cancellation")
	}
}

func TestAuthService_Register_HashError(t *testing.T) {
	svc, repo, hasher, _ := setupAuthService(t)

	hasher.hashFunc = func(_ string) (string, error) {
		return "", errors.New("hash error")
	}
	inserted := false
	repo.insertFunc = func(_ context.Context, _, _ string) (domain.User, error) {
		inserted = true
		return domain.User{}, nil
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "sue",
		Password: "1234",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if inserted {
		t.Error("expected no insert after hash failure")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, _, store := setupAuthService(t)

	repo.findByUsernameFunc = func(_ context.Context, username string) (domain.User, error) {
		return domain.User{ID: 2, Username: username, PasswordHash: "hashed_1234"}, nil
	}

	result, err := svc.Login(context.Background(), LoginInput{
		Username: "sue",
		Password: "1234",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Message != "Welcome sue" {
		t.Errorf("expected welcome acknowledgment, got %q", result.Message)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one session, got %d", len(store.saved))
	}
	if store.saved[0].UserID != 2 || store.saved[0].Username != "sue" {
		t.Errorf("expected session bound to sue, got %+v", store.saved[0])
	}
}

func TestAuthService_Login_UnknownUsername(t *testing.T) {
	svc, _, _, store := setupAuthService(t)

	_, err := svc.Login(context.Background(), LoginInput{
		Username: "nobody",
		Password: "1234",
	})
	if !errors.Is(err, ErrUnknownUsername) {
		t.Errorf("expected ErrUnknownUsername, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Error("expected no session on failed login")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo, hasher, store := setupAuthService(t)

	repo.findByUsernameFunc = func(_ context.Context, username string) (domain.User, error) {
		return domain.User{ID: 2, Username: username, PasswordHash: "hashed_1234"}, nil
	}
	hasher.compareFunc = func(_, _ string) error {
		return errors.New("mismatch")
	}

	_, err := svc.Login(context.Background(), LoginInput{
		Username: "sue",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Error("expected no session on failed login")
	}
}

func TestAuthService_Login_SessionStoreDown(t *testing.T) {
	svc, repo, _, store := setupAuthService(t)

	repo.findByUsernameFunc = func(_ context.Context, username string) (domain.User, error) {
		return domain.User{ID: 2, Username: username, PasswordHash: "hashed_1234"}, nil
	}
	store.saveFunc = func(_ context.Context, _ session.Session) error {
		return errors.New("redis down")
	}

	_, err := svc.Login(context.Background(), LoginInput{
		Username: "sue",
		Password: "1234",
	})
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "SESSION_STORE_ERROR" {
		t.Errorf("expected SESSION_STORE_ERROR, got %v", err)
	}
}

func TestAuthService_Logout_Outcomes(t *testing.T) {
	svc, _, _, store := setupAuthService(t)

	if got := svc.Logout(context.Background(), ""); got != session.NoSession {
		t.Errorf("expected NoSession for empty id, got %v", got)
	}

	store.deleteFunc = func(_ context.Context, _ string) error { return nil }
	if got := svc.Logout(context.Background(), "sess-1"); got != session.DestroyedClean {
		t.Errorf("expected DestroyedClean, got %v", got)
	}

	store.deleteFunc = func(_ context.Context, _ string) error { return errors.New("redis down") }
	if got := svc.Logout(context.Background(), "sess-1"); got != session.DestroyDegraded {
		t.Errorf("expected DestroyDegraded, got %v", got)
	}
}

func TestAuthService_ListUsers(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.listFunc = func(_ context.Context) ([]domain.Summary, error) {
		return []domain.Summary{
			{ID: 1, Username: "bob"},
			{ID: 2, Username: "sue"},
		}, nil
	}

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(users) != 2 || users[1].Username != "sue" {
		t.Errorf("unexpected users: %+v", users)
	}
}
