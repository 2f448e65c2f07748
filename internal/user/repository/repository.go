package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commonerrors "authgate/internal/common/errors"
	"authgate/internal/user/domain"
)

// Repository is the Credential Store collaborator. Insert relies on the
// users.username unique constraint; a concurrent duplicate surfaces as
// commonerrors.ErrUsernameAlreadyExists, never as a silent second row.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	Insert(ctx context.Context, username, passwordHash string) (domain.User, error)
	List(ctx context.Context) ([]domain.Summary, error)
}

// ErrUserNotFound reports a lookup for a username with no matching record.
var ErrUserNotFound = commonerrors.ErrUserNotFound

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT user_id, username, password_hash, created_at FROM users WHERE username = $1`,
		username,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) Insert(ctx context.Context, username, passwordHash string) (domain.User, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING user_id, username, password_hash, created_at`,
		username,
		passwordHash,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, commonerrors.ErrUsernameAlreadyExists
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Summary, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT user_id, username FROM users ORDER BY user_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.Summary
	for rows.Next() {
		var s domain.Summary
		if err := rows.Scan(&s.ID, &s.Username); err != nil {
			return nil, err
		}
		users = append(users, s)
	}

	return users, rows.Err()
}
