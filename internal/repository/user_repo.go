package repository

import (
	"context"
	"errors"

	"goose_server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, COALESCE(status, 'disconnected'), created_at
		 FROM users
		 WHERE id = $1`,
		id,
	)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Status, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, COALESCE(status, 'disconnected'), created_at
		 FROM users
		 WHERE username = $1`,
		username,
	)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Status, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (username, status)
		 VALUES ($1, 'disconnected')
		 RETURNING id, created_at`,
		u.Username,
	).Scan(&u.ID, &u.CreatedAt)
}

// UpdateStatus mirrors the in-memory presence state to the persistent store.
func (r *UserRepository) UpdateStatus(ctx context.Context, userID int64, status domain.PresenceStatus) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET status = $1 WHERE id = $2`,
		status, userID,
	)
	return err
}
