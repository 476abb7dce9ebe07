package postgres

import (
	"context"
	"fmt"

	"github.com/asteritime/asteritime/internal/domain/user"
)

func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, version, created_at, updated_at`,
		username, email, passwordHash,
	)

	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Version, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, version, created_at, updated_at
		FROM users WHERE id = $1`, id)

	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Version, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, notFoundWrap(err, "get user %d", id)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, version, created_at, updated_at
		FROM users WHERE username = $1`, username)

	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Version, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, notFoundWrap(err, "get user %s", username)
	}
	return &u, nil
}
