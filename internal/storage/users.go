package storage

import (
	"context"
	"fmt"

	"forecourt/internal/auth"
)

func (r *SQLiteRepository) CreateUser(ctx context.Context, u auth.User) (auth.User, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username, password_hash, role)
		VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, u.Role)
	if err != nil {
		return auth.User{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return auth.User{}, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetUser(ctx, id)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (auth.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, role, created_at
		FROM users WHERE id = ?`, id)
	var u auth.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return auth.User{}, mapErr(err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (auth.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = ?`, username)
	var u auth.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return auth.User{}, mapErr(err)
	}
	return u, nil
}

// UpdatePassword replaces a user's password hash.
func (r *SQLiteRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID))
}

// CountUsers reports how many accounts exist. The first registered
// account becomes the owner.
func (r *SQLiteRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
