package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"storefront/apperr"
	"storefront/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, created_at`

func userDest(u *models.User) []any {
	return []any{&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt}
}

type UserRepo struct {
	db DBTX
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, u.Email, u.PasswordHash, u.FirstName, u.LastName).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict("email already registered", err)
	}
	if err != nil {
		return apperr.Internal("create user", err)
	}
	return nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))).Scan(userDest(&u)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return models.User{}, apperr.Internal("get user by email", err)
	}
	return u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).Scan(userDest(&u)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user %d not found", id)
	}
	if err != nil {
		return models.User{}, apperr.Internal("get user", err)
	}
	return u, nil
}

// Lock takes a row lock on the user for the rest of the transaction, which
// serializes per-user work such as order placement.
func (r *UserRepo) Lock(ctx context.Context, id int64) error {
	var got int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("user %d not found", id)
	}
	if err != nil {
		return apperr.Internal("lock user", err)
	}
	return nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return apperr.Internal("update password", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user %d not found", id)
	}
	return nil
}
