package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	authcore "github.com/titanpomade/authcore"
)

const pgUniqueViolation = "23505"

// UserStore is the PostgreSQL implementation of authcore.UserStore.
type UserStore struct {
	db DBTX
}

// NewUserStore binds a UserStore to the given DBTX.
func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, email, name, password_digest, role, email_verified, created_at, updated_at"

func scanUser(row *sql.Row) (authcore.User, error) {
	var u authcore.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordDigest, &u.Role, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a new, unverified user and returns the stored record.
// A unique violation on email maps to authcore.ErrDuplicateEmail.
func (s *UserStore) Create(ctx context.Context, nu authcore.NewUser) (authcore.User, error) {
	query := `
		INSERT INTO users (id, email, name, password_digest, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	row := s.db.QueryRowContext(ctx, query,
		uuid.NewString(), nu.Email, nu.Name, nu.PasswordDigest, string(nu.Role))

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return authcore.User{}, authcore.ErrDuplicateEmail
		}
		return authcore.User{}, fmt.Errorf("postgres: create user: %w", err)
	}
	return u, nil
}

// ByEmail looks a user up by the exact email string.
func (s *UserStore) ByEmail(ctx context.Context, email string) (authcore.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return authcore.User{}, authcore.ErrUserNotFound
		}
		return authcore.User{}, fmt.Errorf("postgres: user by email: %w", err)
	}
	return u, nil
}

// ByID looks a user up by primary key.
func (s *UserStore) ByID(ctx context.Context, id string) (authcore.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return authcore.User{}, authcore.ErrUserNotFound
		}
		return authcore.User{}, fmt.Errorf("postgres: user by id: %w", err)
	}
	return u, nil
}

// UpdatePasswordDigest replaces the stored password digest.
func (s *UserStore) UpdatePasswordDigest(ctx context.Context, id, digest string) error {
	query := `UPDATE users SET password_digest = $2, updated_at = now() WHERE id = $1`
	return s.exec(ctx, query, "update password", id, digest)
}

// SetEmailVerified marks the account verified.
func (s *UserStore) SetEmailVerified(ctx context.Context, id string) error {
	query := `UPDATE users SET email_verified = TRUE, updated_at = now() WHERE id = $1`
	return s.exec(ctx, query, "set verified", id)
}

// Delete removes the user row; recovery tokens cascade.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	return s.exec(ctx, query, "delete user", id)
}

func (s *UserStore) exec(ctx context.Context, query, op string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: %s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return authcore.ErrUserNotFound
	}
	return nil
}
