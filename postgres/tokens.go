package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/titanpomade/authcore/recovery"
)

// TokenStore keeps recovery tokens in the recovery_tokens table. It needs
// a *sql.DB rather than a DBTX because Replace runs its own transaction.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore binds a TokenStore to the given database handle.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Replace deletes any tokens the user holds for the record's variant and
// inserts the new one, atomically.
func (s *TokenStore) Replace(ctx context.Context, rec recovery.Record) error {
	err := WithTx(ctx, s.db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM recovery_tokens WHERE user_id = $1 AND variant = $2`,
			rec.UserID, string(rec.Variant))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO recovery_tokens (digest, user_id, variant, expires_at, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			rec.Digest, rec.UserID, string(rec.Variant), rec.ExpiresAt, rec.CreatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("postgres: replace token: %w", err)
	}
	return nil
}

// Consume deletes the matching row and returns it. The single
// DELETE ... RETURNING statement guarantees at most one caller wins,
// no matter how many race on the same digest.
func (s *TokenStore) Consume(ctx context.Context, digest string, variant recovery.Variant) (recovery.Record, error) {
	query := `
		DELETE FROM recovery_tokens
		WHERE digest = $1 AND variant = $2
		RETURNING digest, user_id, variant, expires_at, created_at`

	var rec recovery.Record
	err := s.db.QueryRowContext(ctx, query, digest, string(variant)).
		Scan(&rec.Digest, &rec.UserID, &rec.Variant, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recovery.Record{}, recovery.ErrNotFound
		}
		return recovery.Record{}, fmt.Errorf("postgres: consume token: %w", err)
	}
	return rec, nil
}

// DeleteForUser drops every token the user holds for the variant.
func (s *TokenStore) DeleteForUser(ctx context.Context, userID string, variant recovery.Variant) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM recovery_tokens WHERE user_id = $1 AND variant = $2`,
		userID, string(variant))
	if err != nil {
		return fmt.Errorf("postgres: delete tokens: %w", err)
	}
	return nil
}
