// Package recovery manages the lifecycle of single-use, time-bounded
// credential-recovery tokens: password reset and email verification.
//
// Per (user, variant) a token moves none → live → consumed|expired. Both
// terminal states read the same from the outside ("no longer usable");
// consumed means possession of the secret was proven, expired means the
// deadline passed first. The raw secret is returned to the caller exactly
// once, at creation; only its digest is ever stored.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/titanpomade/authcore/secret"
)

// Variant distinguishes the two recovery-token kinds.
type Variant string

const (
	// PasswordReset tokens authorize setting a new password.
	PasswordReset Variant = "password_reset"
	// EmailVerification tokens prove ownership of a registered address.
	EmailVerification Variant = "email_verification"
)

var (
	// ErrNotFound: no live token matches the presented secret. Covers
	// never-issued, already-consumed, and superseded tokens alike.
	ErrNotFound = errors.New("recovery: token not found")
	// ErrExpired: the token existed but its deadline had passed. The row
	// is deleted on the way out.
	ErrExpired = errors.New("recovery: token expired")
)

// Record is a persisted recovery token. Digest is the storage and lookup
// key; the raw secret never reaches the store.
type Record struct {
	Digest    string
	UserID    string
	Variant   Variant
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenStore is the persistence boundary the manager consumes.
//
// Replace must atomically delete every prior token of (user, variant) and
// insert the new one: concurrent Replace calls for the same pair must not
// leave two live rows. Consume must atomically look up by digest and delete
// the row, returning the deleted record; a plain read followed by a
// separate delete would let two concurrent consumers both succeed, and is
// not an acceptable implementation. Both Postgres (transactional
// DELETE ... RETURNING) and Redis (WATCH/MULTI) adapters satisfy this.
type TokenStore interface {
	Replace(ctx context.Context, rec Record) error
	Consume(ctx context.Context, digest string, variant Variant) (Record, error)
	DeleteForUser(ctx context.Context, userID string, variant Variant) error
}

// Config carries the per-variant TTL policy. These are policy constants of
// the deployment, not per-call knobs.
type Config struct {
	ResetTTL        time.Duration
	VerificationTTL time.Duration
}

// DefaultConfig mirrors the product policy: reset links die after an hour,
// verification links after a day.
func DefaultConfig() Config {
	return Config{
		ResetTTL:        time.Hour,
		VerificationTTL: 24 * time.Hour,
	}
}

// Manager orchestrates token creation and single-use consumption over a
// TokenStore. Safe for concurrent use; all state lives in the store.
type Manager struct {
	store TokenStore
	ttls  Config
	now   func() time.Time
}

// NewManager builds a Manager over store with the given TTL policy.
func NewManager(store TokenStore, cfg Config) (*Manager, error) {
	if store == nil {
		return nil, errors.New("recovery: token store is required")
	}
	if cfg.ResetTTL <= 0 || cfg.VerificationTTL <= 0 {
		return nil, errors.New("recovery: token TTLs must be positive")
	}
	return &Manager{store: store, ttls: cfg, now: time.Now}, nil
}

// TTL returns the policy TTL for a variant.
func (m *Manager) TTL(variant Variant) time.Duration {
	if variant == PasswordReset {
		return m.ttls.ResetTTL
	}
	return m.ttls.VerificationTTL
}

// Create issues a new token for (userID, variant), superseding any live
// token of that variant for that user, and returns the raw secret for
// out-of-band delivery. The raw secret is not retrievable afterwards.
func (m *Manager) Create(ctx context.Context, userID string, variant Variant) (string, error) {
	raw, err := secret.Generate()
	if err != nil {
		return "", err
	}

	now := m.now()
	rec := Record{
		Digest:    secret.Digest(raw),
		UserID:    userID,
		Variant:   variant,
		ExpiresAt: now.Add(m.TTL(variant)),
		CreatedAt: now,
	}
	if err := m.store.Replace(ctx, rec); err != nil {
		return "", fmt.Errorf("recovery: replace token: %w", err)
	}
	return raw, nil
}

// Consume redeems a raw secret: exactly one concurrent caller can succeed,
// after which the token is gone. Unknown secrets return ErrNotFound; known
// but past-deadline secrets return ErrExpired (the row has already been
// removed by the atomic consume, which doubles as lazy expiry cleanup).
func (m *Manager) Consume(ctx context.Context, rawSecret string, variant Variant) (string, error) {
	if rawSecret == "" {
		return "", ErrNotFound
	}

	rec, err := m.store.Consume(ctx, secret.Digest(rawSecret), variant)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("recovery: consume token: %w", err)
	}
	if !rec.ExpiresAt.After(m.now()) {
		return "", ErrExpired
	}
	return rec.UserID, nil
}

// Revoke drops every token of the given variant for a user without issuing
// a replacement. Used by the sign-up compensation path.
func (m *Manager) Revoke(ctx context.Context, userID string, variant Variant) error {
	if err := m.store.DeleteForUser(ctx, userID, variant); err != nil {
		return fmt.Errorf("recovery: revoke tokens: %w", err)
	}
	return nil
}
