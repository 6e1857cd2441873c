// Package jwt mints and validates the self-contained session tokens used by
// the authentication service. Two tokens are issued per authentication: a
// short-lived access token and a longer-lived refresh token carrying the
// same claim triple {subject id, email, role} and differing only in expiry.
//
// Tokens are signed with an HS256 shared secret. There is no server-side
// revocation list; a token is valid until its natural expiry.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/titanpomade/authcore/permission"
)

var (
	// ErrInvalidToken covers signature and parse failures.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrExpiredToken is returned for a well-formed token past its expiry.
	ErrExpiredToken = errors.New("jwt: token expired")
	// ErrMissingClaims is returned when a structurally valid token lacks
	// the subject id, email, or role claim. Absence is a hard failure,
	// never defaulted.
	ErrMissingClaims = errors.New("jwt: required claims missing")
)

// Claims is the payload embedded in both access and refresh tokens.
// The subject id travels in the registered "sub" claim.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject id carried by the claim set.
func (c *Claims) UserID() string { return c.Subject }

// TokenPair bundles the two tokens minted per successful authentication.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Config for a Manager. Secret must be non-empty; TTLs must be positive.
type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Leeway     time.Duration
}

// Manager issues and validates session tokens. Safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt: signing secret is required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("jwt: token TTLs must be positive")
	}
	if cfg.RefreshTTL < cfg.AccessTTL {
		return nil, errors.New("jwt: refresh TTL must not be shorter than access TTL")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("jwt: invalid leeway")
	}
	return &Manager{config: cfg}, nil
}

// IssuePair mints an access and a refresh token bound to the given claim
// triple. Refresh is a pure re-issue: callers refresh by minting a new pair
// from the claims of a validated refresh token.
func (m *Manager) IssuePair(userID, email string, role permission.Role) (TokenPair, error) {
	access, err := m.sign(userID, email, role, m.config.AccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("jwt: sign access token: %w", err)
	}
	refresh, err := m.sign(userID, email, role, m.config.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("jwt: sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) sign(userID, email string, role permission.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// Validate verifies signature and expiry and enforces the claim-set
// invariant: subject id, email, and role must all be present. Any violation
// is reported as an invalid token; claims are never defaulted.
func (m *Manager) Validate(token string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" || claims.Role == "" {
		return nil, ErrMissingClaims
	}
	if _, err := permission.ParseRole(claims.Role); err != nil {
		return nil, ErrMissingClaims
	}
	return claims, nil
}
