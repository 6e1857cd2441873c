package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/titanpomade/authcore/jwt"
	"github.com/titanpomade/authcore/permission"
)

// SignIn checks the credentials and returns a fresh token pair. Unknown
// email and wrong password are indistinguishable to the caller. A correct
// password on an unverified account fails with ErrEmailNotVerified when
// verification gating is on.
func (s *Service) SignIn(ctx context.Context, email, plaintext string) (jwt.TokenPair, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a hash check anyway so the miss costs the same as a
			// wrong password.
			s.hasher.Verify(plaintext, "")
			return jwt.TokenPair{}, ErrInvalidCredentials
		}
		return jwt.TokenPair{}, storeErr("load user", err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordDigest) {
		return jwt.TokenPair{}, ErrInvalidCredentials
	}

	if s.cfg.RequireVerified && !user.EmailVerified {
		return jwt.TokenPair{}, ErrEmailNotVerified
	}

	pair, err := s.sessions.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		return jwt.TokenPair{}, err
	}

	s.logger.InfoContext(ctx, "user signed in", "user_id", user.ID)
	return pair, nil
}

// Refresh validates a refresh token and mints a new pair from the current
// account state, so a role change or deleted account takes effect on the
// next refresh rather than at the old pair's natural expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return jwt.TokenPair{}, err
	}

	user, err := s.users.ByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return jwt.TokenPair{}, ErrTokenInvalid
		}
		return jwt.TokenPair{}, storeErr("load user", err)
	}

	return s.sessions.IssuePair(user.ID, user.Email, user.Role)
}

// Validate verifies an access token and returns its claims.
func (s *Service) Validate(accessToken string) (*jwt.Claims, error) {
	return s.validateToken(accessToken)
}

// Authorize verifies the access token and then checks that the bearer's
// role grants every one of the required permissions.
func (s *Service) Authorize(ctx context.Context, accessToken string, required ...permission.Permission) (*jwt.Claims, error) {
	claims, err := s.validateToken(accessToken)
	if err != nil {
		return nil, err
	}

	role, err := permission.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if err := s.resolver.Authorize(ctx, role, required...); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) validateToken(token string) (*jwt.Claims, error) {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return claims, nil
}
