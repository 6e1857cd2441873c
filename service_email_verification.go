package authcore

import (
	"context"
	"errors"

	"github.com/titanpomade/authcore/recovery"
)

// VerifyEmail consumes a verification token and marks the account
// verified. Verifying an already-verified account through a still-live
// token is harmless and succeeds.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.consumeRecovery(ctx, token, recovery.EmailVerification)
	if err != nil {
		return err
	}

	if err := s.users.SetEmailVerified(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrTokenInvalid
		}
		return storeErr("set verified", err)
	}

	s.logger.InfoContext(ctx, "email verified", "user_id", userID)
	return nil
}

// ResendVerification issues a fresh verification link. Like
// ForgotPassword it answers the same for unknown addresses and for
// accounts that are already verified, so it leaks nothing.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.InfoContext(ctx, "verification resend requested for unknown email")
			return nil
		}
		return storeErr("load user", err)
	}
	if user.EmailVerified {
		return nil
	}

	return s.sendVerification(ctx, user)
}
