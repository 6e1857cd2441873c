package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/titanpomade/authcore/mail"
	"github.com/titanpomade/authcore/recovery"
)

// ForgotPassword starts a password reset. The response is identical for
// registered and unregistered addresses; only a registered one gets a
// token and a mail. Supersedes any earlier reset token for the account.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return storeErr("load user", err)
	}

	token, err := s.tokens.Create(ctx, user.ID, recovery.PasswordReset)
	if err != nil {
		return storeErr("create reset token", err)
	}

	err = s.mailer.SendEmail(ctx, user.Email, "Reset your password",
		mail.TemplatePasswordReset, map[string]string{
			"name":      user.Name,
			"appName":   s.cfg.AppName,
			"actionUrl": s.cfg.ResetURL(token),
		})
	if err != nil {
		// The response stays neutral even when delivery fails, so a
		// caller cannot use mail errors to probe which addresses exist.
		// Without the mail the raw token is unreachable; drop the row.
		s.logger.ErrorContext(ctx, "reset mail failed", "user_id", user.ID, "error", err)
		if revErr := s.tokens.Revoke(ctx, user.ID, recovery.PasswordReset); revErr != nil {
			s.logger.ErrorContext(ctx, "reset token cleanup failed",
				"user_id", user.ID, "error", revErr)
		}
	}

	s.logger.InfoContext(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset token and installs the new password.
// The token is single use: a second call with the same token fails even
// if the first one failed after consumption.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minResetPasswordLen {
		return fmt.Errorf("%w: password too short", ErrValidation)
	}

	userID, err := s.consumeRecovery(ctx, token, recovery.PasswordReset)
	if err != nil {
		return err
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordDigest(ctx, userID, digest); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrTokenInvalid
		}
		return storeErr("update password", err)
	}

	s.logger.InfoContext(ctx, "password reset completed", "user_id", userID)
	return nil
}

// consumeRecovery maps the recovery taxonomy onto the service one and
// returns the owning user id.
func (s *Service) consumeRecovery(ctx context.Context, token string, variant recovery.Variant) (string, error) {
	userID, err := s.tokens.Consume(ctx, token, variant)
	if err != nil {
		switch {
		case errors.Is(err, recovery.ErrNotFound):
			return "", ErrTokenInvalid
		case errors.Is(err, recovery.ErrExpired):
			return "", ErrTokenExpired
		default:
			return "", storeErr("consume token", err)
		}
	}
	return userID, nil
}
