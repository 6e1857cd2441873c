package authcore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/titanpomade/authcore/mail"
	"github.com/titanpomade/authcore/permission"
	"github.com/titanpomade/authcore/recovery"
)

// SignUpInput is the input to SignUp. Role defaults to USER when empty.
type SignUpInput struct {
	Email    string
	Name     string
	Password string
	Role     permission.Role
}

// SignUp registers a new account, leaves it unverified, and emails a
// verification link. When the verification mail cannot be delivered the
// account is removed again, so the signup can simply be retried: a
// half-registered account that can never verify would otherwise squat on
// the email address.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(in.Password) < minSignUpPasswordLen {
		return User{}, fmt.Errorf("%w: password too short", ErrValidation)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = permission.RoleUser
	}
	if _, err := permission.ParseRole(string(role)); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	user, err := s.users.Create(ctx, NewUser{
		Email:          email,
		Name:           name,
		PasswordDigest: digest,
		Role:           role,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, storeErr("create user", err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		// Roll the registration back so the address is not stuck on an
		// account that never received its verification link.
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "signup rollback failed",
				"user_id", user.ID, "error", delErr)
		}
		if revErr := s.tokens.Revoke(ctx, user.ID, recovery.EmailVerification); revErr != nil {
			s.logger.ErrorContext(ctx, "signup token cleanup failed",
				"user_id", user.ID, "error", revErr)
		}
		return User{}, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// ChangePassword replaces the password of an authenticated user after
// re-checking the current one. The new password must meet the stronger
// length floor and differ from the current password.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minResetPasswordLen {
		return fmt.Errorf("%w: new password too short", ErrValidation)
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return storeErr("load user", err)
	}

	if !s.hasher.Verify(currentPassword, user.PasswordDigest) {
		return ErrInvalidCredentials
	}
	if s.hasher.Verify(newPassword, user.PasswordDigest) {
		return fmt.Errorf("%w: new password must differ from the current one", ErrValidation)
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordDigest(ctx, user.ID, digest); err != nil {
		return storeErr("update password", err)
	}

	s.logger.InfoContext(ctx, "password changed", "user_id", user.ID)
	return nil
}

// sendVerification issues a fresh verification token for the user and
// mails the link. Any previous verification token is superseded.
func (s *Service) sendVerification(ctx context.Context, user User) error {
	token, err := s.tokens.Create(ctx, user.ID, recovery.EmailVerification)
	if err != nil {
		return storeErr("create verification token", err)
	}

	err = s.mailer.SendEmail(ctx, user.Email, "Verify your email address",
		mail.TemplateEmailVerification, map[string]string{
			"name":      user.Name,
			"appName":   s.cfg.AppName,
			"actionUrl": s.cfg.VerifyURL(token),
		})
	if err != nil {
		s.logger.ErrorContext(ctx, "verification mail failed",
			"user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}
