package authcore

import (
	"context"
	"errors"
	"testing"

	"github.com/titanpomade/authcore/mail"
	"github.com/titanpomade/authcore/recovery"
)

func TestForgotPasswordSendsResetLink(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	user := signUpAndVerify(t, env, "ada@example.com", "secret-1")

	if err := env.svc.ForgotPassword(ctx, "ada@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	m := env.mailer.last(t)
	if m.Template != mail.TemplatePasswordReset {
		t.Fatalf("unexpected template: %s", m.Template)
	}
	if env.tokens.count(user.ID, recovery.PasswordReset) != 1 {
		t.Fatal("reset token not stored")
	}
}

func TestForgotPasswordNeutralForUnknownEmail(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	// Same nil result as for a registered address, and no token row.
	if err := env.svc.ForgotPassword(ctx, "ghost@example.com"); err != nil {
		t.Fatalf("unknown email must be neutral, got %v", err)
	}
	if len(env.mailer.sent) != 0 {
		t.Fatal("no mail may be sent for an unknown email")
	}
	if len(env.tokens.recs) != 0 {
		t.Fatal("no token may be created for an unknown email")
	}
}

func TestForgotPasswordStaysNeutralOnMailFailure(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	user := signUpAndVerify(t, env, "ada@example.com", "secret-1")
	env.mailer.sendErr = errBoom

	// Delivery failure is logged and swallowed so the response cannot be
	// used to probe which addresses exist.
	if err := env.svc.ForgotPassword(ctx, "ada@example.com"); err != nil {
		t.Fatalf("mail failure must stay neutral, got %v", err)
	}
	if env.tokens.count(user.ID, recovery.PasswordReset) != 0 {
		t.Fatal("orphaned reset token left behind")
	}
}

func TestResetPasswordRoundTrip(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	signUpAndVerify(t, env, "ada@example.com", "secret-1")
	if err := env.svc.ForgotPassword(ctx, "ada@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	token := tokenFromMail(t, env.mailer.last(t))

	if err := env.svc.ResetPassword(ctx, token, "brand-new-1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := env.svc.SignIn(ctx, "ada@example.com", "secret-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := env.svc.SignIn(ctx, "ada@example.com", "brand-new-1"); err != nil {
		t.Fatalf("new password must work: %v", err)
	}
}

func TestResetPasswordTokenIsSingleUse(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	signUpAndVerify(t, env, "ada@example.com", "secret-1")
	if err := env.svc.ForgotPassword(ctx, "ada@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	token := tokenFromMail(t, env.mailer.last(t))

	if err := env.svc.ResetPassword(ctx, token, "brand-new-1"); err != nil {
		t.Fatalf("first reset: %v", err)
	}
	if err := env.svc.ResetPassword(ctx, token, "another-one-1"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("second reset: want ErrTokenInvalid, got %v", err)
	}
}

func TestResetPasswordRejections(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	if err := env.svc.ResetPassword(ctx, "whatever", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password: want ErrValidation, got %v", err)
	}
	if err := env.svc.ResetPassword(ctx, "unknown-token", "long-enough-1"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("unknown token: want ErrTokenInvalid, got %v", err)
	}

	env.users.updateErr = errBoom
	signUpAndVerify(t, env, "mallory@example.com", "secret-1")
	if err := env.svc.ForgotPassword(ctx, "mallory@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	tok := tokenFromMail(t, env.mailer.last(t))
	if err := env.svc.ResetPassword(ctx, tok, "long-enough-1"); !errors.Is(err, ErrStore) {
		t.Fatalf("store failure: want ErrStore, got %v", err)
	}
	env.users.updateErr = nil

	// A verification token must not reset a password.
	if _, err := env.svc.SignUp(ctx, SignUpInput{Email: "eve@example.com", Name: "Ada", Password: "secret-1"}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	verifyToken := tokenFromMail(t, env.mailer.last(t))
	if err := env.svc.ResetPassword(ctx, verifyToken, "long-enough-1"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("cross-variant token: want ErrTokenInvalid, got %v", err)
	}
	// And the verification token must have survived the attempt.
	if err := env.svc.VerifyEmail(ctx, verifyToken); err != nil {
		t.Fatalf("verification token must survive cross-variant misuse: %v", err)
	}
}

func TestForgotPasswordSupersedesEarlierToken(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	signUpAndVerify(t, env, "ada@example.com", "secret-1")

	if err := env.svc.ForgotPassword(ctx, "ada@example.com"); err != nil {
		t.Fatalf("first ForgotPassword: %v", err)
	}
	first := tokenFromMail(t, env.mailer.last(t))

	if err := env.svc.ForgotPassword(ctx, "ada@example.com"); err != nil {
		t.Fatalf("second ForgotPassword: %v", err)
	}
	second := tokenFromMail(t, env.mailer.last(t))

	if err := env.svc.ResetPassword(ctx, first, "brand-new-1"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("superseded token: want ErrTokenInvalid, got %v", err)
	}
	if err := env.svc.ResetPassword(ctx, second, "brand-new-1"); err != nil {
		t.Fatalf("current token: %v", err)
	}
}
