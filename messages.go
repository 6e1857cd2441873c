package authcore

// Caller-facing messages returned by flows that deliberately reveal
// nothing about account existence. They are part of the API: handlers
// pass them through verbatim.
const (
	// MsgRegistered is returned on sign-up, before the email is verified.
	MsgRegistered = "Registration successful. Please check your email to verify your account."

	// MsgRecoveryRequested is returned by ForgotPassword and
	// ResendVerification whether or not the email is registered.
	MsgRecoveryRequested = "If the email is registered, a message has been sent with further instructions."

	// MsgPasswordReset confirms a completed password reset.
	MsgPasswordReset = "Password has been reset. You can now sign in with your new password."

	// MsgEmailVerified confirms a consumed verification token.
	MsgEmailVerified = "Email verified. You can now sign in."
)
