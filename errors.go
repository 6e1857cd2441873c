package authcore

import "errors"

// Failure taxonomy. Handlers map these onto transport status codes; the
// messages in messages.go are the only text that reaches a caller.
var (
	// ErrValidation: malformed input, rejected before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail: the email is already registered, regardless of
	// whether that account is verified yet.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailNotVerified: the credentials were correct but the account
	// has not consumed its verification token yet. Distinct from
	// ErrInvalidCredentials by design.
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrTokenInvalid: a session or recovery token that does not verify,
	// is unknown, was already consumed, or lacks required claims.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired: a recovery token whose deadline passed before it
	// was consumed.
	ErrTokenExpired = errors.New("token expired")

	// ErrUserNotFound is a store-level miss. The orchestrator translates
	// it before it can reach a caller.
	ErrUserNotFound = errors.New("user not found")

	// ErrMailDelivery: the mail collaborator failed on a send the flow
	// cannot proceed without. Retryable.
	ErrMailDelivery = errors.New("email delivery failed")

	// ErrStore: the credential store was unreachable or misbehaved.
	ErrStore = errors.New("credential store unavailable")
)
