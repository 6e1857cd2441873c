package authcore

import (
	"context"
	"time"

	"github.com/titanpomade/authcore/permission"
)

// User is the identity record the core reads and writes through the store
// adapter. The email is a case-sensitive equality key and unique across the
// store. A freshly created account is unverified until a verification token
// is consumed.
type User struct {
	ID             string
	Email          string
	Name           string
	PasswordDigest string
	Role           permission.Role
	EmailVerified  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser is the input to UserStore.Create. The store assigns ID and
// timestamps.
type NewUser struct {
	Email          string
	Name           string
	PasswordDigest string
	Role           permission.Role
}

// UserStore is the credential-store boundary the orchestrator consumes.
// Implementations are owned by the persistence layer; the contract here is
// typed per entity rather than a generic table-name CRUD surface.
//
// Create returns ErrDuplicateEmail when the email is already registered.
// ByEmail and ByID return ErrUserNotFound on a miss. All methods honor ctx
// cancellation; none may be assumed to complete synchronously.
type UserStore interface {
	Create(ctx context.Context, u NewUser) (User, error)
	ByEmail(ctx context.Context, email string) (User, error)
	ByID(ctx context.Context, id string) (User, error)
	UpdatePasswordDigest(ctx context.Context, id, digest string) error
	SetEmailVerified(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Mailer is the email-delivery collaborator. templateName selects the
// message body; data carries template values such as resetUrl or
// verificationUrl. Delivery failures surface as errors; the orchestrator
// decides per flow whether a failure is fatal or swallowed.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, templateName string, data map[string]string) error
}
