package authcore

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/titanpomade/authcore/jwt"
	"github.com/titanpomade/authcore/password"
	"github.com/titanpomade/authcore/permission"
	"github.com/titanpomade/authcore/recovery"
)

// Password length floors. Sign-up accepts the weaker floor for
// compatibility; reset and change enforce the stronger one.
const (
	minSignUpPasswordLen = 6
	minResetPasswordLen  = 8
)

// Service is the authentication orchestrator. It owns no algorithm of its
// own: it sequences the hasher, token managers, stores, and mailer into
// the account flows and maps collaborator failures onto the package error
// taxonomy.
type Service struct {
	cfg      Config
	users    UserStore
	tokens   *recovery.Manager
	hasher   *password.Hasher
	sessions *jwt.Manager
	resolver *permission.Resolver
	mailer   Mailer
	logger   *slog.Logger
}

// Dependencies collects the collaborators a Service needs. All fields
// except Logger are required.
type Dependencies struct {
	Users    UserStore
	Tokens   *recovery.Manager
	Hasher   *password.Hasher
	Sessions *jwt.Manager
	Resolver *permission.Resolver
	Mailer   Mailer
	Logger   *slog.Logger
}

// New validates cfg and deps and returns a ready Service.
func New(cfg Config, deps Dependencies) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case deps.Users == nil:
		return nil, errors.New("authcore: user store is required")
	case deps.Tokens == nil:
		return nil, errors.New("authcore: recovery token manager is required")
	case deps.Hasher == nil:
		return nil, errors.New("authcore: password hasher is required")
	case deps.Sessions == nil:
		return nil, errors.New("authcore: session token manager is required")
	case deps.Resolver == nil:
		return nil, errors.New("authcore: permission resolver is required")
	case deps.Mailer == nil:
		return nil, errors.New("authcore: mailer is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:      cfg,
		users:    deps.Users,
		tokens:   deps.Tokens,
		hasher:   deps.Hasher,
		sessions: deps.Sessions,
		resolver: deps.Resolver,
		mailer:   deps.Mailer,
		logger:   logger,
	}, nil
}

// storeErr wraps unexpected store failures so they surface as ErrStore
// while keeping the cause in the chain.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
