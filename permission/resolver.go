package permission

import (
	"context"
	"log/slog"
)

// GrantSource loads the permissions dynamically granted to a role. A store
// that has no grant table yet should return an error (it is handled as an
// expected condition, not a fault); an empty slice means "no dynamic data"
// and also triggers the static fallback.
type GrantSource interface {
	GrantsForRole(ctx context.Context, role Role) ([]Permission, error)
}

// Resolver answers authorization checks with the dynamic-then-static
// two-tier lookup. The zero source is allowed: a Resolver constructed with a
// nil GrantSource always answers from the static table.
type Resolver struct {
	source GrantSource
	logger *slog.Logger
}

// NewResolver builds a Resolver over an optional dynamic grant source.
func NewResolver(source GrantSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{source: source, logger: logger}
}

// Authorize reports whether role holds every permission in required.
// An empty role is ErrNoRole; an unsatisfied set is ErrDenied. A failing or
// empty dynamic lookup degrades to the static table rather than erroring:
// authorization keeps working when the grant store is unreachable.
func (r *Resolver) Authorize(ctx context.Context, role Role, required ...Permission) error {
	if role == "" {
		return ErrNoRole
	}
	if _, err := ParseRole(string(role)); err != nil {
		return ErrNoRole
	}

	granted := r.resolve(ctx, role)
	for _, want := range required {
		if _, ok := granted[want]; !ok {
			return ErrDenied
		}
	}
	return nil
}

// resolve returns the effective grant set for role. Dynamic data, when
// present and non-empty, fully replaces the static table; the two sources
// are never merged.
func (r *Resolver) resolve(ctx context.Context, role Role) map[Permission]struct{} {
	if r.source != nil {
		grants, err := r.source.GrantsForRole(ctx, role)
		if err != nil {
			r.logger.WarnContext(ctx, "dynamic grant lookup failed, using static table",
				"role", string(role), "error", err)
		} else if len(grants) > 0 {
			return toSet(grants)
		}
	}
	return toSet(staticGrants[role])
}

func toSet(grants []Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(grants))
	for _, g := range grants {
		set[g] = struct{}{}
	}
	return set
}
