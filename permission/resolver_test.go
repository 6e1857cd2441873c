package permission

import (
	"context"
	"errors"
	"testing"
)

type fakeSource struct {
	grants map[Role][]Permission
	err    error
	calls  int
}

func (f *fakeSource) GrantsForRole(_ context.Context, role Role) ([]Permission, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.grants[role], nil
}

func TestAuthorizeStaticFallbackTable(t *testing.T) {
	r := NewResolver(nil, nil)
	ctx := context.Background()

	if err := r.Authorize(ctx, RoleAdmin, ManageUsers, ViewDashboard); err != nil {
		t.Fatalf("admin should hold MANAGE_USERS+VIEW_DASHBOARD: %v", err)
	}
	if err := r.Authorize(ctx, RoleUser, ManageUsers, ViewDashboard); !errors.Is(err, ErrDenied) {
		t.Fatalf("user must be denied MANAGE_USERS, got %v", err)
	}
	if err := r.Authorize(ctx, RoleUser, ViewDashboard); err != nil {
		t.Fatalf("user should hold VIEW_DASHBOARD: %v", err)
	}
}

func TestAuthorizeRequiresEveryPermission(t *testing.T) {
	r := NewResolver(nil, nil)

	// ALL-of, not ANY-of: one granted permission in the set is not enough.
	err := r.Authorize(context.Background(), RoleUser, ViewDashboard, ManageOrders)
	if !errors.Is(err, ErrDenied) {
		t.Fatalf("partial match must deny, got %v", err)
	}
}

func TestAuthorizeEmptyRequiredAllows(t *testing.T) {
	r := NewResolver(nil, nil)
	if err := r.Authorize(context.Background(), RoleUser); err != nil {
		t.Fatalf("empty requirement should allow: %v", err)
	}
}

func TestAuthorizeMissingRole(t *testing.T) {
	r := NewResolver(nil, nil)

	if err := r.Authorize(context.Background(), "", ViewDashboard); !errors.Is(err, ErrNoRole) {
		t.Fatalf("missing role must be ErrNoRole, got %v", err)
	}
	if err := r.Authorize(context.Background(), "SUPERUSER", ViewDashboard); !errors.Is(err, ErrNoRole) {
		t.Fatalf("unknown role must be ErrNoRole, got %v", err)
	}
}

func TestAuthorizeDynamicReplacesStatic(t *testing.T) {
	// Dynamic data narrows USER down to nothing and widens it elsewhere;
	// no merging with the static table may occur.
	src := &fakeSource{grants: map[Role][]Permission{
		RoleUser: {ManageOrders},
	}}
	r := NewResolver(src, nil)
	ctx := context.Background()

	if err := r.Authorize(ctx, RoleUser, ManageOrders); err != nil {
		t.Fatalf("dynamic grant should allow: %v", err)
	}
	if err := r.Authorize(ctx, RoleUser, ViewDashboard); !errors.Is(err, ErrDenied) {
		t.Fatalf("static grant must not leak through when dynamic data exists, got %v", err)
	}
}

func TestAuthorizeDynamicErrorFallsBack(t *testing.T) {
	src := &fakeSource{err: errors.New("relation does not exist")}
	r := NewResolver(src, nil)

	if err := r.Authorize(context.Background(), RoleAdmin, ManageProducts); err != nil {
		t.Fatalf("store failure must degrade to static table: %v", err)
	}
	if src.calls == 0 {
		t.Fatal("dynamic source was never consulted")
	}
}

func TestAuthorizeDynamicEmptyFallsBack(t *testing.T) {
	src := &fakeSource{grants: map[Role][]Permission{}}
	r := NewResolver(src, nil)

	if err := r.Authorize(context.Background(), RoleUser, ViewDashboard); err != nil {
		t.Fatalf("empty dynamic set must degrade to static table: %v", err)
	}
}

func TestParseRole(t *testing.T) {
	if _, err := ParseRole("USER"); err != nil {
		t.Fatalf("USER: %v", err)
	}
	if _, err := ParseRole("ADMIN"); err != nil {
		t.Fatalf("ADMIN: %v", err)
	}
	for _, bad := range []string{"", "user", "Admin", "ROOT"} {
		if _, err := ParseRole(bad); err == nil {
			t.Fatalf("ParseRole(%q) accepted", bad)
		}
	}
}

func TestStaticGrantsReturnsCopy(t *testing.T) {
	grants := StaticGrants(RoleUser)
	if len(grants) != 1 || grants[0] != ViewDashboard {
		t.Fatalf("unexpected USER grants: %v", grants)
	}
	grants[0] = ManageUsers
	if StaticGrants(RoleUser)[0] != ViewDashboard {
		t.Fatal("StaticGrants must hand out a copy")
	}
}
