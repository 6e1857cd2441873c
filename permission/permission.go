// Package permission resolves whether a role satisfies a required set of
// permissions. Grants come from a dynamic store when one is available and
// non-empty; otherwise a compile-time static table answers. The two sources
// are never merged: dynamic data, when present, fully replaces the static
// table for that decision.
package permission

import (
	"errors"
	"fmt"
)

// Role is the closed enumeration classifying a user's authority level.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a stored or claimed role string onto the closed enumeration.
// Anything outside the enumeration is an error, not a default.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("permission: unknown role %q", s)
}

// Permission is a named capability gate checked per protected request.
type Permission string

const (
	ViewDashboard  Permission = "VIEW_DASHBOARD"
	ManageUsers    Permission = "MANAGE_USERS"
	ManageProducts Permission = "MANAGE_PRODUCTS"
	ManageOrders   Permission = "MANAGE_ORDERS"
)

var (
	// ErrNoRole is returned when the caller's claim set carries no role.
	// This is a permission denial, not a crash.
	ErrNoRole = errors.New("permission: no role on request")
	// ErrDenied is returned when the resolved grant set does not contain
	// every required permission.
	ErrDenied = errors.New("permission: denied")
)

// staticGrants is the compile-time fallback table. Read-only shared state,
// safe for unsynchronized concurrent reads.
var staticGrants = map[Role][]Permission{
	RoleUser: {ViewDashboard},
	RoleAdmin: {
		ViewDashboard,
		ManageUsers,
		ManageProducts,
		ManageOrders,
	},
}

// StaticGrants returns a copy of the fallback grant list for role.
func StaticGrants(role Role) []Permission {
	grants := staticGrants[role]
	out := make([]Permission, len(grants))
	copy(out, grants)
	return out
}
