package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/titanpomade/authcore/permission"
)

const pgUndefinedTable = "42P01"

// GrantStore reads role grants from the role_permissions table. The table
// is operator managed and may not exist; in that case GrantsForRole
// reports no dynamic data so callers fall back to the static grants.
type GrantStore struct {
	db DBTX
}

// NewGrantStore binds a GrantStore to the given DBTX.
func NewGrantStore(db DBTX) *GrantStore {
	return &GrantStore{db: db}
}

// GrantsForRole returns the permissions stored for role, or nil when the
// table holds no rows for it.
func (s *GrantStore) GrantsForRole(ctx context.Context, role permission.Role) ([]permission.Permission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT permission FROM role_permissions WHERE role = $1`, string(role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: grants for role: %w", err)
	}
	defer rows.Close()

	var perms []permission.Permission
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("postgres: scan grant: %w", err)
		}
		perms = append(perms, permission.Permission(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: grants for role: %w", err)
	}
	return perms, nil
}
