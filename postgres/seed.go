package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/titanpomade/authcore/permission"
)

// SeedGrants creates the role_permissions table if needed and fills it
// with the static grant set. Existing rows are left alone, so operators
// can edit grants after the first run without the seed undoing them.
func SeedGrants(ctx context.Context, db *sql.DB) error {
	err := WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS role_permissions (
				role       TEXT NOT NULL,
				permission TEXT NOT NULL,
				PRIMARY KEY (role, permission)
			)`)
		if err != nil {
			return err
		}

		for _, role := range []permission.Role{permission.RoleUser, permission.RoleAdmin} {
			for _, p := range permission.StaticGrants(role) {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO role_permissions (role, permission)
					VALUES ($1, $2)
					ON CONFLICT (role, permission) DO NOTHING`,
					string(role), string(p))
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("postgres: seed grants: %w", err)
	}
	return nil
}
