package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/titanpomade/authcore/permission"
)

func TestSeedGrants(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS role_permissions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	total := 0
	for _, role := range []permission.Role{permission.RoleUser, permission.RoleAdmin} {
		total += len(permission.StaticGrants(role))
	}
	for i := 0; i < total; i++ {
		mock.ExpectExec("INSERT INTO role_permissions").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	if err := SeedGrants(context.Background(), db); err != nil {
		t.Fatalf("SeedGrants error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
