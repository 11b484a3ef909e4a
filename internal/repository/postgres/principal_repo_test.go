package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/abelikov/gameshelf/internal/errs"
	"github.com/abelikov/gameshelf/internal/model"
)

func TestPrincipalRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPrincipalRepo(db)
	ctx := context.Background()
	p := &model.Principal{Username: "bugs", PwdHash: []byte("h"), Roles: []string{"USER", "MANAGER"}}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO principals \(username, password_hash\) VALUES \(\$1, \$2\)`).
		WithArgs(p.Username, p.PwdHash).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO principal_roles \(username, role\) VALUES \(\$1, \$2\)`).
		WithArgs(p.Username, "USER").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO principal_roles \(username, role\) VALUES \(\$1, \$2\)`).
		WithArgs(p.Username, "MANAGER").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, r.Create(ctx, p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepo_Create_DuplicateUsernameRollsBack(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPrincipalRepo(db)
	ctx := context.Background()
	p := &model.Principal{Username: "bugs", PwdHash: []byte("h"), Roles: []string{"USER"}}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO principals \(username, password_hash\) VALUES \(\$1, \$2\)`).
		WithArgs(p.Username, p.PwdHash).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "principals_pkey"})
	mock.ExpectRollback()

	err := r.Create(ctx, p)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepo_GetByUsername(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPrincipalRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`FROM principals p LEFT JOIN principal_roles r ON r\.username = p\.username`).
		WithArgs("bugs").
		WillReturnRows(pgxmock.NewRows([]string{"username", "password_hash", "roles"}).
			AddRow("bugs", []byte("h"), []string{"USER"}))
	p, err := r.GetByUsername(ctx, "bugs")
	require.NoError(t, err)
	require.Equal(t, "bugs", p.Username)
	require.Equal(t, []string{"USER"}, p.Roles)

	mock.ExpectQuery(`FROM principals p LEFT JOIN principal_roles r ON r\.username = p\.username`).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPrincipalRepo_ListRoles(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPrincipalRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT DISTINCT role FROM principal_roles ORDER BY role`).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("MANAGER").AddRow("USER"))
	roles, err := r.ListRoles(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"MANAGER", "USER"}, roles)
}
