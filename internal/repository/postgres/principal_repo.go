package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/abelikov/gameshelf/internal/errs"
	"github.com/abelikov/gameshelf/internal/model"
)

// PrincipalRepo implements PrincipalRepository using PostgreSQL.
type PrincipalRepo struct{ db *DB }

// NewPrincipalRepo constructs a principal repository.
func NewPrincipalRepo(db *DB) *PrincipalRepo { return &PrincipalRepo{db: db} }

// Create inserts the principal row and its role rows in one transaction.
// The username uniqueness constraint is the arbiter for concurrent creates:
// at most one attempt commits, the rest observe errs.ErrAlreadyExists.
func (r *PrincipalRepo) Create(ctx context.Context, p *model.Principal) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = classify(e)
		}
	}()

	const ins = `INSERT INTO principals (username, password_hash) VALUES ($1, $2)`
	if _, err = tx.Exec(ctx, ins, p.Username, p.PwdHash); err != nil {
		return classify(err)
	}
	const insRole = `INSERT INTO principal_roles (username, role) VALUES ($1, $2)`
	for _, role := range p.Roles {
		if _, err = tx.Exec(ctx, insRole, p.Username, role); err != nil {
			return classify(err)
		}
	}
	return nil
}

// GetByUsername selects a principal together with its role set.
func (r *PrincipalRepo) GetByUsername(ctx context.Context, username string) (*model.Principal, error) {
	const q = `
SELECT p.username, p.password_hash, COALESCE(array_agg(r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
FROM principals p
LEFT JOIN principal_roles r ON r.username = p.username
WHERE p.username=$1
GROUP BY p.username, p.password_hash`
	row := r.db.Pool.QueryRow(ctx, q, username)
	var p model.Principal
	if err := row.Scan(&p.Username, &p.PwdHash, &p.Roles); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, classify(err)
	}
	return &p, nil
}

// ListRoles returns the distinct role names registered across all principals.
func (r *PrincipalRepo) ListRoles(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT role FROM principal_roles ORDER BY role`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, classify(err)
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}
