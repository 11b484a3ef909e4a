package repository

import (
	"context"

	"github.com/abelikov/gameshelf/internal/model"
)

// PrincipalRepository persists accounts and their role memberships.
type PrincipalRepository interface {
	// Create inserts a principal and its roles in one transaction.
	// A taken username yields errs.ErrAlreadyExists.
	Create(ctx context.Context, p *model.Principal) error
	// GetByUsername loads a principal with its role set.
	GetByUsername(ctx context.Context, username string) (*model.Principal, error)
	// ListRoles returns the distinct role names known to the store.
	ListRoles(ctx context.Context) ([]string, error)
}
