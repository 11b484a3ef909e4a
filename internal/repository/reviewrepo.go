package repository

import (
	"context"

	"github.com/abelikov/gameshelf/internal/model"
)

// ReviewRepository provides CRUD access to game reviews.
type ReviewRepository interface {
	// ListForGame returns all reviews of a game; errs.ErrNotFound when there are none.
	ListForGame(ctx context.Context, gameID int64) ([]model.Review, error)
	// Get loads a review by id.
	Get(ctx context.Context, id int64) (*model.Review, error)
	// Create inserts a review and returns the storage-generated id.
	Create(ctx context.Context, rv *model.Review) (int64, error)
	// UpdateText replaces the review body and returns the affected row count.
	UpdateText(ctx context.Context, id int64, text string) (int64, error)
	// Delete removes a review and returns the affected row count.
	Delete(ctx context.Context, id int64) (int64, error)
}
