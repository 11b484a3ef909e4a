package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/abelikov/gameshelf/internal/errs"
	"github.com/abelikov/gameshelf/internal/model"
	"github.com/abelikov/gameshelf/internal/repository"
)

// CatalogService exposes the game catalog and its reviews. Games are
// append-only; reviews support the full edit/delete lifecycle.
type CatalogService interface {
	// ListGames returns all cataloged games.
	ListGames(ctx context.Context) ([]model.Game, error)
	// GetGame returns one game by id.
	GetGame(ctx context.Context, id int64) (*model.Game, error)
	// AddGame inserts a game and returns the generated id.
	AddGame(ctx context.Context, g *model.Game) (int64, error)
	// ListReviews returns a game's reviews; errs.ErrNotFound when it has none.
	ListReviews(ctx context.Context, gameID int64) ([]model.Review, error)
	// GetReview returns one review by id.
	GetReview(ctx context.Context, id int64) (*model.Review, error)
	// AddReview inserts a review and returns the generated id.
	AddReview(ctx context.Context, rv *model.Review) (int64, error)
	// EditReview replaces a review body; 0 affected rows means no such id.
	EditReview(ctx context.Context, id int64, text string) (int64, error)
	// DeleteReview removes a review, returning the owning game id first
	// so the caller can redirect to the game's review page.
	DeleteReview(ctx context.Context, id int64) (gameID int64, affected int64, err error)
}

type CatalogServiceImpl struct {
	games   repository.GameRepository
	reviews repository.ReviewRepository
}

// NewCatalogService constructs CatalogService over the two repositories.
func NewCatalogService(games repository.GameRepository, reviews repository.ReviewRepository) *CatalogServiceImpl {
	return &CatalogServiceImpl{games: games, reviews: reviews}
}

// ListGames returns every game in the catalog.
func (s *CatalogServiceImpl) ListGames(ctx context.Context) ([]model.Game, error) {
	return s.games.List(ctx)
}

// GetGame fetches a single game.
func (s *CatalogServiceImpl) GetGame(ctx context.Context, id int64) (*model.Game, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: game id %d", errs.ErrInvalidInput, id)
	}
	return s.games.Get(ctx, id)
}

// AddGame validates and inserts a new game. A name collision surfaces as
// errs.ErrAlreadyExists so callers can answer with a conflict.
func (s *CatalogServiceImpl) AddGame(ctx context.Context, g *model.Game) (int64, error) {
	if strings.TrimSpace(g.Name) == "" {
		return 0, fmt.Errorf("%w: empty game name", errs.ErrInvalidInput)
	}
	if g.MinPlayers <= 0 {
		return 0, fmt.Errorf("%w: min players %d", errs.ErrInvalidInput, g.MinPlayers)
	}
	if g.MaxPlayers < g.MinPlayers {
		return 0, fmt.Errorf("%w: max players %d < min players %d", errs.ErrInvalidInput, g.MaxPlayers, g.MinPlayers)
	}
	return s.games.Create(ctx, g)
}

// ListReviews fetches all reviews of a game.
func (s *CatalogServiceImpl) ListReviews(ctx context.Context, gameID int64) ([]model.Review, error) {
	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game id %d", errs.ErrInvalidInput, gameID)
	}
	return s.reviews.ListForGame(ctx, gameID)
}

// GetReview fetches a single review.
func (s *CatalogServiceImpl) GetReview(ctx context.Context, id int64) (*model.Review, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: review id %d", errs.ErrInvalidInput, id)
	}
	return s.reviews.Get(ctx, id)
}

// AddReview validates and inserts a review against an existing game. A
// dangling game reference surfaces as errs.ErrConstraint from the repo.
func (s *CatalogServiceImpl) AddReview(ctx context.Context, rv *model.Review) (int64, error) {
	if rv.GameID <= 0 {
		return 0, fmt.Errorf("%w: game id %d", errs.ErrInvalidInput, rv.GameID)
	}
	if strings.TrimSpace(rv.Text) == "" {
		return 0, fmt.Errorf("%w: empty review text", errs.ErrInvalidInput)
	}
	return s.reviews.Create(ctx, rv)
}

// EditReview updates the body in place. A zero row count reports a missing
// id; callers treat that as a no-op.
func (s *CatalogServiceImpl) EditReview(ctx context.Context, id int64, text string) (int64, error) {
	if id <= 0 {
		return 0, fmt.Errorf("%w: review id %d", errs.ErrInvalidInput, id)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: empty review text", errs.ErrInvalidInput)
	}
	return s.reviews.UpdateText(ctx, id, text)
}

// DeleteReview resolves the owning game id before the delete executes, so
// the caller still knows where to redirect once the row is gone.
func (s *CatalogServiceImpl) DeleteReview(ctx context.Context, id int64) (int64, int64, error) {
	if id <= 0 {
		return 0, 0, fmt.Errorf("%w: review id %d", errs.ErrInvalidInput, id)
	}
	rv, err := s.reviews.Get(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	affected, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	return rv.GameID, affected, nil
}
