// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/abelikov/gameshelf/internal/model"
)

// GameRepository provides read and append access to the game catalog.
// The catalog is append-only: games are never updated or deleted.
type GameRepository interface {
	// List returns all games in storage order.
	List(ctx context.Context) ([]model.Game, error)
	// Get loads a game by id.
	Get(ctx context.Context, id int64) (*model.Game, error)
	// Create inserts a game and returns the storage-generated id.
	Create(ctx context.Context, g *model.Game) (int64, error)
}
