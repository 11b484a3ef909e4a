package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/abelikov/gameshelf/internal/errs"
	"github.com/abelikov/gameshelf/internal/model"
)

// GameRepo implements GameRepository using PostgreSQL.
type GameRepo struct{ db *DB }

// NewGameRepo constructs a game repository.
func NewGameRepo(db *DB) *GameRepo { return &GameRepo{db: db} }

// List returns every game in the catalog.
func (r *GameRepo) List(ctx context.Context) ([]model.Game, error) {
	const q = `
SELECT id, name, level, min_players, max_players, game_type
FROM boardgames`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Level, &g.MinPlayers, &g.MaxPlayers, &g.GameType); err != nil {
			return nil, classify(err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// Get selects a single game by id.
func (r *GameRepo) Get(ctx context.Context, id int64) (*model.Game, error) {
	const q = `
SELECT id, name, level, min_players, max_players, game_type
FROM boardgames WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var g model.Game
	if err := row.Scan(&g.ID, &g.Name, &g.Level, &g.MinPlayers, &g.MaxPlayers, &g.GameType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, classify(err)
	}
	return &g, nil
}

// Create inserts a game and returns the generated id. A name collision
// yields errs.ErrAlreadyExists; a zero id is never returned on success.
func (r *GameRepo) Create(ctx context.Context, g *model.Game) (int64, error) {
	const q = `
INSERT INTO boardgames (name, level, min_players, max_players, game_type)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	var id int64
	if err := r.db.Pool.QueryRow(ctx, q, g.Name, g.Level, g.MinPlayers, g.MaxPlayers, g.GameType).Scan(&id); err != nil {
		return 0, classify(err)
	}
	return id, nil
}
