package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/abelikov/gameshelf/internal/errs"
	"github.com/abelikov/gameshelf/internal/model"
)

// ReviewRepo implements ReviewRepository using PostgreSQL.
type ReviewRepo struct{ db *DB }

// NewReviewRepo constructs a review repository.
func NewReviewRepo(db *DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ListForGame returns all reviews of a game. An empty result is reported as
// errs.ErrNotFound so callers can tell "no reviews yet" apart from a list.
func (r *ReviewRepo) ListForGame(ctx context.Context, gameID int64) ([]model.Review, error) {
	const q = `SELECT id, game_id, text FROM reviews WHERE game_id=$1`
	rows, err := r.db.Pool.Query(ctx, q, gameID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.GameID, &rv.Text); err != nil {
			return nil, classify(err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	if len(out) == 0 {
		return nil, errs.ErrNotFound
	}
	return out, nil
}

// Get selects a single review by id.
func (r *ReviewRepo) Get(ctx context.Context, id int64) (*model.Review, error) {
	const q = `SELECT id, game_id, text FROM reviews WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var rv model.Review
	if err := row.Scan(&rv.ID, &rv.GameID, &rv.Text); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, classify(err)
	}
	return &rv, nil
}

// Create inserts a review and returns the generated id. A dangling game
// reference yields errs.ErrConstraint.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) (int64, error) {
	const q = `INSERT INTO reviews (game_id, text) VALUES ($1, $2) RETURNING id`
	var id int64
	if err := r.db.Pool.QueryRow(ctx, q, rv.GameID, rv.Text).Scan(&id); err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// UpdateText replaces the body of a review. Zero affected rows means the id
// did not exist; that is not an error here.
func (r *ReviewRepo) UpdateText(ctx context.Context, id int64, text string) (int64, error) {
	const q = `UPDATE reviews SET text=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, text)
	if err != nil {
		return 0, classify(err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes a review by id and reports how many rows went away.
func (r *ReviewRepo) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM reviews WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return 0, classify(err)
	}
	return tag.RowsAffected(), nil
}
