package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Klir-FH/MRP/internal/model"
)

// InteractionRepo stores per-user like and favourite marks on media entries.
type InteractionRepo struct {
	pool *pgxpool.Pool
}

func NewInteractionRepo(pool *pgxpool.Pool) *InteractionRepo {
	return &InteractionRepo{pool: pool}
}

// Mark records the interaction. Marking twice is a no-op; a missing media
// entry or user maps to model.ErrNotFound.
func (r *InteractionRepo) Mark(ctx context.Context, userID, mediaID int64, t model.InteractionType) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_media_interactions (user_id, media_entry_id, interaction_type)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`, userID, mediaID, int(t))
	return translate(fmt.Sprintf("mark %s on media %d", t, mediaID), err)
}

// Unmark removes the interaction and reports whether one existed.
func (r *InteractionRepo) Unmark(ctx context.Context, userID, mediaID int64, t model.InteractionType) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM user_media_interactions
		WHERE user_id = $1 AND media_entry_id = $2 AND interaction_type = $3`, userID, mediaID, int(t))
	if err != nil {
		return false, translate(fmt.Sprintf("unmark %s on media %d", t, mediaID), err)
	}
	return tag.RowsAffected() > 0, nil
}
