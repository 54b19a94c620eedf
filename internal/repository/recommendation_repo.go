package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Klir-FH/MRP/internal/model"
)

// RecommendationRepo loads the inputs of the recommendation strategies: a
// user's rating history and the entries the user has not rated yet.
type RecommendationRepo struct {
	pool *pgxpool.Pool
}

func NewRecommendationRepo(pool *pgxpool.Pool) *RecommendationRepo {
	return &RecommendationRepo{pool: pool}
}

// History returns every media entry the user rated, with the fields the
// strategies infer preferences from.
func (r *RecommendationRepo) History(ctx context.Context, userID int64) ([]model.RatedMedia, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.media_entry_id, r.star_value, m.type, m.age_restriction,
		       COALESCE(gl.genres, '{}'::text[])
		FROM ratings r
		JOIN media_entries m ON m.id = r.media_entry_id
		LEFT JOIN `+GenresJoin+`
		WHERE r.owner_id = $1
		ORDER BY r.media_entry_id`, userID)
	if err != nil {
		return nil, translate("query rating history", err)
	}
	defer rows.Close()

	history := []model.RatedMedia{}
	for rows.Next() {
		var h model.RatedMedia
		var typ int
		if err := rows.Scan(&h.MediaID, &h.StarValue, &typ, &h.AgeRestriction, &h.Genres); err != nil {
			return nil, translate("scan rating history", err)
		}
		h.Type = model.MediaType(typ)
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate rating history", err)
	}
	return history, nil
}

// Candidates returns every entry the user never rated, with global stats and
// genres. Viewer flags are always false. The result is not limited: ranking
// and truncation happen in service.Rank, so the cost of a call grows with the
// catalog size rather than with the requested limit.
func (r *RecommendationRepo) Candidates(ctx context.Context, userID int64) ([]model.EnrichedMediaEntry, error) {
	sql, args, err := enrichedSelect(nil).
		Where(sq.Expr(`NOT EXISTS (
			SELECT 1 FROM ratings ur
			WHERE ur.media_entry_id = m.id AND ur.owner_id = ?)`, userID)).
		OrderBy("m.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidates query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate("query candidates", err)
	}
	entries, err := scanEnriched(rows)
	if err != nil {
		return nil, translate("scan candidates", err)
	}
	return entries, nil
}
