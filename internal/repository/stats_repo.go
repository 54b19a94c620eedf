package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Klir-FH/MRP/internal/model"
)

// psql renders statements with pgx-style $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// StatsJoin aggregates ratings once per media entry. It is joined as "s" so
// filters and sorts can reference s.avg_score.
const StatsJoin = `(
	SELECT media_entry_id,
	       AVG(star_value)::float8 AS avg_score,
	       COUNT(*)::int AS rating_count
	FROM ratings
	GROUP BY media_entry_id
) s ON s.media_entry_id = m.id`

// GenresJoin collects each entry's genre names as a sorted text array.
const GenresJoin = `(
	SELECT mg.media_entry_id, array_agg(g.name::text ORDER BY g.name) AS genres
	FROM media_entry_genres mg
	JOIN genres g ON g.id = mg.genre_id
	GROUP BY mg.media_entry_id
) gl ON gl.media_entry_id = m.id`

// flagColumn selects whether the viewer holds an interaction of type t on
// the row's entry. Without a viewer the flag is constant false.
func flagColumn(viewer *int64, t model.InteractionType, alias string) sq.Sqlizer {
	if viewer == nil {
		return sq.Expr("FALSE AS " + alias)
	}
	return sq.Alias(sq.Expr(`EXISTS (
		SELECT 1 FROM user_media_interactions i
		WHERE i.user_id = ? AND i.media_entry_id = m.id AND i.interaction_type = ?)`,
		*viewer, int(t)), alias)
}

// enrichedSelect is the shared projection for search and recommendation
// candidates: entry columns, aggregate stats, viewer flags and genres.
func enrichedSelect(viewer *int64) sq.SelectBuilder {
	return psql.Select(
		"m.id", "m.title", "m.description", "m.release_year", "m.age_restriction", "m.type", "m.owner_id",
		"s.avg_score", "COALESCE(s.rating_count, 0)",
	).
		Column(flagColumn(viewer, model.InteractionFavourite, "is_favorited")).
		Column(flagColumn(viewer, model.InteractionLike, "is_liked")).
		Column("COALESCE(gl.genres, '{}'::text[])").
		From("media_entries m").
		LeftJoin(StatsJoin).
		LeftJoin(GenresJoin)
}

func scanEnriched(rows pgx.Rows) ([]model.EnrichedMediaEntry, error) {
	defer rows.Close()

	entries := []model.EnrichedMediaEntry{}
	for rows.Next() {
		var e model.EnrichedMediaEntry
		var typ int
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.ReleaseYear, &e.AgeRestriction, &typ, &e.OwnerID,
			&e.AvgScore, &e.RatingCount, &e.IsFavorited, &e.IsLiked, &e.Genres,
		); err != nil {
			return nil, err
		}
		e.Type = model.MediaType(typ)
		if e.Genres == nil {
			e.Genres = []string{}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// GetBulk computes aggregate stats for all ids in one statement. Ids that do
// not exist are absent from the result.
func (r *StatsRepo) GetBulk(ctx context.Context, ids []int64, viewer *int64) (map[int64]model.AggregateStats, error) {
	out := make(map[int64]model.AggregateStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := psql.Select("m.id", "s.avg_score", "COALESCE(s.rating_count, 0)").
		Column(flagColumn(viewer, model.InteractionFavourite, "is_favorited")).
		Column(flagColumn(viewer, model.InteractionLike, "is_liked")).
		From("media_entries m").
		LeftJoin(StatsJoin).
		Where(sq.Eq{"m.id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stats query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("query stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var st model.AggregateStats
		if err := rows.Scan(&id, &st.AvgScore, &st.RatingCount, &st.IsFavorited, &st.IsLiked); err != nil {
			return nil, translate("scan stats", err)
		}
		out[id] = st
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate stats", err)
	}
	return out, nil
}

// Get returns the stats of a single entry, or model.ErrNotFound.
func (r *StatsRepo) Get(ctx context.Context, id int64, viewer *int64) (model.AggregateStats, error) {
	all, err := r.GetBulk(ctx, []int64{id}, viewer)
	if err != nil {
		return model.AggregateStats{}, err
	}
	st, ok := all[id]
	if !ok {
		return model.AggregateStats{}, fmt.Errorf("media %d: %w", id, model.ErrNotFound)
	}
	return st, nil
}

// GetCatalogStats returns global totals and the most used genres.
func (r *StatsRepo) GetCatalogStats(ctx context.Context, topGenres int) (*model.CatalogStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM media_entries) AS total_media,
			(SELECT COUNT(*) FROM ratings) AS total_ratings,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM genres) AS total_genres`

	var stats model.CatalogStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalMedia, &stats.TotalRatings, &stats.TotalUsers, &stats.TotalGenres,
	)
	if err != nil {
		return nil, translate("query catalog totals", err)
	}

	genreQuery := `
		SELECT g.name, COUNT(*) AS total
		FROM media_entry_genres mg
		JOIN genres g ON g.id = mg.genre_id
		GROUP BY g.name
		ORDER BY total DESC, g.name
		LIMIT $1`

	rows, err := r.pool.Query(ctx, genreQuery, topGenres)
	if err != nil {
		return nil, translate("query top genres", err)
	}
	defer rows.Close()

	stats.TopGenres = make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, translate("scan top genres", err)
		}
		stats.TopGenres[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate top genres", err)
	}

	return &stats, nil
}
