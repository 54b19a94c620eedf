package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Klir-FH/MRP/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// GetProfileStats returns a user's rating summary. Users without ratings
// get a zero average and no favorite genre.
func (r *UserRepo) GetProfileStats(ctx context.Context, userID int64) (*model.ProfileStats, error) {
	query := `
		SELECT u.id, c.username,
		       COUNT(r.id) AS total_ratings,
		       COALESCE(AVG(r.star_value)::float8, 0) AS average_score,
		       (SELECT COUNT(*) FROM user_media_interactions i
		        WHERE i.user_id = u.id AND i.interaction_type = $2) AS favorites_count
		FROM users u
		LEFT JOIN credentials c ON c.user_id = u.id
		LEFT JOIN ratings r ON r.owner_id = u.id
		WHERE u.id = $1
		GROUP BY u.id, c.username`

	var p model.ProfileStats
	err := r.pool.QueryRow(ctx, query, userID, int(model.InteractionFavourite)).Scan(
		&p.UserID, &p.Username, &p.TotalRatings, &p.AverageScore, &p.FavoritesCount,
	)
	if err != nil {
		return nil, translate("query profile", err)
	}

	var genre string
	err = r.pool.QueryRow(ctx, `
		SELECT g.name
		FROM ratings r
		JOIN media_entry_genres mg ON mg.media_entry_id = r.media_entry_id
		JOIN genres g ON g.id = mg.genre_id
		WHERE r.owner_id = $1 AND r.star_value >= 4
		GROUP BY g.name
		ORDER BY COUNT(*) DESC, g.name
		LIMIT 1`, userID).Scan(&genre)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return nil, translate("query favorite genre", err)
	default:
		p.FavoriteGenre = &genre
	}

	return &p, nil
}

// Leaderboard returns the users with the most ratings, ties by lowest id.
func (r *UserRepo) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, c.username, COUNT(r.id) AS rating_count
		FROM users u
		JOIN ratings r ON r.owner_id = u.id
		LEFT JOIN credentials c ON c.user_id = u.id
		GROUP BY u.id, c.username
		ORDER BY rating_count DESC, u.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, translate("query leaderboard", err)
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.RatingCount); err != nil {
			return nil, translate("scan leaderboard", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate leaderboard", err)
	}
	return entries, nil
}
