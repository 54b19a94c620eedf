package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Klir-FH/MRP/internal/model"
)

type GenreRepo struct {
	pool *pgxpool.Pool
}

func NewGenreRepo(pool *pgxpool.Pool) *GenreRepo {
	return &GenreRepo{pool: pool}
}

// ReplaceGenres sets the genre links of a media entry to exactly names in a
// single transaction. names must already be normalized. When actingOwner is
// set, only the entry's owner may change its genres.
func (r *GenreRepo) ReplaceGenres(ctx context.Context, mediaID int64, actingOwner *int64, names []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translate("begin set genres", err)
	}
	defer tx.Rollback(ctx)

	var owner *int64
	err = tx.QueryRow(ctx, `SELECT owner_id FROM media_entries WHERE id = $1 FOR UPDATE`, mediaID).Scan(&owner)
	if err != nil {
		return translate(fmt.Sprintf("lock media %d", mediaID), err)
	}
	if actingOwner != nil && (owner == nil || *owner != *actingOwner) {
		return fmt.Errorf("set genres on media %d: %w", mediaID, model.ErrForbidden)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM media_entry_genres WHERE media_entry_id = $1`, mediaID); err != nil {
		return translate("clear genre links", err)
	}

	for _, name := range names {
		var genreID int64
		// The no-op update makes RETURNING yield the existing row's id.
		err := tx.QueryRow(ctx, `
			INSERT INTO genres (name) VALUES ($1)
			ON CONFLICT ((lower(name))) DO UPDATE SET name = genres.name
			RETURNING id`, name).Scan(&genreID)
		if err != nil {
			return translate(fmt.Sprintf("upsert genre %q", name), err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO media_entry_genres (media_entry_id, genre_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, mediaID, genreID)
		if err != nil {
			return translate("link genre", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return translate("commit set genres", err)
	}
	return nil
}

// ListForMedia returns the genre names of a media entry, sorted by name.
func (r *GenreRepo) ListForMedia(ctx context.Context, mediaID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT g.name
		FROM media_entry_genres mg
		JOIN genres g ON g.id = mg.genre_id
		WHERE mg.media_entry_id = $1
		ORDER BY g.name`, mediaID)
	if err != nil {
		return nil, translate("query media genres", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, translate("scan media genres", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate media genres", err)
	}
	return names, nil
}
