package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Klir-FH/MRP/internal/model"
	"github.com/Klir-FH/MRP/internal/query"
)

type MediaRepo struct {
	pool *pgxpool.Pool
}

func NewMediaRepo(pool *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{pool: pool}
}

// Search runs a compiled filter plan and returns every matching entry with
// its stats, viewer flags and genres in plan order.
func (r *MediaRepo) Search(ctx context.Context, plan query.Plan) ([]model.EnrichedMediaEntry, error) {
	b := enrichedSelect(plan.ViewerID)
	if len(plan.Predicates) > 0 {
		b = b.Where(plan.Where())
	}
	sql, args, err := b.OrderBy(plan.OrderBy()...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate("search media", err)
	}
	entries, err := scanEnriched(rows)
	if err != nil {
		return nil, translate("scan media", err)
	}
	return entries, nil
}

// Exists reports whether a media entry with the given id exists.
func (r *MediaRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM media_entries WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, translate("query media", err)
	}
	return ok, nil
}
