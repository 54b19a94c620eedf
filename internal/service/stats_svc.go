package service

import (
	"context"
	"fmt"

	"github.com/Klir-FH/MRP/internal/model"
)

const (
	// MaxBulkStatsIDs bounds a single bulk stats request.
	MaxBulkStatsIDs = 200
	topGenresLimit  = 10
)

// StatsStore computes aggregate statistics.
type StatsStore interface {
	Get(ctx context.Context, id int64, viewer *int64) (model.AggregateStats, error)
	GetBulk(ctx context.Context, ids []int64, viewer *int64) (map[int64]model.AggregateStats, error)
	GetCatalogStats(ctx context.Context, topGenres int) (*model.CatalogStats, error)
}

type StatsService struct {
	repo StatsStore
}

func NewStatsService(repo StatsStore) *StatsService {
	return &StatsService{repo: repo}
}

// Get returns one entry's stats. Flags are false without a viewer.
func (s *StatsService) Get(ctx context.Context, mediaID int64, viewer *int64) (model.AggregateStats, error) {
	return s.repo.Get(ctx, mediaID, viewer)
}

// GetBulk returns stats for all existing ids in one round trip. Duplicate
// ids are collapsed; unknown ids are omitted from the result.
func (s *StatsService) GetBulk(ctx context.Context, ids []int64, viewer *int64) (map[int64]model.AggregateStats, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) > MaxBulkStatsIDs {
		return nil, fmt.Errorf("%d ids requested, at most %d allowed: %w", len(unique), MaxBulkStatsIDs, model.ErrInvalidInput)
	}
	return s.repo.GetBulk(ctx, unique, viewer)
}

// Catalog returns global catalog totals.
func (s *StatsService) Catalog(ctx context.Context) (*model.CatalogStats, error) {
	return s.repo.GetCatalogStats(ctx, topGenresLimit)
}
