package service

import (
	"context"

	"github.com/Klir-FH/MRP/internal/model"
	"github.com/Klir-FH/MRP/internal/query"
)

// MediaSearcher executes compiled search plans.
type MediaSearcher interface {
	Search(ctx context.Context, plan query.Plan) ([]model.EnrichedMediaEntry, error)
}

type SearchService struct {
	repo MediaSearcher
}

func NewSearchService(repo MediaSearcher) *SearchService {
	return &SearchService{repo: repo}
}

// Search compiles raw filter input and returns the full, ordered match set.
// Malformed filter values are dropped; store failures are returned.
func (s *SearchService) Search(ctx context.Context, raw query.RawFilter) ([]model.EnrichedMediaEntry, error) {
	return s.repo.Search(ctx, query.Build(raw))
}
