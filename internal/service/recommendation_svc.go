package service

import (
	"context"

	"github.com/Klir-FH/MRP/internal/config"
	"github.com/Klir-FH/MRP/internal/model"
)

// RecommendationStore loads the inputs of the ranking strategies.
type RecommendationStore interface {
	History(ctx context.Context, userID int64) ([]model.RatedMedia, error)
	Candidates(ctx context.Context, userID int64) ([]model.EnrichedMediaEntry, error)
}

type RecommendationService struct {
	repo         RecommendationStore
	defaultLimit int
	maxLimit     int
}

func NewRecommendationService(repo RecommendationStore, cfg config.RecommendConfig) *RecommendationService {
	return &RecommendationService{
		repo:         repo,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
}

// Limit resolves a requested limit against the configured default and cap.
func (s *RecommendationService) Limit(requested int) int {
	if requested <= 0 {
		return s.defaultLimit
	}
	return min(requested, s.maxLimit)
}

// Recommend ranks the entries userID has not rated yet.
func (s *RecommendationService) Recommend(ctx context.Context, userID int64, strategy Strategy, limit int) ([]model.EnrichedMediaEntry, error) {
	history, err := s.repo.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.repo.Candidates(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Rank(strategy, history, candidates, s.Limit(limit)), nil
}
