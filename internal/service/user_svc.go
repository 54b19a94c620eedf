package service

import (
	"context"

	"github.com/Klir-FH/MRP/internal/model"
)

const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

// UserStore reads per-user statistics.
type UserStore interface {
	GetProfileStats(ctx context.Context, userID int64) (*model.ProfileStats, error)
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

type UserService struct {
	repo UserStore
}

func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo}
}

// Profile returns a user's rating summary.
func (s *UserService) Profile(ctx context.Context, userID int64) (*model.ProfileStats, error) {
	return s.repo.GetProfileStats(ctx, userID)
}

// LeaderboardLimit clamps a requested limit to 1..MaxLeaderboardLimit,
// using the default for non-positive values.
func LeaderboardLimit(requested int) int {
	if requested <= 0 {
		return DefaultLeaderboardLimit
	}
	return min(requested, MaxLeaderboardLimit)
}

// Leaderboard returns the most active raters.
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return s.repo.Leaderboard(ctx, LeaderboardLimit(limit))
}
