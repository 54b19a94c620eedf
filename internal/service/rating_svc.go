package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Klir-FH/MRP/internal/model"
)

// RatingStore persists ratings and rating likes.
type RatingStore interface {
	Create(ctx context.Context, mediaID, ownerID int64, stars int, comment *string) (int64, error)
	ListByMedia(ctx context.Context, mediaID int64, viewer *int64) ([]model.Rating, error)
	ListByUser(ctx context.Context, userID int64, viewer *int64) ([]model.Rating, error)
	ConfirmComment(ctx context.Context, ratingID, ownerID int64) error
	Update(ctx context.Context, ratingID, ownerID int64, stars int, comment *string) error
	Delete(ctx context.Context, ratingID, ownerID int64) error
	Like(ctx context.Context, ratingID, userID int64) error
	Unlike(ctx context.Context, ratingID, userID int64) error
}

type RatingService struct {
	repo  RatingStore
	media MediaChecker
}

func NewRatingService(repo RatingStore, media MediaChecker) *RatingService {
	return &RatingService{repo: repo, media: media}
}

func checkStars(stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("stars must be between 1 and 5, got %d: %w", stars, model.ErrInvalidInput)
	}
	return nil
}

// cleanComment trims a comment and treats an empty one as absent.
func cleanComment(c *string) *string {
	if c == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*c)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Create adds ownerID's rating of a media entry.
func (s *RatingService) Create(ctx context.Context, mediaID, ownerID int64, req model.RatingRequest) (int64, error) {
	if err := checkStars(req.StarValue); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, mediaID, ownerID, req.StarValue, cleanComment(req.Comment))
}

// ListByMedia returns a media entry's ratings with unconfirmed comments
// hidden from everyone but their author.
func (s *RatingService) ListByMedia(ctx context.Context, mediaID int64, viewer *int64) ([]model.Rating, error) {
	ok, err := s.media.Exists(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("media %d: %w", mediaID, model.ErrNotFound)
	}
	return s.repo.ListByMedia(ctx, mediaID, viewer)
}

func (s *RatingService) ListByUser(ctx context.Context, userID int64, viewer *int64) ([]model.Rating, error) {
	return s.repo.ListByUser(ctx, userID, viewer)
}

func (s *RatingService) ConfirmComment(ctx context.Context, ratingID, ownerID int64) error {
	return s.repo.ConfirmComment(ctx, ratingID, ownerID)
}

// Update changes stars and comment; the comment needs confirming again.
func (s *RatingService) Update(ctx context.Context, ratingID, ownerID int64, req model.RatingRequest) error {
	if err := checkStars(req.StarValue); err != nil {
		return err
	}
	return s.repo.Update(ctx, ratingID, ownerID, req.StarValue, cleanComment(req.Comment))
}

func (s *RatingService) Delete(ctx context.Context, ratingID, ownerID int64) error {
	return s.repo.Delete(ctx, ratingID, ownerID)
}

func (s *RatingService) Like(ctx context.Context, ratingID, userID int64) error {
	return s.repo.Like(ctx, ratingID, userID)
}

func (s *RatingService) Unlike(ctx context.Context, ratingID, userID int64) error {
	return s.repo.Unlike(ctx, ratingID, userID)
}
