package service

import (
	"context"
	"fmt"

	"github.com/Klir-FH/MRP/internal/model"
)

// InteractionStore persists like and favourite marks.
type InteractionStore interface {
	Mark(ctx context.Context, userID, mediaID int64, t model.InteractionType) error
	Unmark(ctx context.Context, userID, mediaID int64, t model.InteractionType) (bool, error)
}

type InteractionService struct {
	repo  InteractionStore
	media MediaChecker
}

func NewInteractionService(repo InteractionStore, media MediaChecker) *InteractionService {
	return &InteractionService{repo: repo, media: media}
}

// Mark sets a like or favourite. Repeating it is a no-op.
func (s *InteractionService) Mark(ctx context.Context, userID, mediaID int64, t model.InteractionType) error {
	return s.repo.Mark(ctx, userID, mediaID, t)
}

// Unmark clears a like or favourite. Clearing an absent mark is a no-op,
// but the media entry must exist.
func (s *InteractionService) Unmark(ctx context.Context, userID, mediaID int64, t model.InteractionType) error {
	removed, err := s.repo.Unmark(ctx, userID, mediaID, t)
	if err != nil || removed {
		return err
	}
	ok, err := s.media.Exists(ctx, mediaID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("media %d: %w", mediaID, model.ErrNotFound)
	}
	return nil
}
