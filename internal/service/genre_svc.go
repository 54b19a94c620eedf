package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Klir-FH/MRP/internal/model"
)

// GenreStore persists genre links.
type GenreStore interface {
	ReplaceGenres(ctx context.Context, mediaID int64, actingOwner *int64, names []string) error
	ListForMedia(ctx context.Context, mediaID int64) ([]string, error)
}

// MediaChecker reports whether a media entry exists.
type MediaChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type GenreService struct {
	repo  GenreStore
	media MediaChecker
}

func NewGenreService(repo GenreStore, media MediaChecker) *GenreService {
	return &GenreService{repo: repo, media: media}
}

// NormalizeGenreNames trims names, drops blanks and removes case-insensitive
// duplicates, keeping the first spelling seen.
func NormalizeGenreNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

// SetGenres replaces all genres of a media entry atomically. An empty list
// clears them. actingOwner, when set, must own the entry.
func (s *GenreService) SetGenres(ctx context.Context, mediaID int64, actingOwner *int64, names []string) ([]string, error) {
	normalized := NormalizeGenreNames(names)
	if err := s.repo.ReplaceGenres(ctx, mediaID, actingOwner, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// Genres returns the genre names of a media entry.
func (s *GenreService) Genres(ctx context.Context, mediaID int64) ([]string, error) {
	ok, err := s.media.Exists(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("media %d: %w", mediaID, model.ErrNotFound)
	}
	return s.repo.ListForMedia(ctx, mediaID)
}
