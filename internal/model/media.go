package model

import (
	"strconv"
	"strings"
)

// MediaType is the kind of catalogued work. Stored as an integer code.
type MediaType int

const (
	MediaTypeMovie  MediaType = 0
	MediaTypeSeries MediaType = 1
	MediaTypeGame   MediaType = 2
)

var mediaTypeNames = map[MediaType]string{
	MediaTypeMovie:  "movie",
	MediaTypeSeries: "series",
	MediaTypeGame:   "game",
}

func (t MediaType) String() string {
	if name, ok := mediaTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether t is one of the known media type codes.
func (t MediaType) Valid() bool {
	_, ok := mediaTypeNames[t]
	return ok
}

// ParseMediaType accepts a numeric code ("0".."2") or a type name
// ("movie", "series", "game"; case-insensitive).
func ParseMediaType(s string) (MediaType, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		t := MediaType(n)
		return t, t.Valid()
	}
	lower := strings.ToLower(s)
	for t, name := range mediaTypeNames {
		if name == lower {
			return t, true
		}
	}
	return 0, false
}

// MediaEntry represents a catalogued movie, series or game.
type MediaEntry struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	ReleaseYear    *string   `json:"releaseYear,omitempty"`
	AgeRestriction *int      `json:"ageRestriction,omitempty"`
	Type           MediaType `json:"type"`
	OwnerID        *int64    `json:"ownerId,omitempty"`
}

// AggregateStats holds the per-entry statistics derived from ratings and
// interactions. AvgScore is nil when the entry has no ratings.
type AggregateStats struct {
	AvgScore    *float64 `json:"avgScore"`
	RatingCount int      `json:"ratingCount"`
	IsFavorited bool     `json:"isFavorited"`
	IsLiked     bool     `json:"isLiked"`
}

// EnrichedMediaEntry is the API shape for search and recommendation results.
type EnrichedMediaEntry struct {
	MediaEntry
	AggregateStats
	Genres []string `json:"genres"`
}

// Genre is a named tag. Names are unique case-insensitively.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SetGenresRequest is the API request body for replacing a media entry's genres.
type SetGenresRequest struct {
	Genres []string `json:"genres" validate:"max=50,dive,max=100"`
}

// CatalogStats holds global catalog totals.
type CatalogStats struct {
	TotalMedia   int            `json:"totalMedia"`
	TotalRatings int            `json:"totalRatings"`
	TotalUsers   int            `json:"totalUsers"`
	TotalGenres  int            `json:"totalGenres"`
	TopGenres    map[string]int `json:"topGenres"`
}
