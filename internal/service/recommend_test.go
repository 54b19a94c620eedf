package service

import (
	"testing"

	"github.com/Klir-FH/MRP/internal/model"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func candidate(id int64, title string, typ model.MediaType, age *int, avg *float64, count int, genres ...string) model.EnrichedMediaEntry {
	return model.EnrichedMediaEntry{
		MediaEntry:     model.MediaEntry{ID: id, Title: title, Type: typ, AgeRestriction: age},
		AggregateStats: model.AggregateStats{AvgScore: avg, RatingCount: count},
		Genres:         genres,
	}
}

func ids(entries []model.EnrichedMediaEntry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  Strategy
	}{
		{"genre", StrategyGenre},
		{"GENRE", StrategyGenre},
		{" genre ", StrategyGenre},
		{"content", StrategyContent},
		{"", StrategyContent},
		{"collaborative", StrategyContent},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseStrategy(tt.input); got != tt.want {
				t.Errorf("ParseStrategy(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRank_GenreScenario(t *testing.T) {
	// A (Action, Comedy) rated 5, B (Comedy, Drama) rated 2.
	history := []model.RatedMedia{
		{MediaID: 1, StarValue: 5, Genres: []string{"Action", "Comedy"}},
		{MediaID: 2, StarValue: 2, Genres: []string{"Comedy", "Drama"}},
	}
	candidates := []model.EnrichedMediaEntry{
		candidate(3, "C", model.MediaTypeMovie, nil, nil, 0, "Action", "Drama"),
		candidate(4, "D", model.MediaTypeMovie, nil, nil, 0, "Action", "Comedy"),
	}

	got := Rank(StrategyGenre, history, candidates, 0)
	if !equalIDs(ids(got), []int64{4, 3}) {
		t.Errorf("order = %v, want [4 3] (D above C)", ids(got))
	}
}

func TestFavoriteGenres_ExcludesLowRatings(t *testing.T) {
	history := []model.RatedMedia{
		{StarValue: 5, Genres: []string{"Action", "Comedy"}},
		{StarValue: 4, Genres: []string{"Sci-Fi"}},
		{StarValue: 3, Genres: []string{"Drama"}},
	}
	fav := FavoriteGenres(history)
	for _, g := range []string{"action", "comedy", "sci-fi"} {
		if _, ok := fav[g]; !ok {
			t.Errorf("favorites missing %q", g)
		}
	}
	if _, ok := fav["drama"]; ok {
		t.Error("drama should not be a favorite (3 stars)")
	}
}

func TestRank_TieBreaks(t *testing.T) {
	tests := []struct {
		name       string
		candidates []model.EnrichedMediaEntry
		want       []int64
	}{
		{
			"higher average first",
			[]model.EnrichedMediaEntry{
				candidate(1, "A", 0, nil, floatPtr(3.0), 5),
				candidate(2, "B", 0, nil, floatPtr(4.5), 2),
			},
			[]int64{2, 1},
		},
		{
			"unrated entries last",
			[]model.EnrichedMediaEntry{
				candidate(1, "A", 0, nil, nil, 0),
				candidate(2, "B", 0, nil, floatPtr(1.0), 1),
			},
			[]int64{2, 1},
		},
		{
			"more ratings first on equal average",
			[]model.EnrichedMediaEntry{
				candidate(1, "A", 0, nil, floatPtr(4.0), 1),
				candidate(2, "B", 0, nil, floatPtr(4.0), 3),
			},
			[]int64{2, 1},
		},
		{
			"smaller title first when all else equal",
			[]model.EnrichedMediaEntry{
				candidate(1, "Zodiac", 0, nil, floatPtr(4.0), 2),
				candidate(2, "Alien", 0, nil, floatPtr(4.0), 2),
			},
			[]int64{2, 1},
		},
		{
			"title order ignores case",
			[]model.EnrichedMediaEntry{
				candidate(1, "Banana", 0, nil, floatPtr(4.0), 2),
				candidate(2, "apple", 0, nil, floatPtr(4.0), 2),
			},
			[]int64{2, 1},
		},
		{
			"lower id on identical titles",
			[]model.EnrichedMediaEntry{
				candidate(9, "Heat", 0, nil, nil, 0),
				candidate(5, "Heat", 0, nil, nil, 0),
			},
			[]int64{5, 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(StrategyGenre, nil, tt.candidates, 10)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("order = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestRank_OverlapBeatsAverage(t *testing.T) {
	history := []model.RatedMedia{{StarValue: 5, Genres: []string{"Horror"}}}
	candidates := []model.EnrichedMediaEntry{
		candidate(1, "Popular", 0, nil, floatPtr(5.0), 100, "Romance"),
		candidate(2, "Niche", 0, nil, floatPtr(2.0), 1, "horror"),
	}
	got := Rank(StrategyGenre, history, candidates, 10)
	if !equalIDs(ids(got), []int64{2, 1}) {
		t.Errorf("order = %v, want [2 1]", ids(got))
	}
}

func TestRank_Limit(t *testing.T) {
	var candidates []model.EnrichedMediaEntry
	for i := int64(1); i <= 30; i++ {
		candidates = append(candidates, candidate(i, "T", 0, nil, nil, 0))
	}

	if got := Rank(StrategyGenre, nil, candidates, 0); len(got) != DefaultRecommendationLimit {
		t.Errorf("default limit: len = %d, want %d", len(got), DefaultRecommendationLimit)
	}
	if got := Rank(StrategyGenre, nil, candidates, 5); len(got) != 5 {
		t.Errorf("limit 5: len = %d, want 5", len(got))
	}
	if got := Rank(StrategyGenre, nil, candidates[:3], 10); len(got) != 3 {
		t.Errorf("fewer candidates than limit: len = %d, want 3", len(got))
	}
}

func TestRank_EmptyInputs(t *testing.T) {
	got := Rank(StrategyContent, nil, nil, 20)
	if got == nil || len(got) != 0 {
		t.Errorf("Rank() = %v, want empty non-nil slice", got)
	}
}

func TestRank_ClearsViewerFlags(t *testing.T) {
	c := candidate(1, "A", 0, nil, nil, 0)
	c.IsFavorited = true
	c.IsLiked = true
	got := Rank(StrategyGenre, nil, []model.EnrichedMediaEntry{c}, 1)
	if got[0].IsFavorited || got[0].IsLiked {
		t.Error("recommendations must not carry viewer flags")
	}
}

func TestRank_ContentRestrictsToPreferredProfile(t *testing.T) {
	history := []model.RatedMedia{
		{MediaID: 1, StarValue: 5, Type: model.MediaTypeSeries, AgeRestriction: intPtr(16)},
		{MediaID: 2, StarValue: 4, Type: model.MediaTypeSeries, AgeRestriction: intPtr(16)},
		{MediaID: 3, StarValue: 5, Type: model.MediaTypeMovie, AgeRestriction: nil},
		{MediaID: 4, StarValue: 1, Type: model.MediaTypeGame, AgeRestriction: intPtr(18)},
	}
	candidates := []model.EnrichedMediaEntry{
		candidate(10, "Series 16", model.MediaTypeSeries, intPtr(16), nil, 0),
		candidate(11, "Series 12", model.MediaTypeSeries, intPtr(12), nil, 0),
		candidate(12, "Series unrated age", model.MediaTypeSeries, nil, nil, 0),
		candidate(13, "Movie", model.MediaTypeMovie, nil, nil, 0),
		candidate(14, "Game 18", model.MediaTypeGame, intPtr(18), nil, 0),
	}

	got := Rank(StrategyContent, history, candidates, 20)
	if !equalIDs(ids(got), []int64{10}) {
		t.Errorf("content = %v, want [10]", ids(got))
	}

	genre := Rank(StrategyGenre, history, candidates, 20)
	if len(genre) != len(candidates) {
		t.Errorf("genre strategy len = %d, want %d (no restriction)", len(genre), len(candidates))
	}
}

func TestRank_ContentNullAgeIsMatchable(t *testing.T) {
	history := []model.RatedMedia{
		{StarValue: 5, Type: model.MediaTypeMovie, AgeRestriction: nil},
	}
	candidates := []model.EnrichedMediaEntry{
		candidate(1, "No rating", model.MediaTypeMovie, nil, nil, 0),
		candidate(2, "PG-12", model.MediaTypeMovie, intPtr(12), nil, 0),
	}
	got := Rank(StrategyContent, history, candidates, 20)
	if !equalIDs(ids(got), []int64{1}) {
		t.Errorf("content = %v, want [1]", ids(got))
	}
}

func TestRank_ContentFallbackWithoutPositiveHistory(t *testing.T) {
	history := []model.RatedMedia{
		{StarValue: 2, Type: model.MediaTypeGame, AgeRestriction: intPtr(18)},
	}
	candidates := []model.EnrichedMediaEntry{
		candidate(1, "A", model.MediaTypeMovie, nil, nil, 0),
		candidate(2, "B", model.MediaTypeSeries, intPtr(6), nil, 0),
	}
	got := Rank(StrategyContent, history, candidates, 20)
	if !equalIDs(ids(got), []int64{1, 2}) {
		t.Errorf("fallback = %v, want all unseen [1 2]", ids(got))
	}
}

func TestPreferredProfile_TieBreak(t *testing.T) {
	tests := []struct {
		name    string
		history []model.RatedMedia
		want    ContentProfile
	}{
		{
			"most frequent wins",
			[]model.RatedMedia{
				{StarValue: 5, Type: model.MediaTypeMovie, AgeRestriction: intPtr(12)},
				{StarValue: 5, Type: model.MediaTypeGame, AgeRestriction: intPtr(18)},
				{StarValue: 4, Type: model.MediaTypeGame, AgeRestriction: intPtr(18)},
			},
			ContentProfile{Type: model.MediaTypeGame, Age: intPtr(18)},
		},
		{
			"lowest type code on tie",
			[]model.RatedMedia{
				{StarValue: 5, Type: model.MediaTypeGame, AgeRestriction: nil},
				{StarValue: 5, Type: model.MediaTypeSeries, AgeRestriction: nil},
			},
			ContentProfile{Type: model.MediaTypeSeries},
		},
		{
			"null age before numeric age",
			[]model.RatedMedia{
				{StarValue: 5, Type: model.MediaTypeMovie, AgeRestriction: intPtr(0)},
				{StarValue: 5, Type: model.MediaTypeMovie, AgeRestriction: nil},
			},
			ContentProfile{Type: model.MediaTypeMovie},
		},
		{
			"lowest age last",
			[]model.RatedMedia{
				{StarValue: 5, Type: model.MediaTypeMovie, AgeRestriction: intPtr(16)},
				{StarValue: 5, Type: model.MediaTypeMovie, AgeRestriction: intPtr(6)},
			},
			ContentProfile{Type: model.MediaTypeMovie, Age: intPtr(6)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PreferredProfile(tt.history)
			if !ok {
				t.Fatal("PreferredProfile() ok = false, want true")
			}
			if got.Type != tt.want.Type {
				t.Errorf("type = %s, want %s", got.Type, tt.want.Type)
			}
			switch {
			case got.Age == nil && tt.want.Age == nil:
			case got.Age == nil || tt.want.Age == nil || *got.Age != *tt.want.Age:
				t.Errorf("age = %v, want %v", got.Age, tt.want.Age)
			}
		})
	}

	if _, ok := PreferredProfile([]model.RatedMedia{{StarValue: 3}}); ok {
		t.Error("PreferredProfile() ok = true without positive ratings")
	}
}
