package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Klir-FH/MRP/internal/model"
)

// Strategy selects how recommendation candidates are chosen before ranking.
type Strategy int

const (
	// StrategyContent restricts candidates to the user's preferred
	// (type, age restriction) pairing, then scores by genre overlap.
	StrategyContent Strategy = iota
	// StrategyGenre scores every unseen entry by genre overlap.
	StrategyGenre
)

const (
	// FavoriteThreshold is the minimum star value that counts as a positive signal.
	FavoriteThreshold = 4
	// DefaultRecommendationLimit applies when no positive limit is requested.
	DefaultRecommendationLimit = 20
)

// ParseStrategy maps a strategy name to a Strategy. Unknown names select
// the content strategy.
func ParseStrategy(s string) Strategy {
	if strings.EqualFold(strings.TrimSpace(s), "genre") {
		return StrategyGenre
	}
	return StrategyContent
}

func (s Strategy) String() string {
	if s == StrategyGenre {
		return "genre"
	}
	return "content"
}

// ContentProfile is a (type, age restriction) pairing. A nil Age is a value
// of its own, not a wildcard.
type ContentProfile struct {
	Type model.MediaType
	Age  *int
}

func (p ContentProfile) matches(e model.MediaEntry) bool {
	if e.Type != p.Type {
		return false
	}
	if p.Age == nil || e.AgeRestriction == nil {
		return p.Age == nil && e.AgeRestriction == nil
	}
	return *p.Age == *e.AgeRestriction
}

// FavoriteGenres returns the lowercased genres of every entry rated at least
// FavoriteThreshold stars.
func FavoriteGenres(history []model.RatedMedia) map[string]struct{} {
	favorites := make(map[string]struct{})
	for _, h := range history {
		if h.StarValue < FavoriteThreshold {
			continue
		}
		for _, g := range h.Genres {
			favorites[strings.ToLower(g)] = struct{}{}
		}
	}
	return favorites
}

// PreferredProfile infers the most frequent (type, age restriction) pairing
// among positively rated entries. Ties go to the lowest type code, then to
// no age restriction, then to the lowest age. ok is false without any
// positive rating.
func PreferredProfile(history []model.RatedMedia) (ContentProfile, bool) {
	type key struct {
		typ    model.MediaType
		hasAge bool
		age    int
	}
	counts := make(map[key]int)
	for _, h := range history {
		if h.StarValue < FavoriteThreshold {
			continue
		}
		k := key{typ: h.Type}
		if h.AgeRestriction != nil {
			k.hasAge = true
			k.age = *h.AgeRestriction
		}
		counts[k]++
	}
	if len(counts) == 0 {
		return ContentProfile{}, false
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	best := slices.MinFunc(keys, func(a, b key) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.typ, b.typ); c != 0 {
			return c
		}
		if a.hasAge != b.hasAge {
			if !a.hasAge {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.age, b.age)
	})

	p := ContentProfile{Type: best.typ}
	if best.hasAge {
		age := best.age
		p.Age = &age
	}
	return p, true
}

type scoredEntry struct {
	entry   model.EnrichedMediaEntry
	overlap int
}

func scoreByOverlap(favorites map[string]struct{}, candidates []model.EnrichedMediaEntry) []scoredEntry {
	scored := make([]scoredEntry, 0, len(candidates))
	for _, c := range candidates {
		overlap := 0
		seen := make(map[string]struct{}, len(c.Genres))
		for _, g := range c.Genres {
			lg := strings.ToLower(g)
			if _, dup := seen[lg]; dup {
				continue
			}
			seen[lg] = struct{}{}
			if _, ok := favorites[lg]; ok {
				overlap++
			}
		}
		scored = append(scored, scoredEntry{entry: c, overlap: overlap})
	}
	return scored
}

func genreStrategy(history []model.RatedMedia, candidates []model.EnrichedMediaEntry) []scoredEntry {
	return scoreByOverlap(FavoriteGenres(history), candidates)
}

func contentStrategy(history []model.RatedMedia, candidates []model.EnrichedMediaEntry) []scoredEntry {
	profile, ok := PreferredProfile(history)
	if !ok {
		return genreStrategy(history, candidates)
	}
	restricted := make([]model.EnrichedMediaEntry, 0, len(candidates))
	for _, c := range candidates {
		if profile.matches(c.MediaEntry) {
			restricted = append(restricted, c)
		}
	}
	return genreStrategy(history, restricted)
}

// compareScored orders by overlap desc, average score desc with unrated
// entries last, rating count desc, title asc and finally id asc. Titles
// compare case-insensitively first and fall back to byte order.
func compareScored(a, b scoredEntry) int {
	if c := cmp.Compare(b.overlap, a.overlap); c != 0 {
		return c
	}
	switch {
	case a.entry.AvgScore == nil && b.entry.AvgScore != nil:
		return 1
	case a.entry.AvgScore != nil && b.entry.AvgScore == nil:
		return -1
	case a.entry.AvgScore != nil && b.entry.AvgScore != nil:
		if c := cmp.Compare(*b.entry.AvgScore, *a.entry.AvgScore); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(b.entry.RatingCount, a.entry.RatingCount); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(a.entry.Title), strings.ToLower(b.entry.Title)); c != 0 {
		return c
	}
	if c := strings.Compare(a.entry.Title, b.entry.Title); c != 0 {
		return c
	}
	return cmp.Compare(a.entry.ID, b.entry.ID)
}

// Rank applies strategy to a user's history and unseen candidates and
// returns at most limit entries in recommendation order. candidates must
// already exclude everything in history. Viewer flags are cleared.
func Rank(strategy Strategy, history []model.RatedMedia, candidates []model.EnrichedMediaEntry, limit int) []model.EnrichedMediaEntry {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	var scored []scoredEntry
	switch strategy {
	case StrategyGenre:
		scored = genreStrategy(history, candidates)
	default:
		scored = contentStrategy(history, candidates)
	}

	slices.SortStableFunc(scored, compareScored)

	out := make([]model.EnrichedMediaEntry, 0, min(limit, len(scored)))
	for _, s := range scored[:min(limit, len(scored))] {
		e := s.entry
		e.IsFavorited = false
		e.IsLiked = false
		out = append(out, e)
	}
	return out
}
