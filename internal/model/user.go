package model

// LeaderboardEntry is one row of the most-active-raters leaderboard.
type LeaderboardEntry struct {
	UserID      int64   `json:"userId"`
	Username    *string `json:"username,omitempty"`
	RatingCount int     `json:"ratingCount"`
}

// ProfileStats summarises a user's rating activity.
type ProfileStats struct {
	UserID         int64   `json:"userId"`
	Username       *string `json:"username,omitempty"`
	TotalRatings   int     `json:"totalRatings"`
	AverageScore   float64 `json:"averageScore"`
	FavoriteGenre  *string `json:"favoriteGenre,omitempty"`
	FavoritesCount int     `json:"favoritesCount"`
}

// RatedMedia is one entry of a user's rating history, carrying the fields
// the recommendation strategies infer preferences from.
type RatedMedia struct {
	MediaID        int64
	StarValue      int
	Type           MediaType
	AgeRestriction *int
	Genres         []string
}
