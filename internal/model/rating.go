package model

import "time"

// Rating is a 1-5 star score by a user for one media entry. Comment is only
// exposed to other users once the owner confirmed its visibility.
type Rating struct {
	ID               int64     `json:"id"`
	MediaEntryID     int64     `json:"mediaId"`
	OwnerID          int64     `json:"ownerId"`
	StarValue        int       `json:"stars"`
	Comment          *string   `json:"comment,omitempty"`
	IsCommentVisible bool      `json:"isVisible"`
	Timestamp        time.Time `json:"createdAt"`
	LikeCount        int       `json:"likeCount"`
}

// RatingRequest is the API request body for creating or updating a rating.
type RatingRequest struct {
	StarValue int     `json:"stars" validate:"min=1,max=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// RatingResponse is returned after a rating was created.
type RatingResponse struct {
	ID int64 `json:"id"`
}

// InteractionType distinguishes the per-user marks on a media entry.
type InteractionType int

const (
	InteractionLike      InteractionType = 0
	InteractionFavourite InteractionType = 1
)

func (t InteractionType) String() string {
	switch t {
	case InteractionLike:
		return "like"
	case InteractionFavourite:
		return "favourite"
	default:
		return "unknown"
	}
}
