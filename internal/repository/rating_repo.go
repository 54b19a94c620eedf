package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Klir-FH/MRP/internal/model"
)

type RatingRepo struct {
	pool *pgxpool.Pool
}

func NewRatingRepo(pool *pgxpool.Pool) *RatingRepo {
	return &RatingRepo{pool: pool}
}

// ratingColumns hides comments that were not confirmed, except from
// the viewer passed as the first bound parameter.
const ratingColumns = `
	r.id, r.media_entry_id, r.owner_id, r.star_value,
	CASE WHEN r.is_comment_visible OR r.owner_id = $1 THEN r.comment END AS comment,
	r.timestamp, r.is_comment_visible,
	(SELECT COUNT(*) FROM user_rating_interactions ri
	 WHERE ri.rating_id = r.id AND ri.interaction_type = 0) AS like_count`

// Create inserts a rating with a hidden comment. A missing media entry maps
// to model.ErrNotFound and a second rating by the same user to
// model.ErrConflict.
func (r *RatingRepo) Create(ctx context.Context, mediaID, ownerID int64, stars int, comment *string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ratings (media_entry_id, owner_id, star_value, comment, is_comment_visible)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id`, mediaID, ownerID, stars, comment).Scan(&id)
	if err != nil {
		return 0, translate(fmt.Sprintf("create rating on media %d", mediaID), err)
	}
	return id, nil
}

// ListByMedia returns all ratings of a media entry, oldest first.
func (r *RatingRepo) ListByMedia(ctx context.Context, mediaID int64, viewer *int64) ([]model.Rating, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ratingColumns+`
		FROM ratings r
		WHERE r.media_entry_id = $2
		ORDER BY r.timestamp, r.id`, viewer, mediaID)
	if err != nil {
		return nil, translate("query media ratings", err)
	}
	return scanRatings(rows)
}

// ListByUser returns a user's ratings, newest first.
func (r *RatingRepo) ListByUser(ctx context.Context, userID int64, viewer *int64) ([]model.Rating, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ratingColumns+`
		FROM ratings r
		WHERE r.owner_id = $2
		ORDER BY r.timestamp DESC, r.id DESC`, viewer, userID)
	if err != nil {
		return nil, translate("query user ratings", err)
	}
	return scanRatings(rows)
}

// ConfirmComment makes the rating's comment publicly visible.
func (r *RatingRepo) ConfirmComment(ctx context.Context, ratingID, ownerID int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ratings SET is_comment_visible = TRUE
		WHERE id = $1 AND owner_id = $2`, ratingID, ownerID)
	if err != nil {
		return translate("confirm comment", err)
	}
	return r.checkOwned(ctx, tag, ratingID)
}

// Update replaces stars and comment. The new comment is hidden again until
// it is confirmed.
func (r *RatingRepo) Update(ctx context.Context, ratingID, ownerID int64, stars int, comment *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ratings
		SET star_value = $3, comment = $4, is_comment_visible = FALSE
		WHERE id = $1 AND owner_id = $2`, ratingID, ownerID, stars, comment)
	if err != nil {
		return translate("update rating", err)
	}
	return r.checkOwned(ctx, tag, ratingID)
}

func (r *RatingRepo) Delete(ctx context.Context, ratingID, ownerID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1 AND owner_id = $2`, ratingID, ownerID)
	if err != nil {
		return translate("delete rating", err)
	}
	return r.checkOwned(ctx, tag, ratingID)
}

// Like records userID's like on another user's rating. Liking twice is a
// no-op; liking one's own rating is forbidden.
func (r *RatingRepo) Like(ctx context.Context, ratingID, userID int64) error {
	var owner int64
	err := r.pool.QueryRow(ctx, `SELECT owner_id FROM ratings WHERE id = $1`, ratingID).Scan(&owner)
	if err != nil {
		return translate(fmt.Sprintf("rating %d", ratingID), err)
	}
	if owner == userID {
		return fmt.Errorf("like own rating %d: %w", ratingID, model.ErrForbidden)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO user_rating_interactions (user_id, rating_id, interaction_type)
		VALUES ($1, $2, 0)
		ON CONFLICT DO NOTHING`, userID, ratingID)
	return translate("like rating", err)
}

// Unlike removes userID's like. Removing a missing like is a no-op.
func (r *RatingRepo) Unlike(ctx context.Context, ratingID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_rating_interactions
		WHERE user_id = $1 AND rating_id = $2 AND interaction_type = 0`, userID, ratingID)
	return translate("unlike rating", err)
}

// checkOwned turns an owner-scoped write that touched no row into
// model.ErrNotFound or model.ErrForbidden.
func (r *RatingRepo) checkOwned(ctx context.Context, tag pgconn.CommandTag, ratingID int64) error {
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ratings WHERE id = $1)`, ratingID).Scan(&exists)
	if err != nil {
		return translate("query rating", err)
	}
	if !exists {
		return fmt.Errorf("rating %d: %w", ratingID, model.ErrNotFound)
	}
	return fmt.Errorf("rating %d: %w", ratingID, model.ErrForbidden)
}

func scanRatings(rows pgx.Rows) ([]model.Rating, error) {
	defer rows.Close()

	ratings := []model.Rating{}
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(
			&rt.ID, &rt.MediaEntryID, &rt.OwnerID, &rt.StarValue,
			&rt.Comment, &rt.Timestamp, &rt.IsCommentVisible, &rt.LikeCount,
		); err != nil {
			return nil, translate("scan rating", err)
		}
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate ratings", err)
	}
	return ratings, nil
}
