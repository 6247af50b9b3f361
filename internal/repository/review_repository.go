package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/artist-booking/internal/model"
)

// ReviewRepo stores reviews and answers the aggregate queries of the
// rating recompute.
type ReviewRepo struct{ db DBTX }

func NewReviewRepo(db DBTX) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (booking_id, reviewer_id, reviewed_id, rating_score, comment, created_at, is_verified)
		 VALUES (?,?,?,?,?,?,?)`,
		rv.BookingID, rv.ReviewerID, rv.ReviewedID, rv.RatingScore, rv.Comment, rv.CreatedAt, rv.IsVerified)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// ListByArtist returns every review attached to a booking of the artist,
// whatever the booking's current status.
func (r *ReviewRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rv.review_id, rv.booking_id, rv.reviewer_id, rv.reviewed_id, rv.rating_score,
		        rv.comment, rv.created_at, rv.is_verified
		   FROM reviews rv
		   JOIN bookings b ON b.booking_id = rv.booking_id
		  WHERE b.artist_id = ?
		  ORDER BY rv.review_id`, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Review{}
	for rows.Next() {
		var (
			rv      model.Review
			comment sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.ReviewerID, &rv.ReviewedID, &rv.RatingScore,
			&comment, &rv.CreatedAt, &rv.IsVerified); err != nil {
			return nil, err
		}
		rv.Comment = nullString(comment)
		out = append(out, rv)
	}
	return out, rows.Err()
}

// AverageForArtist returns the mean rating_score over all reviews joined
// through the artist's bookings and the number of such reviews.  The mean
// is 0 when there are none.
func (r *ReviewRepo) AverageForArtist(ctx context.Context, artistID uint64) (float64, int, error) {
	var (
		avg sql.NullFloat64
		n   int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(rv.rating_score), COUNT(*)
		   FROM reviews rv
		   JOIN bookings b ON b.booking_id = rv.booking_id
		  WHERE b.artist_id = ?`, artistID).Scan(&avg, &n)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, n, nil
}
