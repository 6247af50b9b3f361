package service

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/artist-booking/internal/apperr"
	"github.com/iliyamo/artist-booking/internal/model"
	"github.com/iliyamo/artist-booking/internal/repository"
)

// ReviewService records reviews and maintains the aggregate artist
// rating.
type ReviewService struct {
	store    TxRunner
	log      *log.Logger
	validate *validator.Validate
}

func NewReviewService(store TxRunner, logger *log.Logger) *ReviewService {
	return &ReviewService{store: store, log: logger, validate: newValidator()}
}

// ReviewInput is the payload of a review.
type ReviewInput struct {
	BookingID   uint64  `json:"booking_id" validate:"required"`
	ReviewedID  uint64  `json:"reviewed_id" validate:"required"`
	RatingScore float64 `json:"rating_score" validate:"gte=1,lte=5"`
	Comment     *string `json:"comment" validate:"omitempty,max=1000"`
}

// Create stores a review of a confirmed booking.  When the reviewer is an
// organizer the booking's artist rating is recomputed as the mean of all
// reviews on that artist's bookings, rounded to two decimals.
//
// The mean is computed from what this transaction can see.  Two reviews
// for the same artist committing concurrently may each miss the other,
// leaving a stale rating until the next review.  Organizer ratings are
// never recomputed.
func (s *ReviewService) Create(ctx context.Context, caller model.Identity, in ReviewInput) (model.Review, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Review{}, invalid(err)
	}

	rv := model.Review{
		BookingID:   in.BookingID,
		ReviewerID:  caller.UserID,
		ReviewedID:  in.ReviewedID,
		RatingScore: in.RatingScore,
		Comment:     in.Comment,
		CreatedAt:   time.Now().UTC(),
	}
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		b, err := r.Bookings.GetByID(ctx, in.BookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}
		if b.Status != model.BookingConfirmed {
			return apperr.New(apperr.InvalidArgument, "can only review confirmed bookings")
		}
		if err := r.Reviews.Create(ctx, &rv); err != nil {
			return err
		}

		switch caller.Role {
		case model.RoleOrganizer:
			avg, n, err := r.Reviews.AverageForArtist(ctx, b.ArtistID)
			if err != nil {
				return err
			}
			if n == 0 {
				return nil
			}
			rating := roundRating(avg)
			if err := r.Artists.SetRating(ctx, b.ArtistID, rating); err != nil {
				return err
			}
			s.log.Infof("artist %d rating recomputed: %.2f over %d reviews", b.ArtistID, rating, n)
		case model.RoleArtist, model.RoleAdmin:
		}
		return nil
	})
	if err != nil {
		return model.Review{}, classify(err)
	}
	return rv, nil
}

// ListForArtist returns every review on the artist's bookings, whatever
// their current status.
func (s *ReviewService) ListForArtist(ctx context.Context, artistID uint64) ([]model.Review, error) {
	var out []model.Review
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Reviews.ListByArtist(ctx, artistID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func roundRating(v float64) float64 { return math.Round(v*100) / 100 }
