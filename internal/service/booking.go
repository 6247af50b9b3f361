package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/artist-booking/internal/apperr"
	"github.com/iliyamo/artist-booking/internal/model"
	"github.com/iliyamo/artist-booking/internal/queue"
	"github.com/iliyamo/artist-booking/internal/repository"
)

// EventPublisher receives booking confirmations.  queue.Publisher and
// queue.NopPublisher implement it.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingService runs the booking request lifecycle.
type BookingService struct {
	store     TxRunner
	publisher EventPublisher
	log       *log.Logger
	validate  *validator.Validate
}

func NewBookingService(store TxRunner, publisher EventPublisher, logger *log.Logger) *BookingService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &BookingService{store: store, publisher: publisher, log: logger, validate: newValidator()}
}

// BookingInput is the payload of a booking request.
type BookingInput struct {
	ArtistID              uint64     `json:"artist_id" validate:"required"`
	EventID               *uint64    `json:"event_id"`
	ProposedPrice         *float64   `json:"proposed_price" validate:"omitempty,gte=0"`
	TechnicalRequirements *string    `json:"technical_requirements" validate:"omitempty,max=2000"`
	ResponseDeadline      *time.Time `json:"response_deadline"`
}

// Create files a pending booking from the caller's organizer profile to
// an artist.
func (s *BookingService) Create(ctx context.Context, caller model.Identity, in BookingInput) (model.Booking, error) {
	switch caller.Role {
	case model.RoleOrganizer:
	case model.RoleArtist, model.RoleAdmin:
		return model.Booking{}, apperr.New(apperr.Forbidden, "only organizers can create bookings")
	default:
		return model.Booking{}, apperr.New(apperr.Forbidden, "unknown role")
	}
	if err := s.validate.Struct(in); err != nil {
		return model.Booking{}, invalid(err)
	}

	var b model.Booking
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		if _, err := r.Artists.GetByID(ctx, in.ArtistID); err != nil {
			return notFound(err, "artist not found")
		}
		org, err := r.Organizers.GetByUserID(ctx, caller.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.InvalidArgument, "create your organizer profile first")
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		b = model.Booking{
			EventID:               in.EventID,
			ArtistID:              in.ArtistID,
			OrganizerID:           org.ID,
			Status:                model.BookingPending,
			ProposedPrice:         in.ProposedPrice,
			TechnicalRequirements: in.TechnicalRequirements,
			CreatedAt:             now,
			UpdatedAt:             now,
			ResponseDeadline:      utcPtr(in.ResponseDeadline),
		}
		return r.Bookings.Create(ctx, &b)
	})
	if err != nil {
		return model.Booking{}, classify(err)
	}
	s.log.Infof("booking %d created: organizer %d -> artist %d", b.ID, b.OrganizerID, b.ArtistID)
	return b, nil
}

// List returns the bookings visible to the caller: those addressed to
// their artist profile or created by their organizer profile.  Callers
// without a matching profile, and admins, get an empty list.
func (s *BookingService) List(ctx context.Context, caller model.Identity) ([]model.Booking, error) {
	out := []model.Booking{}
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		switch caller.Role {
		case model.RoleArtist:
			a, err := r.Artists.GetByUserID(ctx, caller.UserID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			out, err = r.Bookings.ListByArtist(ctx, a.ID)
			return err
		case model.RoleOrganizer:
			o, err := r.Organizers.GetByUserID(ctx, caller.UserID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			out, err = r.Bookings.ListByOrganizer(ctx, o.ID)
			return err
		case model.RoleAdmin:
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// UpdateStatus overwrites status and/or response deadline.
//
// Only artist callers are checked against the booking: they must own the
// targeted artist profile.  Organizer and admin callers may update any
// booking.  Setting the status to confirmed publishes a
// BookingConfirmedEvent after commit; publish failures are logged only.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint64, caller model.Identity, patch model.BookingPatch) (model.Booking, error) {
	if patch.Status.Set {
		if patch.Status.Null {
			return model.Booking{}, apperr.New(apperr.InvalidArgument, "status cannot be null")
		}
		st, err := model.ParseBookingStatus(string(patch.Status.Value))
		if err != nil {
			return model.Booking{}, apperr.Wrap(apperr.InvalidArgument, "status must be one of pending, confirmed, declined, cancelled", err)
		}
		patch.Status.Value = st
	}
	if patch.ResponseDeadline.Present() {
		patch.ResponseDeadline.Value = patch.ResponseDeadline.Value.UTC()
	}

	var b model.Booking
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		var err error
		if b, err = r.Bookings.GetByID(ctx, id); err != nil {
			return notFound(err, "booking not found")
		}
		switch caller.Role {
		case model.RoleArtist:
			a, err := r.Artists.GetByUserID(ctx, caller.UserID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && a.ID != b.ArtistID) {
				return apperr.New(apperr.Forbidden, "not your booking")
			}
			if err != nil {
				return err
			}
		case model.RoleOrganizer, model.RoleAdmin:
		}
		patch.Apply(&b)
		b.UpdatedAt = time.Now().UTC()
		return r.Bookings.Update(ctx, b)
	})
	if err != nil {
		return model.Booking{}, classify(err)
	}

	if patch.Status.Present() && b.Status == model.BookingConfirmed {
		s.publishConfirmed(ctx, b, caller)
	}
	return b, nil
}

func (s *BookingService) publishConfirmed(ctx context.Context, b model.Booking, caller model.Identity) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	ev := queue.BookingConfirmedEvent{
		BookingID:     b.ID,
		ArtistID:      b.ArtistID,
		OrganizerID:   b.OrganizerID,
		EventID:       b.EventID,
		ProposedPrice: b.ProposedPrice,
		ConfirmedBy:   caller.UserID,
		ConfirmedAt:   b.UpdatedAt,
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		s.log.Warnf("booking %d: confirmation event not published: %v", b.ID, err)
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
