package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/artist-booking/internal/apperr"
	"github.com/iliyamo/artist-booking/internal/model"
	"github.com/iliyamo/artist-booking/internal/repository"
)

// ProfileService manages artist and organizer profiles and the artist
// search.
type ProfileService struct {
	store    TxRunner
	log      *log.Logger
	validate *validator.Validate
}

func NewProfileService(store TxRunner, logger *log.Logger) *ProfileService {
	return &ProfileService{store: store, log: logger, validate: newValidator()}
}

// ArtistInput is the payload of an artist profile creation.
type ArtistInput struct {
	StageName string   `json:"stage_name" validate:"required,min=2,max=100"`
	Bio       *string  `json:"bio" validate:"omitempty,max=2000"`
	Genres    []string `json:"genres"`
	PriceMin  *float64 `json:"price_min" validate:"omitempty,gte=0"`
	PriceMax  *float64 `json:"price_max" validate:"omitempty,gte=0"`
}

// OrganizerInput is the payload of an organizer profile creation.
type OrganizerInput struct {
	CompanyName string  `json:"company_name" validate:"required,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Address     *string `json:"address"`
	Website     *string `json:"website"`
}

var errPriceOrder = apperr.New(apperr.InvalidArgument, "price_max must be greater than or equal to price_min")

// CreateArtist creates the caller's artist profile.
func (s *ProfileService) CreateArtist(ctx context.Context, caller model.Identity, in ArtistInput) (model.ArtistProfile, error) {
	switch caller.Role {
	case model.RoleArtist:
	case model.RoleOrganizer, model.RoleAdmin:
		return model.ArtistProfile{}, apperr.New(apperr.Forbidden, "only artists can create artist profiles")
	default:
		return model.ArtistProfile{}, apperr.New(apperr.Forbidden, "unknown role")
	}
	if err := s.validate.Struct(in); err != nil {
		return model.ArtistProfile{}, invalid(err)
	}
	if in.PriceMin != nil && in.PriceMax != nil && *in.PriceMax < *in.PriceMin {
		return model.ArtistProfile{}, errPriceOrder
	}

	a := model.ArtistProfile{
		UserID:    caller.UserID,
		StageName: in.StageName,
		Bio:       in.Bio,
		Genres:    model.NormalizeGenres(in.Genres),
		PriceMin:  in.PriceMin,
		PriceMax:  in.PriceMax,
	}
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		_, err := r.Artists.GetByUserID(ctx, caller.UserID)
		switch {
		case err == nil:
			return apperr.New(apperr.Conflict, "artist profile already exists")
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		if err := r.Artists.Create(ctx, &a); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.New(apperr.Conflict, "artist profile already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return model.ArtistProfile{}, classify(err)
	}
	s.log.Infof("artist profile %d created for user %d", a.ID, a.UserID)
	return a, nil
}

// GetArtist returns one artist profile.
func (s *ProfileService) GetArtist(ctx context.Context, id uint64) (model.ArtistProfile, error) {
	var a model.ArtistProfile
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		var err error
		a, err = r.Artists.GetByID(ctx, id)
		return notFound(err, "artist not found")
	})
	return a, classify(err)
}

// UpdateArtist applies a partial update to a profile owned by the caller.
//
// The price ordering rule only compares prices supplied together in the
// same patch.  A patch carrying just price_max is accepted even when it
// ends up below the stored price_min.
func (s *ProfileService) UpdateArtist(ctx context.Context, id uint64, caller model.Identity, patch model.ArtistPatch) (model.ArtistProfile, error) {
	if err := s.checkArtistPatch(patch); err != nil {
		return model.ArtistProfile{}, err
	}

	var a model.ArtistProfile
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		var err error
		if a, err = r.Artists.GetByID(ctx, id); err != nil {
			return notFound(err, "artist not found")
		}
		if a.UserID != caller.UserID {
			return apperr.New(apperr.Forbidden, "not the owner of this profile")
		}
		patch.Apply(&a)
		return r.Artists.Update(ctx, a)
	})
	if err != nil {
		return model.ArtistProfile{}, classify(err)
	}
	return a, nil
}

func (s *ProfileService) checkArtistPatch(p model.ArtistPatch) error {
	if p.StageName.Set {
		if p.StageName.Null {
			return apperr.New(apperr.InvalidArgument, "stage_name cannot be null")
		}
		if err := checkVar(s.validate, "stage_name", p.StageName.Value, "min=2,max=100"); err != nil {
			return err
		}
	}
	if p.Bio.Present() {
		if err := checkVar(s.validate, "bio", p.Bio.Value, "max=2000"); err != nil {
			return err
		}
	}
	if p.PriceMin.Present() {
		if err := checkVar(s.validate, "price_min", p.PriceMin.Value, "gte=0"); err != nil {
			return err
		}
	}
	if p.PriceMax.Present() {
		if err := checkVar(s.validate, "price_max", p.PriceMax.Value, "gte=0"); err != nil {
			return err
		}
	}
	if p.PriceMin.Present() && p.PriceMax.Present() && p.PriceMax.Value < p.PriceMin.Value {
		return errPriceOrder
	}
	return nil
}

// SearchArtists returns every artist matching all supplied filters.
func (s *ProfileService) SearchArtists(ctx context.Context, f repository.ArtistFilter) ([]model.ArtistProfile, error) {
	var out []model.ArtistProfile
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Artists.Search(ctx, f)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// CreateOrganizer creates the caller's organizer profile.
func (s *ProfileService) CreateOrganizer(ctx context.Context, caller model.Identity, in OrganizerInput) (model.OrganizerProfile, error) {
	switch caller.Role {
	case model.RoleOrganizer:
	case model.RoleArtist, model.RoleAdmin:
		return model.OrganizerProfile{}, apperr.New(apperr.Forbidden, "only organizers can create organizer profiles")
	default:
		return model.OrganizerProfile{}, apperr.New(apperr.Forbidden, "unknown role")
	}
	if err := s.validate.Struct(in); err != nil {
		return model.OrganizerProfile{}, invalid(err)
	}

	o := model.OrganizerProfile{
		UserID:      caller.UserID,
		CompanyName: in.CompanyName,
		Description: in.Description,
		Address:     in.Address,
		Website:     in.Website,
	}
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		_, err := r.Organizers.GetByUserID(ctx, caller.UserID)
		switch {
		case err == nil:
			return apperr.New(apperr.Conflict, "organizer profile already exists")
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		if err := r.Organizers.Create(ctx, &o); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.New(apperr.Conflict, "organizer profile already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return model.OrganizerProfile{}, classify(err)
	}
	s.log.Infof("organizer profile %d created for user %d", o.ID, o.UserID)
	return o, nil
}

func (s *ProfileService) GetOrganizer(ctx context.Context, id uint64) (model.OrganizerProfile, error) {
	var o model.OrganizerProfile
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		var err error
		o, err = r.Organizers.GetByID(ctx, id)
		return notFound(err, "organizer not found")
	})
	return o, classify(err)
}

// UpdateOrganizer applies a partial update to a profile owned by the
// caller.  The rating column is never written.
func (s *ProfileService) UpdateOrganizer(ctx context.Context, id uint64, caller model.Identity, patch model.OrganizerPatch) (model.OrganizerProfile, error) {
	if patch.CompanyName.Set {
		if patch.CompanyName.Null {
			return model.OrganizerProfile{}, apperr.New(apperr.InvalidArgument, "company_name cannot be null")
		}
		if err := checkVar(s.validate, "company_name", patch.CompanyName.Value, "min=2,max=200"); err != nil {
			return model.OrganizerProfile{}, err
		}
	}
	if patch.Description.Present() {
		if err := checkVar(s.validate, "description", patch.Description.Value, "max=2000"); err != nil {
			return model.OrganizerProfile{}, err
		}
	}

	var o model.OrganizerProfile
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		var err error
		if o, err = r.Organizers.GetByID(ctx, id); err != nil {
			return notFound(err, "organizer not found")
		}
		if o.UserID != caller.UserID {
			return apperr.New(apperr.Forbidden, "not the owner of this profile")
		}
		patch.Apply(&o)
		return r.Organizers.Update(ctx, o)
	})
	if err != nil {
		return model.OrganizerProfile{}, classify(err)
	}
	return o, nil
}
