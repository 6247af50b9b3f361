package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/artist-booking/internal/model"
	"github.com/iliyamo/artist-booking/internal/repository"
	"github.com/iliyamo/artist-booking/internal/service"
)

// ProfileHandler serves artist and organizer profiles and artist search.
type ProfileHandler struct {
	Profiles *service.ProfileService
}

func NewProfileHandler(p *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{Profiles: p}
}

func (h *ProfileHandler) CreateArtist(c echo.Context) error {
	var in service.ArtistInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	a, err := h.Profiles.CreateArtist(ctx, caller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// GetArtist is public.
func (h *ProfileHandler) GetArtist(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid artist id")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	a, err := h.Profiles.GetArtist(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// UpdateArtist applies only the keys present in the JSON body.
func (h *ProfileHandler) UpdateArtist(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid artist id")
	}
	var patch model.ArtistPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	a, err := h.Profiles.UpdateArtist(ctx, id, caller(c), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// SearchArtists: GET /v1/artists?genre=&price_min=&price_max=&search=
// All filters are optional and combined with AND.  Public.
func (h *ProfileHandler) SearchArtists(c echo.Context) error {
	f := repository.ArtistFilter{
		Genre: c.QueryParam("genre"),
		Text:  c.QueryParam("search"),
	}
	var err error
	if f.PriceMin, err = floatParam(c, "price_min"); err != nil {
		return badRequest(c, "price_min must be a number")
	}
	if f.PriceMax, err = floatParam(c, "price_max"); err != nil {
		return badRequest(c, "price_max must be a number")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	out, err := h.Profiles.SearchArtists(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items(out))
}

func floatParam(c echo.Context, name string) (*float64, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
