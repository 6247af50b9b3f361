package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/artist-booking/internal/service"
)

type ReviewHandler struct {
	Reviews *service.ReviewService
}

func NewReviewHandler(r *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: r}
}

func (h *ReviewHandler) Create(c echo.Context) error {
	var in service.ReviewInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	rv, err := h.Reviews.Create(ctx, caller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, rv)
}

// ListForArtist is public.
func (h *ReviewHandler) ListForArtist(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid artist id")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	out, err := h.Reviews.ListForArtist(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items(out))
}
