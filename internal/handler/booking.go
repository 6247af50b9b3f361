package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/artist-booking/internal/model"
	"github.com/iliyamo/artist-booking/internal/service"
)

// BookingHandler serves the booking lifecycle.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(b *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

func (h *BookingHandler) Create(c echo.Context) error {
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	b, err := h.Bookings.Create(ctx, caller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := callCtx(c)
	defer cancel()

	out, err := h.Bookings.List(ctx, caller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items(out))
}

// UpdateStatus: PATCH /v1/bookings/:id with status and/or response_deadline.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	var patch model.BookingPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	b, err := h.Bookings.UpdateStatus(ctx, id, caller(c), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
