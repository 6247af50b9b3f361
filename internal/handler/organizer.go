package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/artist-booking/internal/model"
	"github.com/iliyamo/artist-booking/internal/service"
)

func (h *ProfileHandler) CreateOrganizer(c echo.Context) error {
	var in service.OrganizerInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	o, err := h.Profiles.CreateOrganizer(ctx, caller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *ProfileHandler) GetOrganizer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid organizer id")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	o, err := h.Profiles.GetOrganizer(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *ProfileHandler) UpdateOrganizer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid organizer id")
	}
	var patch model.OrganizerPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	o, err := h.Profiles.UpdateOrganizer(ctx, id, caller(c), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}
