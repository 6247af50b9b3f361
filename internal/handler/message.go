package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/artist-booking/internal/service"
)

type MessageHandler struct {
	Messages *service.MessageService
}

func NewMessageHandler(m *service.MessageService) *MessageHandler {
	return &MessageHandler{Messages: m}
}

func (h *MessageHandler) Send(c echo.Context) error {
	var in service.MessageInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	m, err := h.Messages.Send(ctx, caller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// List returns the caller's conversation log, newest first.
func (h *MessageHandler) List(c echo.Context) error {
	ctx, cancel := callCtx(c)
	defer cancel()

	out, err := h.Messages.List(ctx, caller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items(out))
}
