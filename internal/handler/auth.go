package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/artist-booking/internal/service"
)

// AuthHandler serves registration, login, token rotation and the current
// user.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Register: POST /v1/register (JSON).
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	u, err := h.Auth.Register(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Token: POST /v1/token with form fields username and password.
func (h *AuthHandler) Token(c echo.Context) error {
	ctx, cancel := callCtx(c)
	defer cancel()

	pair, err := h.Auth.Authenticate(ctx, c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh: rotate the refresh token and issue a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout revokes the refresh token in the body, or every refresh token of
// the caller when the body carries none.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
	}
	ctx, cancel := callCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, caller(c), strings.TrimSpace(req.RefreshToken)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := callCtx(c)
	defer cancel()

	u, err := h.Auth.CurrentUser(ctx, caller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
