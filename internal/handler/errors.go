// Package handler maps HTTP requests onto the service layer.  Handlers
// bind and parse input, bound every call with a 5s timeout and translate
// service errors into JSON error bodies.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/artist-booking/internal/apperr"
	"github.com/iliyamo/artist-booking/internal/middleware"
	"github.com/iliyamo/artist-booking/internal/model"
)

const callTimeout = 5 * time.Second

func callCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), callTimeout)
}

// respondError writes {"error": msg} with the status of err's kind.
// Internal and unavailable failures are logged with their cause.
func respondError(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.Internal, apperr.Unavailable:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	if kind == apperr.Unauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return c.JSON(kind.HTTPStatus(), echo.Map{"error": apperr.Message(err)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// caller returns the identity set by middleware.JWTAuth.  Routes using it
// are always mounted behind that middleware.
func caller(c echo.Context) model.Identity {
	id, _ := middleware.IdentityFrom(c)
	return id
}

func items[T any](v []T) echo.Map {
	if v == nil {
		v = []T{}
	}
	return echo.Map{"items": v}
}
