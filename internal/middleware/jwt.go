// Package middleware holds the echo middleware of the API: bearer
// authentication, role gates, the Redis response cache and the Redis
// token bucket.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/artist-booking/internal/apperr"
	"github.com/iliyamo/artist-booking/internal/model"
)

// IdentityResolver turns a bearer token into an active caller identity.
// service.AuthService implements it.
type IdentityResolver interface {
	ResolveCurrent(ctx context.Context, raw string) (model.Identity, error)
	RequireActive(id model.Identity) (model.Identity, error)
}

// JWTAuth validates the Bearer access token, resolves the caller and
// stores the identity in the context (see IdentityFrom).  Inactive
// accounts are rejected with 400.
func JWTAuth(auth IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			id, err := auth.ResolveCurrent(ctx, strings.TrimSpace(raw))
			if err == nil {
				id, err = auth.RequireActive(id)
			}
			if err != nil {
				if apperr.Is(err, apperr.Unauthorized) {
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				}
				return c.JSON(apperr.KindOf(err).HTTPStatus(), echo.Map{"error": apperr.Message(err)})
			}

			setIdentity(c, id)
			return next(c)
		}
	}
}
