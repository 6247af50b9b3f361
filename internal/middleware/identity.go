package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/artist-booking/internal/model"
)

// Context keys written by JWTAuth.
const (
	ctxIdentity = "identity"
	ctxUserID   = "user_id"
	ctxRole     = "role"
)

func setIdentity(c echo.Context, id model.Identity) {
	c.Set(ctxIdentity, id)
	c.Set(ctxUserID, strconv.FormatUint(id.UserID, 10))
	c.Set(ctxRole, string(id.Role))
}

// IdentityFrom returns the caller resolved by JWTAuth.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(ctxIdentity).(model.Identity)
	return id, ok
}

// userID is the rate limit and cache key component for the caller,
// "anon" before authentication.
func userID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
