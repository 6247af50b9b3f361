// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/artist-booking/internal/config"
	"github.com/iliyamo/artist-booking/internal/handler"
	"github.com/iliyamo/artist-booking/internal/middleware"
	"github.com/iliyamo/artist-booking/internal/model"
)

// Handlers bundles everything Register mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Profiles *handler.ProfileHandler
	Bookings *handler.BookingHandler
	Messages *handler.MessageHandler
	Reviews  *handler.ReviewHandler
}

// Deps are the infrastructure pieces the routes need besides handlers.
// Redis may be nil, which disables caching and rate limiting.
type Deps struct {
	DB        *sql.DB
	Resolver  middleware.IdentityResolver
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// Register mounts the health checks and the /v1 API.
func Register(e *echo.Echo, h Handlers, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(d.DB))

	v1 := e.Group("/v1")
	auth := middleware.JWTAuth(d.Resolver)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	cached := middleware.NewRedisCache(d.Cache, d.Redis)
	invalidate := middleware.InvalidateCache(d.Cache, d.Redis)

	registerAuth(v1, h.Auth, auth, limit)
	registerProfiles(v1, h.Profiles, auth, cached, invalidate)
	registerBookings(v1, h.Bookings, auth)
	registerMessages(v1, h.Messages, auth)
	registerReviews(v1, h.Reviews, auth, cached, invalidate)
}

// Credential endpoints are rate limited; the rest of auth needs a bearer.
func registerAuth(g *echo.Group, a *handler.AuthHandler, auth, limit echo.MiddlewareFunc) {
	g.POST("/register", a.Register, limit)
	g.POST("/token", a.Token, limit)
	g.POST("/auth/refresh", a.Refresh, limit)
	g.POST("/auth/logout", a.Logout, auth)
	g.GET("/users/me", a.Me, auth)
}

// Profile reads are public; artist reads are cached and artist writes
// invalidate the cache.  Organizer reads are not cached since organizer
// writes do not purge it.
func registerProfiles(g *echo.Group, p *handler.ProfileHandler, auth, cached, invalidate echo.MiddlewareFunc) {
	g.GET("/artists", p.SearchArtists, cached)
	g.GET("/artists/:id", p.GetArtist, cached)
	g.POST("/artists", p.CreateArtist, auth, middleware.RequireRole(model.RoleArtist), invalidate)
	g.PUT("/artists/:id", p.UpdateArtist, auth, invalidate)

	g.POST("/organizers", p.CreateOrganizer, auth, middleware.RequireRole(model.RoleOrganizer))
	g.GET("/organizers/:id", p.GetOrganizer)
	g.PUT("/organizers/:id", p.UpdateOrganizer, auth)
}

func registerBookings(g *echo.Group, b *handler.BookingHandler, auth echo.MiddlewareFunc) {
	g.POST("/bookings", b.Create, auth, middleware.RequireRole(model.RoleOrganizer))
	g.GET("/bookings", b.List, auth)
	g.PATCH("/bookings/:id", b.UpdateStatus, auth)
}

func registerMessages(g *echo.Group, m *handler.MessageHandler, auth echo.MiddlewareFunc) {
	g.POST("/messages", m.Send, auth)
	g.GET("/messages", m.List, auth)
}

// A review may change an artist rating, so creating one invalidates the
// cached artist reads.
func registerReviews(g *echo.Group, r *handler.ReviewHandler, auth, cached, invalidate echo.MiddlewareFunc) {
	g.POST("/reviews", r.Create, auth, invalidate)
	g.GET("/reviews/artist/:id", r.ListForArtist, cached)
}
