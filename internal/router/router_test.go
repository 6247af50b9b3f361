package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/artist-booking/internal/config"
	"github.com/iliyamo/artist-booking/internal/database/dbtest"
	"github.com/iliyamo/artist-booking/internal/handler"
	"github.com/iliyamo/artist-booking/internal/queue"
	"github.com/iliyamo/artist-booking/internal/repository"
	"github.com/iliyamo/artist-booking/internal/service"
)

type api struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T) *api {
	t.Helper()
	logger := log.New("test")
	logger.SetOutput(io.Discard)

	db := dbtest.Open(t)
	store := repository.NewStore(db)
	authSvc := service.NewAuthService(store, service.AuthSettings{
		Secret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 1, BcryptCost: 4,
	}, logger)

	e := echo.New()
	e.Logger = logger
	Register(e, Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Profiles: handler.NewProfileHandler(service.NewProfileService(store, logger)),
		Bookings: handler.NewBookingHandler(service.NewBookingService(store, queue.NopPublisher{}, logger)),
		Messages: handler.NewMessageHandler(service.NewMessageService(store, logger)),
		Reviews:  handler.NewReviewHandler(service.NewReviewService(store, logger)),
	}, Deps{
		DB:        db,
		Resolver:  authSvc,
		Cache:     config.CacheConfig{Enabled: true},
		RateLimit: config.RateLimitConfig{Enabled: true},
	})
	return &api{t: t, e: e}
}

// do sends a JSON body (or none when body is nil) and decodes the JSON
// response into out when out is non-nil.
func (a *api) do(method, path, token string, body, out any) int {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(bs)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (a *api) login(email, password string) (int, service.TokenPair) {
	a.t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/v1/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var pair service.TokenPair
	if rec.Code == http.StatusOK {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &pair))
	}
	return rec.Code, pair
}

type errBody struct {
	Error string `json:"error"`
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/healthz", "", nil, &body))
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/readyz", "", nil, &body))
	assert.Equal(t, "ready", body["status"])
}

func TestAuthEndpoints(t *testing.T) {
	a := newAPI(t)
	reg := map[string]any{"email": "Fan@Test.com", "password": "password123", "role": "artist"}

	var user map[string]any
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/register", "", reg, &user))
	assert.Equal(t, "fan@test.com", user["email"])
	assert.NotContains(t, user, "password_hash")

	var e errBody
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/v1/register", "", reg, &e))
	assert.Equal(t, "email already registered", e.Error)

	code, _ := a.login("fan@test.com", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, pair := a.login("fan@test.com", "password123")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "bearer", pair.TokenType)

	var me map[string]any
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/users/me", pair.AccessToken, nil, &me))
	assert.Equal(t, "artist", me["role"])
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/v1/users/me", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/v1/users/me", "garbage", nil, nil))

	var rotated service.TokenPair
	body := map[string]string{"refresh_token": pair.RefreshToken}
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/v1/auth/refresh", "", body, &rotated))
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/v1/auth/refresh", "", body, nil))

	logout := map[string]string{"refresh_token": rotated.RefreshToken}
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/v1/auth/logout", rotated.AccessToken, logout, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/v1/auth/refresh", "", logout, nil))
}

func TestRoleGates(t *testing.T) {
	a := newAPI(t)
	for _, r := range []string{"artist", "organizer"} {
		reg := map[string]any{"email": r + "@test.com", "password": "password123", "role": r}
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/register", "", reg, nil))
	}
	_, art := a.login("artist@test.com", "password123")
	_, org := a.login("organizer@test.com", "password123")

	org1 := map[string]any{"company_name": "Org Inc"}
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/v1/organizers", art.AccessToken, org1, nil))
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/v1/artists", org.AccessToken, map[string]any{"stage_name": "X Band"}, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/v1/artists", "", map[string]any{"stage_name": "X Band"}, nil))

	var e errBody
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/v1/artists", art.AccessToken, map[string]any{"stage_name": "X"}, &e))
	assert.Contains(t, e.Error, "stage_name")

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/v1/artists/999", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/v1/artists/abc", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/v1/artists?price_min=cheap", "", nil, nil))
}

func TestMarketplaceOverHTTP(t *testing.T) {
	a := newAPI(t)

	for _, r := range []map[string]any{
		{"email": "rockstar@test.com", "password": "password123", "role": "artist"},
		{"email": "eventorg@test.com", "password": "password123", "role": "organizer"},
	} {
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/register", "", r, nil))
	}
	_, art := a.login("rockstar@test.com", "password123")
	_, org := a.login("eventorg@test.com", "password123")

	var artMe, orgMe struct {
		ID uint64 `json:"id"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/users/me", art.AccessToken, nil, &artMe))
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/users/me", org.AccessToken, nil, &orgMe))

	var artist struct {
		ID     uint64   `json:"artist_id"`
		Genres []string `json:"genres"`
		Rating float64  `json:"rating"`
	}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/artists", art.AccessToken, map[string]any{
		"stage_name": "The Rockstars",
		"bio":        "High energy rock band",
		"genres":     []string{"rock", "alternative", "indie"},
		"price_min":  50000,
		"price_max":  150000,
	}, &artist))
	assert.Equal(t, []string{"rock", "alternative", "indie"}, artist.Genres)

	var organizer struct {
		ID          uint64 `json:"organizer_id"`
		CompanyName string `json:"company_name"`
	}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/organizers", org.AccessToken,
		map[string]any{"company_name": "Event Organizers Inc"}, &organizer))

	var public struct {
		CompanyName string `json:"company_name"`
	}
	organizerPath := "/v1/organizers/" + strconv.FormatUint(organizer.ID, 10)
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, organizerPath, "", nil, &public))
	assert.Equal(t, "Event Organizers Inc", public.CompanyName)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPut, organizerPath, "",
		map[string]any{"company_name": "Renamed Inc"}, nil))

	var found struct {
		Items []struct {
			ID uint64 `json:"artist_id"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/artists?genre=rock&price_max=200000", "", nil, &found))
	require.Len(t, found.Items, 1)
	assert.Equal(t, artist.ID, found.Items[0].ID)

	var booking struct {
		ID     uint64 `json:"booking_id"`
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/bookings", org.AccessToken,
		map[string]any{"artist_id": artist.ID, "proposed_price": 80000}, &booking))
	assert.Equal(t, "pending", booking.Status)

	var mine struct {
		Items []struct {
			Status string `json:"status"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/bookings", art.AccessToken, nil, &mine))
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "pending", mine.Items[0].Status)

	bookingPath := "/v1/bookings/" + strconv.FormatUint(booking.ID, 10)
	var e errBody
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPatch, bookingPath, art.AccessToken,
		map[string]any{"status": "maybe"}, &e))
	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, bookingPath, art.AccessToken,
		map[string]any{"status": "confirmed"}, &booking))
	assert.Equal(t, "confirmed", booking.Status)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/messages", org.AccessToken,
		map[string]any{"receiver_id": artMe.ID, "content": "See you on stage", "booking_id": booking.ID}, nil))
	var inbox struct {
		Items []struct {
			Content string `json:"content"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/messages", art.AccessToken, nil, &inbox))
	require.Len(t, inbox.Items, 1)
	assert.Equal(t, "See you on stage", inbox.Items[0].Content)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/reviews", org.AccessToken, map[string]any{
		"booking_id": booking.ID, "reviewed_id": artMe.ID, "rating_score": 5.0, "comment": "Amazing",
	}, nil))

	artistPath := "/v1/artists/" + strconv.FormatUint(artist.ID, 10)
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, artistPath, "", nil, &artist))
	assert.Equal(t, 5.0, artist.Rating)

	var reviews struct {
		Items []map[string]any `json:"items"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/reviews/artist/"+strconv.FormatUint(artist.ID, 10), "", nil, &reviews))
	assert.Len(t, reviews.Items, 1)
}
