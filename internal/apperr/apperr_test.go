package apperr

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Internal:        http.StatusInternalServerError,
		Conflict:        http.StatusConflict,
		Unauthorized:    http.StatusUnauthorized,
		Forbidden:       http.StatusForbidden,
		NotFound:        http.StatusNotFound,
		InvalidArgument: http.StatusBadRequest,
		BadRequest:      http.StatusBadRequest,
		Unavailable:     http.StatusServiceUnavailable,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("outer: %w", Wrap(NotFound, "artist not found", cause))

	assert.Equal(t, NotFound, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, Internal, KindOf(cause))
	assert.False(t, Is(nil, Internal))
}

func TestWrapPromotesConnectivityFailures(t *testing.T) {
	assert.Equal(t, Unavailable, Wrap(Internal, "query", driver.ErrBadConn).Kind)
	assert.Equal(t, Unavailable, Wrap(NotFound, "query", context.DeadlineExceeded).Kind)
	assert.Equal(t, Unavailable, KindOf(fmt.Errorf("x: %w", driver.ErrBadConn)))
}

func TestMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "artist not found", Message(New(NotFound, "artist not found")))
	assert.Equal(t, "internal server error", Message(Wrap(Internal, "storage failure", errors.New("syntax error near SELECT"))))
	assert.Equal(t, "internal server error", Message(errors.New("raw")))
	assert.Equal(t, "service temporarily unavailable", Message(Wrap(Internal, "storage failure", driver.ErrBadConn)))
}
