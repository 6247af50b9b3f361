package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesAbsentNullAndValue(t *testing.T) {
	var p ArtistPatch
	require.NoError(t, json.Unmarshal([]byte(`{"bio": null, "price_max": 50, "genres": ["rock"]}`), &p))

	assert.False(t, p.StageName.Set)
	assert.True(t, p.Bio.Set)
	assert.True(t, p.Bio.Null)
	assert.Nil(t, p.Bio.Ptr())
	assert.True(t, p.PriceMax.Present())
	assert.Equal(t, 50.0, p.PriceMax.Value)
	assert.Equal(t, []string{"rock"}, p.Genres.Value)
	assert.False(t, p.PriceMin.Set)
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var p ArtistPatch
	assert.Error(t, json.Unmarshal([]byte(`{"price_min": "cheap"}`), &p))
}

func TestArtistPatchApply(t *testing.T) {
	bio := "old"
	lo := 100.0
	a := ArtistProfile{StageName: "Band", Bio: &bio, Genres: []string{"rock"}, PriceMin: &lo, Rating: 4.2}

	ArtistPatch{
		Bio:      Null[string](),
		Genres:   Some([]string{" jazz ", "", "blues"}),
		PriceMax: Some(50.0),
	}.Apply(&a)

	assert.Equal(t, "Band", a.StageName)
	assert.Nil(t, a.Bio)
	assert.Equal(t, []string{"jazz", "blues"}, a.Genres)
	assert.Equal(t, 100.0, *a.PriceMin)
	assert.Equal(t, 50.0, *a.PriceMax)
	assert.Equal(t, 4.2, a.Rating)
}

func TestBookingPatchApply(t *testing.T) {
	deadline := time.Now()
	b := Booking{Status: BookingPending, ResponseDeadline: &deadline}

	BookingPatch{Status: Some(BookingConfirmed)}.Apply(&b)
	assert.Equal(t, BookingConfirmed, b.Status)
	assert.NotNil(t, b.ResponseDeadline)

	BookingPatch{ResponseDeadline: Null[time.Time]()}.Apply(&b)
	assert.Equal(t, BookingConfirmed, b.Status)
	assert.Nil(t, b.ResponseDeadline)
}

func TestNormalizeGenres(t *testing.T) {
	assert.Equal(t, []string{}, NormalizeGenres(nil))
	assert.Equal(t, []string{"rock", "indie"}, NormalizeGenres([]string{" rock", "  ", "indie "}))
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	got, err := ParseRole(" Organizer ")
	require.NoError(t, err)
	assert.Equal(t, RoleOrganizer, got)

	_, err = ParseRole("owner")
	assert.Error(t, err)
}

func TestParseBookingStatus(t *testing.T) {
	st, err := ParseBookingStatus("declined")
	require.NoError(t, err)
	assert.Equal(t, BookingDeclined, st)

	_, err = ParseBookingStatus("Declined")
	assert.Error(t, err)
}

func TestUserHidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{Email: "a@b.co", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
}
