package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/artist-booking/internal/database/dbtest"
	"github.com/iliyamo/artist-booking/internal/model"
)

func newUser(t *testing.T, r Repos, email string, role model.Role) model.User {
	t.Helper()
	u := model.User{Email: email, PasswordHash: "x", Role: role, IsActive: true}
	require.NoError(t, r.Users.Create(context.Background(), &u))
	return u
}

func TestUserRepo(t *testing.T) {
	r := newRepos(dbtest.Open(t))
	ctx := context.Background()

	u := newUser(t, r, " Mixed@Case.com", model.RoleArtist)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "mixed@case.com", u.Email)

	dup := model.User{Email: "mixed@case.com", PasswordHash: "x", Role: model.RoleOrganizer}
	assert.ErrorIs(t, r.Users.Create(ctx, &dup), ErrDuplicate)

	got, err := r.Users.GetByEmail(ctx, "MIXED@case.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Nil(t, got.LastLogin)

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Users.TouchLastLogin(ctx, u.ID, at))
	got, err = r.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, at.Equal(*got.LastLogin))

	require.NoError(t, r.Users.SetActive(ctx, u.ID, false))
	got, err = r.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = r.Users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenRepo(t *testing.T) {
	r := newRepos(dbtest.Open(t))
	ctx := context.Background()
	u := newUser(t, r, "a@b.co", model.RoleArtist)

	require.NoError(t, r.Tokens.StoreRefresh(ctx, u.ID, "live", time.Now().Add(time.Hour)))
	require.NoError(t, r.Tokens.StoreRefresh(ctx, u.ID, "old", time.Now().Add(-time.Hour)))

	uid, err := r.Tokens.ValidateRefresh(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	_, err = r.Tokens.ValidateRefresh(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Tokens.ValidateRefresh(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Tokens.RevokeByHash(ctx, "live"))
	_, err = r.Tokens.ValidateRefresh(ctx, "live")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArtistGenresStoredAsScalar(t *testing.T) {
	db := dbtest.Open(t)
	r := newRepos(db)
	ctx := context.Background()
	u := newUser(t, r, "a@b.co", model.RoleArtist)

	a := model.ArtistProfile{UserID: u.ID, StageName: "Band", Genres: []string{"rock", " ", "indie"}}
	require.NoError(t, r.Artists.Create(ctx, &a))

	var raw string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT genres FROM artists WHERE artist_id=?", a.ID).Scan(&raw))
	assert.Equal(t, "rock,indie", raw)

	got, err := r.Artists.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"rock", "indie"}, got.Genres)

	dup := model.ArtistProfile{UserID: u.ID, StageName: "Again"}
	assert.ErrorIs(t, r.Artists.Create(ctx, &dup), ErrDuplicate)
}

func TestArtistEmptyGenres(t *testing.T) {
	r := newRepos(dbtest.Open(t))
	ctx := context.Background()
	u := newUser(t, r, "a@b.co", model.RoleArtist)

	a := model.ArtistProfile{UserID: u.ID, StageName: "Band"}
	require.NoError(t, r.Artists.Create(ctx, &a))

	got, err := r.Artists.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Genres)
	assert.Empty(t, got.Genres)
}

func TestArtistUpdateLeavesRating(t *testing.T) {
	r := newRepos(dbtest.Open(t))
	ctx := context.Background()
	u := newUser(t, r, "a@b.co", model.RoleArtist)

	a := model.ArtistProfile{UserID: u.ID, StageName: "Band"}
	require.NoError(t, r.Artists.Create(ctx, &a))
	require.NoError(t, r.Artists.SetRating(ctx, a.ID, 3.5))

	a.StageName = "Renamed"
	a.Rating = 0
	require.NoError(t, r.Artists.Update(ctx, a))

	got, err := r.Artists.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.StageName)
	assert.Equal(t, 3.5, got.Rating)

	a.ID = 999
	assert.ErrorIs(t, r.Artists.Update(ctx, a), ErrNotFound)
}

func TestStoreTxRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	store := NewStore(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Tx(ctx, func(r Repos) error {
		newUser(t, r, "a@b.co", model.RoleArtist)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = newRepos(db).Users.GetByEmail(ctx, "a@b.co")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Tx(ctx, func(r Repos) error {
		newUser(t, r, "a@b.co", model.RoleArtist)
		return nil
	}))
	_, err = newRepos(db).Users.GetByEmail(ctx, "a@b.co")
	assert.NoError(t, err)
}

func TestReviewAggregates(t *testing.T) {
	r := newRepos(dbtest.Open(t))
	ctx := context.Background()
	au := newUser(t, r, "a@b.co", model.RoleArtist)
	ou := newUser(t, r, "o@b.co", model.RoleOrganizer)

	a := model.ArtistProfile{UserID: au.ID, StageName: "Band"}
	require.NoError(t, r.Artists.Create(ctx, &a))
	o := model.OrganizerProfile{UserID: ou.ID, CompanyName: "Org"}
	require.NoError(t, r.Organizers.Create(ctx, &o))

	avg, n, err := r.Reviews.AverageForArtist(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, n)

	now := time.Now().UTC()
	b := model.Booking{ArtistID: a.ID, OrganizerID: o.ID, Status: model.BookingConfirmed, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.Bookings.Create(ctx, &b))
	for _, score := range []float64{2, 3} {
		rv := model.Review{BookingID: b.ID, ReviewerID: ou.ID, ReviewedID: au.ID, RatingScore: score, CreatedAt: now}
		require.NoError(t, r.Reviews.Create(ctx, &rv))
	}

	avg, n, err = r.Reviews.AverageForArtist(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, avg)
	assert.Equal(t, 2, n)

	list, err := r.Reviews.ListByArtist(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMessagesTieBreakOnID(t *testing.T) {
	r := newRepos(dbtest.Open(t))
	ctx := context.Background()
	a := newUser(t, r, "a@b.co", model.RoleArtist)
	b := newUser(t, r, "b@b.co", model.RoleOrganizer)

	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uint64
	for _, content := range []string{"first", "second"} {
		m := model.Message{SenderID: a.ID, ReceiverID: b.ID, Content: content, SentAt: at}
		require.NoError(t, r.Messages.Create(ctx, &m))
		ids = append(ids, m.ID)
	}
	older := model.Message{SenderID: b.ID, ReceiverID: a.ID, Content: "older", SentAt: at.Add(-time.Minute)}
	require.NoError(t, r.Messages.Create(ctx, &older))

	out, err := r.Messages.ListForUser(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []uint64{ids[1], ids[0], older.ID}, []uint64{out[0].ID, out[1].ID, out[2].ID})
}

func TestArtistSearch(t *testing.T) {
	r := newRepos(dbtest.Open(t))
	ctx := context.Background()
	f := func(v float64) *float64 { return &v }
	bio := "Loud Guitars"

	seed := []model.ArtistProfile{
		{StageName: "Rockers", Genres: []string{"rock"}, PriceMin: f(100), PriceMax: f(500), Bio: &bio},
		{StageName: "Jazz Trio", Genres: []string{"jazz", "swing"}, PriceMin: f(50), PriceMax: f(200)},
		{StageName: "Unpriced", Genres: []string{"indie rock"}},
	}
	for i := range seed {
		u := newUser(t, r, []string{"a@x.co", "b@x.co", "c@x.co"}[i], model.RoleArtist)
		seed[i].UserID = u.ID
		require.NoError(t, r.Artists.Create(ctx, &seed[i]))
	}
	names := func(list []model.ArtistProfile) []string {
		out := []string{}
		for _, a := range list {
			out = append(out, a.StageName)
		}
		return out
	}

	cases := []struct {
		name string
		f    ArtistFilter
		want []string
	}{
		{"none", ArtistFilter{}, []string{"Rockers", "Jazz Trio", "Unpriced"}},
		{"genre substring", ArtistFilter{Genre: "rock"}, []string{"Rockers", "Unpriced"}},
		{"genre case sensitive", ArtistFilter{Genre: "Rock"}, []string{}},
		{"text in bio", ArtistFilter{Text: "Guitars"}, []string{"Rockers"}},
		{"text in name", ArtistFilter{Text: "Trio"}, []string{"Jazz Trio"}},
		{"price min skips null", ArtistFilter{PriceMin: f(60)}, []string{"Rockers"}},
		{"price max", ArtistFilter{PriceMax: f(250)}, []string{"Jazz Trio"}},
		{"combined", ArtistFilter{Genre: "swing", PriceMax: f(250)}, []string{"Jazz Trio"}},
		{"zero price min is no filter", ArtistFilter{PriceMin: f(0)}, []string{"Rockers", "Jazz Trio", "Unpriced"}},
		{"zero price max is no filter", ArtistFilter{PriceMax: f(0)}, []string{"Rockers", "Jazz Trio", "Unpriced"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Artists.Search(ctx, tc.f)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(got))
		})
	}
}

func TestBookingUpdate(t *testing.T) {
	r := newRepos(dbtest.Open(t))
	ctx := context.Background()
	au := newUser(t, r, "a@b.co", model.RoleArtist)
	ou := newUser(t, r, "o@b.co", model.RoleOrganizer)
	a := model.ArtistProfile{UserID: au.ID, StageName: "Band"}
	require.NoError(t, r.Artists.Create(ctx, &a))
	o := model.OrganizerProfile{UserID: ou.ID, CompanyName: "Org"}
	require.NoError(t, r.Organizers.Create(ctx, &o))

	now := time.Now().UTC().Truncate(time.Second)
	b := model.Booking{ArtistID: a.ID, OrganizerID: o.ID, Status: model.BookingPending, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.Bookings.Create(ctx, &b))

	deadline := now.Add(48 * time.Hour)
	b.Status = model.BookingDeclined
	b.ResponseDeadline = &deadline
	b.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, r.Bookings.Update(ctx, b))

	got, err := r.Bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingDeclined, got.Status)
	require.NotNil(t, got.ResponseDeadline)
	assert.True(t, deadline.Equal(*got.ResponseDeadline))
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	byArtist, err := r.Bookings.ListByArtist(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, byArtist, 1)
	byOrg, err := r.Bookings.ListByOrganizer(ctx, o.ID+1)
	require.NoError(t, err)
	assert.Empty(t, byOrg)

	_, err = r.Bookings.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
