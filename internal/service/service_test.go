package service

import (
	"context"
	"io"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/artist-booking/internal/database/dbtest"
	"github.com/iliyamo/artist-booking/internal/model"
	"github.com/iliyamo/artist-booking/internal/queue"
	"github.com/iliyamo/artist-booking/internal/repository"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type testEnv struct {
	store     *repository.Store
	auth      *AuthService
	profiles  *ProfileService
	bookings  *BookingService
	messages  *MessageService
	reviews   *ReviewService
	publisher *mockPublisher
}

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewStore(dbtest.Open(t))
	logger := quietLogger()
	pub := &mockPublisher{}
	t.Cleanup(func() { pub.AssertExpectations(t) })
	return &testEnv{
		store: store,
		auth: NewAuthService(store, AuthSettings{
			Secret:         "test-secret",
			AccessTTLMin:   60,
			RefreshTTLDays: 1,
			BcryptCost:     bcrypt.MinCost,
		}, logger),
		profiles:  NewProfileService(store, logger),
		bookings:  NewBookingService(store, pub, logger),
		messages:  NewMessageService(store, logger),
		reviews:   NewReviewService(store, logger),
		publisher: pub,
	}
}

// register creates an account and returns its identity.
func (e *testEnv) register(t *testing.T, email string, role model.Role) model.Identity {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{Email: email, Password: "secret1", Role: string(role)})
	require.NoError(t, err)
	return model.IdentityOf(u)
}

func (e *testEnv) artist(t *testing.T, email string, in ArtistInput) (model.Identity, model.ArtistProfile) {
	t.Helper()
	id := e.register(t, email, model.RoleArtist)
	a, err := e.profiles.CreateArtist(context.Background(), id, in)
	require.NoError(t, err)
	return id, a
}

func (e *testEnv) organizer(t *testing.T, email string) (model.Identity, model.OrganizerProfile) {
	t.Helper()
	id := e.register(t, email, model.RoleOrganizer)
	o, err := e.profiles.CreateOrganizer(context.Background(), id, OrganizerInput{CompanyName: "Events Inc"})
	require.NoError(t, err)
	return id, o
}

// confirmedBooking files a booking and confirms it as the artist.
func (e *testEnv) confirmedBooking(t *testing.T, org, art model.Identity, artistID uint64) model.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := e.bookings.Create(ctx, org, BookingInput{ArtistID: artistID})
	require.NoError(t, err)
	e.publisher.On("PublishBookingConfirmed", mock.Anything, mock.MatchedBy(func(ev queue.BookingConfirmedEvent) bool {
		return ev.BookingID == b.ID
	})).Return(nil).Once()
	b, err = e.bookings.UpdateStatus(ctx, b.ID, art, model.BookingPatch{Status: model.Some(model.BookingConfirmed)})
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }
