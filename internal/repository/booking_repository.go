package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/artist-booking/internal/model"
)

// BookingRepo manages persistence for booking requests.  Bookings are
// never deleted.
type BookingRepo struct{ db DBTX }

func NewBookingRepo(db DBTX) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `booking_id, event_id, artist_id, organizer_id, status, proposed_price,
	technical_requirements, created_at, updated_at, response_deadline`

// Create inserts b and sets its ID.  Timestamps must be filled by the
// caller.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (event_id, artist_id, organizer_id, status, proposed_price,
			technical_requirements, created_at, updated_at, response_deadline)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		b.EventID, b.ArtistID, b.OrganizerID, string(b.Status), b.ProposedPrice,
		b.TechnicalRequirements, b.CreatedAt, b.UpdatedAt, b.ResponseDeadline)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE booking_id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// ListByArtist returns the bookings addressed to an artist profile, oldest
// first.
func (r *BookingRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE artist_id=? ORDER BY booking_id", artistID)
}

// ListByOrganizer returns the bookings created by an organizer profile,
// oldest first.
func (r *BookingRepo) ListByOrganizer(ctx context.Context, organizerID uint64) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE organizer_id=? ORDER BY booking_id", organizerID)
}

// Update overwrites status, deadline and updated_at.
func (r *BookingRepo) Update(ctx context.Context, b model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=?, response_deadline=?, updated_at=? WHERE booking_id=?",
		string(b.Status), b.ResponseDeadline, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(s rowScanner) (model.Booking, error) {
	var (
		b        model.Booking
		eventID  sql.NullInt64
		status   string
		price    sql.NullFloat64
		techReq  sql.NullString
		deadline sql.NullTime
	)
	err := s.Scan(&b.ID, &eventID, &b.ArtistID, &b.OrganizerID, &status, &price,
		&techReq, &b.CreatedAt, &b.UpdatedAt, &deadline)
	if err != nil {
		return model.Booking{}, err
	}
	b.EventID = nullUint(eventID)
	b.Status = model.BookingStatus(status)
	b.ProposedPrice = nullFloat(price)
	b.TechnicalRequirements = nullString(techReq)
	b.ResponseDeadline = nullTime(deadline)
	return b, nil
}
