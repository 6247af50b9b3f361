package model

import (
	"fmt"
	"time"
)

// BookingStatus is the lifecycle state of a booking request.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus validates a raw status value.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(s); st {
	case BookingPending, BookingConfirmed, BookingDeclined, BookingCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// Booking is a request from an organizer profile to an artist profile.
// EventID is an opaque reference; no event table exists.
//
// Fields:
//  ID                    – primary key (bookings.booking_id).
//  EventID               – optional external event reference.
//  ArtistID              – artist profile the request targets.
//  OrganizerID           – organizer profile that created the request.
//  Status                – current lifecycle state, initially pending.
//  ProposedPrice         – optional offered fee.
//  TechnicalRequirements – optional free-form rider.
//  CreatedAt / UpdatedAt – UpdatedAt is refreshed on every mutation.
//  ResponseDeadline      – optional deadline for the artist's answer.
type Booking struct {
	ID                    uint64        `json:"booking_id"`
	EventID               *uint64       `json:"event_id"`
	ArtistID              uint64        `json:"artist_id"`
	OrganizerID           uint64        `json:"organizer_id"`
	Status                BookingStatus `json:"status"`
	ProposedPrice         *float64      `json:"proposed_price"`
	TechnicalRequirements *string       `json:"technical_requirements"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
	ResponseDeadline      *time.Time    `json:"response_deadline"`
}

// BookingPatch is the body of a status update.  Any supplied field
// overwrites the stored one; no transition table is enforced.
type BookingPatch struct {
	Status           Optional[BookingStatus] `json:"status"`
	ResponseDeadline Optional[time.Time]     `json:"response_deadline"`
}

// Apply merges the supplied fields into b.  Status must already be
// validated.
func (pt BookingPatch) Apply(b *Booking) {
	if pt.Status.Present() {
		b.Status = pt.Status.Value
	}
	if pt.ResponseDeadline.Set {
		b.ResponseDeadline = pt.ResponseDeadline.Ptr()
	}
}

// Message is an append-only conversation entry.  IsRead is stored but no
// operation sets it.
type Message struct {
	ID         uint64    `json:"message_id"`
	SenderID   uint64    `json:"sender_id"`
	ReceiverID uint64    `json:"receiver_id"`
	BookingID  *uint64   `json:"booking_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
	IsRead     bool      `json:"is_read"`
}

// Review is a score left against a confirmed booking.
type Review struct {
	ID          uint64    `json:"review_id"`
	BookingID   uint64    `json:"booking_id"`
	ReviewerID  uint64    `json:"reviewer_id"`
	ReviewedID  uint64    `json:"reviewed_id"`
	RatingScore float64   `json:"rating_score"`
	Comment     *string   `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	IsVerified  bool      `json:"is_verified"`
}
