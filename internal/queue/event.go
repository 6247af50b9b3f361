// Package queue carries booking events over RabbitMQ: the payload, a
// publisher used by the booking service and the consumer that appends
// confirmed bookings to logs/booking.log.
package queue

import "time"

// BookingConfirmedQueue is the durable queue confirmed bookings go to.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a booking's status is set to
// confirmed.  It carries enough for the log consumer to write a line
// without querying the database.
type BookingConfirmedEvent struct {
	BookingID     uint64    `json:"booking_id"`
	ArtistID      uint64    `json:"artist_id"`
	OrganizerID   uint64    `json:"organizer_id"`
	EventID       *uint64   `json:"event_id,omitempty"`
	ProposedPrice *float64  `json:"proposed_price,omitempty"`
	ConfirmedBy   uint64    `json:"confirmed_by"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}
