package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/artist-booking/internal/model"
)

// MessageRepo is the append-only message log.
type MessageRepo struct{ db DBTX }

func NewMessageRepo(db DBTX) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, booking_id, content, sent_at, is_read) VALUES (?,?,?,?,?,?)",
		m.SenderID, m.ReceiverID, m.BookingID, m.Content, m.SentAt, m.IsRead)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListForUser returns the messages a user sent or received, newest first.
// Messages with equal sent_at come back in reverse insertion order.
func (r *MessageRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT message_id, sender_id, receiver_id, booking_id, content, sent_at, is_read
		   FROM messages
		  WHERE sender_id=? OR receiver_id=?
		  ORDER BY sent_at DESC, message_id DESC`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Message{}
	for rows.Next() {
		var (
			m         model.Message
			bookingID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &bookingID, &m.Content, &m.SentAt, &m.IsRead); err != nil {
			return nil, err
		}
		m.BookingID = nullUint(bookingID)
		out = append(out, m)
	}
	return out, rows.Err()
}
