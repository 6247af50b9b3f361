package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/artist-booking/internal/model"
	"github.com/iliyamo/artist-booking/internal/repository"
)

// MessageService appends to and reads the message log.
type MessageService struct {
	store    TxRunner
	log      *log.Logger
	validate *validator.Validate
}

func NewMessageService(store TxRunner, logger *log.Logger) *MessageService {
	return &MessageService{store: store, log: logger, validate: newValidator()}
}

// MessageInput is the payload of a sent message.
type MessageInput struct {
	ReceiverID uint64  `json:"receiver_id" validate:"required"`
	Content    string  `json:"content" validate:"required,min=1,max=2000"`
	BookingID  *uint64 `json:"booking_id"`
}

// Send stores a message from the caller.  The referenced booking is not
// checked against sender or receiver.
func (s *MessageService) Send(ctx context.Context, caller model.Identity, in MessageInput) (model.Message, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Message{}, invalid(err)
	}
	m := model.Message{
		SenderID:   caller.UserID,
		ReceiverID: in.ReceiverID,
		BookingID:  in.BookingID,
		Content:    in.Content,
		SentAt:     time.Now().UTC(),
	}
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		if _, err := r.Users.GetByID(ctx, in.ReceiverID); err != nil {
			return notFound(err, "receiver not found")
		}
		return r.Messages.Create(ctx, &m)
	})
	if err != nil {
		return model.Message{}, classify(err)
	}
	return m, nil
}

// List returns every message the caller sent or received, newest first.
func (s *MessageService) List(ctx context.Context, caller model.Identity) ([]model.Message, error) {
	var out []model.Message
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Messages.ListForUser(ctx, caller.UserID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}
