package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by repositories, so the
// same repository value works inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repos bundles one repository per table bound to the same handle.
type Repos struct {
	Users      *UserRepo
	Tokens     *TokenRepo
	Artists    *ArtistRepo
	Organizers *OrganizerRepo
	Bookings   *BookingRepo
	Messages   *MessageRepo
	Reviews    *ReviewRepo
}

func newRepos(db DBTX) Repos {
	return Repos{
		Users:      NewUserRepo(db),
		Tokens:     NewTokenRepo(db),
		Artists:    NewArtistRepo(db),
		Organizers: NewOrganizerRepo(db),
		Bookings:   NewBookingRepo(db),
		Messages:   NewMessageRepo(db),
		Reviews:    NewReviewRepo(db),
	}
}

// Store owns the connection pool and runs units of work.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the pool for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Tx runs fn inside one transaction.  fn must only use the Repos it is
// given; touching the pool directly from inside fn would deadlock on a
// single-connection SQLite pool.  The transaction commits when fn returns
// nil and rolls back otherwise.
func (s *Store) Tx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(newRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
