package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/artist-booking/internal/model"
)

// OrganizerRepo manages persistence for organizer profiles.
type OrganizerRepo struct{ db DBTX }

func NewOrganizerRepo(db DBTX) *OrganizerRepo { return &OrganizerRepo{db: db} }

const organizerColumns = "organizer_id, user_id, company_name, description, address, website, rating"

func (r *OrganizerRepo) Create(ctx context.Context, o *model.OrganizerProfile) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO organizers (user_id, company_name, description, address, website, rating)
		 VALUES (?,?,?,?,?,?)`,
		o.UserID, o.CompanyName, o.Description, o.Address, o.Website, o.Rating)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

func (r *OrganizerRepo) GetByID(ctx context.Context, id uint64) (model.OrganizerProfile, error) {
	return scanOrganizer(r.db.QueryRowContext(ctx,
		"SELECT "+organizerColumns+" FROM organizers WHERE organizer_id=?", id))
}

func (r *OrganizerRepo) GetByUserID(ctx context.Context, userID uint64) (model.OrganizerProfile, error) {
	return scanOrganizer(r.db.QueryRowContext(ctx,
		"SELECT "+organizerColumns+" FROM organizers WHERE user_id=?", userID))
}

// Update writes the editable columns; rating is never touched.
func (r *OrganizerRepo) Update(ctx context.Context, o model.OrganizerProfile) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE organizers SET company_name=?, description=?, address=?, website=? WHERE organizer_id=?`,
		o.CompanyName, o.Description, o.Address, o.Website, o.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func scanOrganizer(row *sql.Row) (model.OrganizerProfile, error) {
	var (
		o                         model.OrganizerProfile
		description, addr, webURL sql.NullString
	)
	err := row.Scan(&o.ID, &o.UserID, &o.CompanyName, &description, &addr, &webURL, &o.Rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.OrganizerProfile{}, ErrNotFound
		}
		return model.OrganizerProfile{}, err
	}
	o.Description = nullString(description)
	o.Address = nullString(addr)
	o.Website = nullString(webURL)
	return o, nil
}
