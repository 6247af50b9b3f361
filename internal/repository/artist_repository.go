package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/artist-booking/internal/model"
)

// genreSep joins the genre list into the single genres column.  The joined
// form never leaves this package.
const genreSep = ","

func joinGenres(g []string) sql.NullString {
	g = model.NormalizeGenres(g)
	if len(g) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(g, genreSep), Valid: true}
}

func splitGenres(ns sql.NullString) []string {
	if !ns.Valid {
		return []string{}
	}
	return model.NormalizeGenres(strings.Split(ns.String, genreSep))
}

// ArtistRepo manages persistence for artist profiles.
type ArtistRepo struct{ db DBTX }

func NewArtistRepo(db DBTX) *ArtistRepo { return &ArtistRepo{db: db} }

const artistColumns = "artist_id, user_id, stage_name, bio, genres, price_min, price_max, rating"

// Create inserts a profile.  A second profile for the same user yields
// ErrDuplicate.
func (r *ArtistRepo) Create(ctx context.Context, a *model.ArtistProfile) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO artists (user_id, stage_name, bio, genres, price_min, price_max, rating)
		 VALUES (?,?,?,?,?,?,?)`,
		a.UserID, a.StageName, a.Bio, joinGenres(a.Genres), a.PriceMin, a.PriceMax, a.Rating)
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
	a.ID = uint64(id)
	a.Genres = model.NormalizeGenres(a.Genres)
	return nil
}

func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (model.ArtistProfile, error) {
	return scanArtist(r.db.QueryRowContext(ctx,
		"SELECT "+artistColumns+" FROM artists WHERE artist_id=?", id))
}

// GetByUserID returns the profile owned by a user, ErrNotFound if the user
// has none.
func (r *ArtistRepo) GetByUserID(ctx context.Context, userID uint64) (model.ArtistProfile, error) {
	return scanArtist(r.db.QueryRowContext(ctx,
		"SELECT "+artistColumns+" FROM artists WHERE user_id=?", userID))
}

// Update writes every editable column of a.  Rating is left alone; it is
// owned by SetRating.
func (r *ArtistRepo) Update(ctx context.Context, a model.ArtistProfile) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE artists SET stage_name=?, bio=?, genres=?, price_min=?, price_max=? WHERE artist_id=?`,
		a.StageName, a.Bio, joinGenres(a.Genres), a.PriceMin, a.PriceMax, a.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// SetRating persists a recomputed aggregate rating.
func (r *ArtistRepo) SetRating(ctx context.Context, id uint64, rating float64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE artists SET rating=? WHERE artist_id=?", rating, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// ArtistFilter holds the optional search predicates; zero values mean
// "no filter".  A price bound of 0 is treated as absent, so profiles
// without stored prices still match.
type ArtistFilter struct {
	Genre    string
	PriceMin *float64
	PriceMax *float64
	Text     string
}

// Search returns every profile matching all supplied predicates, ordered
// by id.  Price bounds are applied in SQL.  Genre and text matching are
// case-sensitive substring checks done here so the result does not depend
// on the column collation of the engine.
func (r *ArtistRepo) Search(ctx context.Context, f ArtistFilter) ([]model.ArtistProfile, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.PriceMin != nil && *f.PriceMin != 0 {
		where = append(where, "price_min >= ?")
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil && *f.PriceMax != 0 {
		where = append(where, "price_max <= ?")
		args = append(args, *f.PriceMax)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+artistColumns+" FROM artists WHERE "+strings.Join(where, " AND ")+" ORDER BY artist_id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ArtistProfile{}
	for rows.Next() {
		var (
			a   model.ArtistProfile
			raw sql.NullString
		)
		if a, raw, err = scanArtistRow(rows); err != nil {
			return nil, err
		}
		if f.Genre != "" && !strings.Contains(raw.String, f.Genre) {
			continue
		}
		if f.Text != "" && !strings.Contains(a.StageName, f.Text) &&
			(a.Bio == nil || !strings.Contains(*a.Bio, f.Text)) {
			continue
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtistRow(s rowScanner) (model.ArtistProfile, sql.NullString, error) {
	var (
		a                  model.ArtistProfile
		bio, genres        sql.NullString
		priceMin, priceMax sql.NullFloat64
	)
	if err := s.Scan(&a.ID, &a.UserID, &a.StageName, &bio, &genres, &priceMin, &priceMax, &a.Rating); err != nil {
		return model.ArtistProfile{}, genres, err
	}
	a.Bio = nullString(bio)
	a.Genres = splitGenres(genres)
	a.PriceMin = nullFloat(priceMin)
	a.PriceMax = nullFloat(priceMax)
	return a, genres, nil
}

func scanArtist(row *sql.Row) (model.ArtistProfile, error) {
	a, _, err := scanArtistRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ArtistProfile{}, ErrNotFound
	}
	return a, err
}

// expectRow maps an UPDATE that matched nothing to ErrNotFound.  The MySQL
// DSN sets clientFoundRows so unchanged rows still count.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
