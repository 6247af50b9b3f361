package repository

import (
	"database/sql"
	"time"
)

// Conversions between nullable columns and the pointer fields used by the
// model package.

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullUint(ni sql.NullInt64) *uint64 {
	if !ni.Valid {
		return nil
	}
	u := uint64(ni.Int64)
	return &u
}
