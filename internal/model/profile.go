package model

import "strings"

// ArtistProfile is the performer-side extension of a user with role
// artist.  Rating is derived by the review aggregator and is never
// written through a profile update.
type ArtistProfile struct {
	ID        uint64   `json:"artist_id"`
	UserID    uint64   `json:"user_id"`
	StageName string   `json:"stage_name"`
	Bio       *string  `json:"bio"`
	Genres    []string `json:"genres"`
	PriceMin  *float64 `json:"price_min"`
	PriceMax  *float64 `json:"price_max"`
	Rating    float64  `json:"rating"`
}

// ArtistPatch carries the fields of a partial artist update.
type ArtistPatch struct {
	StageName Optional[string]   `json:"stage_name"`
	Bio       Optional[string]   `json:"bio"`
	Genres    Optional[[]string] `json:"genres"`
	PriceMin  Optional[float64]  `json:"price_min"`
	PriceMax  Optional[float64]  `json:"price_max"`
}

// Apply merges the supplied fields into p.  Fields that were not present
// in the patch are left untouched.
func (pt ArtistPatch) Apply(p *ArtistProfile) {
	if pt.StageName.Present() {
		p.StageName = pt.StageName.Value
	}
	if pt.Bio.Set {
		p.Bio = pt.Bio.Ptr()
	}
	if pt.Genres.Set {
		p.Genres = NormalizeGenres(pt.Genres.Value)
	}
	if pt.PriceMin.Set {
		p.PriceMin = pt.PriceMin.Ptr()
	}
	if pt.PriceMax.Set {
		p.PriceMax = pt.PriceMax.Ptr()
	}
}

// OrganizerProfile is the event-side extension of a user with role
// organizer.  Rating defaults to 0 and no operation recomputes it.
type OrganizerProfile struct {
	ID          uint64  `json:"organizer_id"`
	UserID      uint64  `json:"user_id"`
	CompanyName string  `json:"company_name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Website     *string `json:"website"`
	Rating      float64 `json:"rating"`
}

// OrganizerPatch carries the fields of a partial organizer update.
type OrganizerPatch struct {
	CompanyName Optional[string] `json:"company_name"`
	Description Optional[string] `json:"description"`
	Address     Optional[string] `json:"address"`
	Website     Optional[string] `json:"website"`
}

// Apply merges the supplied fields into p.
func (pt OrganizerPatch) Apply(p *OrganizerProfile) {
	if pt.CompanyName.Present() {
		p.CompanyName = pt.CompanyName.Value
	}
	if pt.Description.Set {
		p.Description = pt.Description.Ptr()
	}
	if pt.Address.Set {
		p.Address = pt.Address.Ptr()
	}
	if pt.Website.Set {
		p.Website = pt.Website.Ptr()
	}
}

// NormalizeGenres trims every entry and drops the empty ones, keeping the
// original order.  A nil input yields an empty, non-nil slice so that
// responses always carry a JSON array.
func NormalizeGenres(in []string) []string {
	out := make([]string, 0, len(in))
	for _, g := range in {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
