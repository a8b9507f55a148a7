package models

// Candidate is a search hit shown to the visitor. Place lookups fill the
// address and contact fields; directory hits also carry BoxID.
// Candidates are never persisted.
type Candidate struct {
	BoxID        string   `json:"box_id,omitempty"`
	PlaceID      string   `json:"place_id,omitempty"`
	Name         string   `json:"name"`
	Address      string   `json:"address,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	Country      string   `json:"country,omitempty"`
	CountryCode  string   `json:"country_code,omitempty"`
	Latitude     *float64 `json:"lat,omitempty"`
	Longitude    *float64 `json:"lng,omitempty"`
	Rating       float64  `json:"rating,omitempty"`
	TotalRatings int      `json:"total_ratings,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Website      string   `json:"website,omitempty"`
}

// Key returns the identifier a visitor uses to pick this candidate
func (c Candidate) Key() string {
	if c.BoxID != "" {
		return c.BoxID
	}
	return c.PlaceID
}

// CandidateFromBox converts a directory box into a selectable candidate
func CandidateFromBox(b Box) Candidate {
	return Candidate{
		BoxID:       b.ID,
		Name:        b.Name,
		Address:     b.Location,
		City:        b.City,
		State:       b.State,
		Country:     b.Country,
		CountryCode: b.CountryCode,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		Phone:       b.Phone,
		Website:     b.Website,
	}
}
