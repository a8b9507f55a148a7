package models

import "time"

// Box represents a gym listed in the directory
type Box struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id" bson:"_id" firestore:"id"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at" firestore:"updatedAt"`
	Name           string    `gorm:"not null" json:"name" bson:"name" firestore:"name"`
	NameNormalized string    `gorm:"index" json:"-" bson:"name_ci" firestore:"nameNormalized"`
	Location       string    `json:"location,omitempty" bson:"location,omitempty" firestore:"location,omitempty"`
	City           string    `json:"city,omitempty" bson:"city,omitempty" firestore:"city,omitempty"`
	State          string    `json:"state,omitempty" bson:"state,omitempty" firestore:"state,omitempty"`
	Country        string    `json:"country,omitempty" bson:"country,omitempty" firestore:"country,omitempty"`
	CountryCode    string    `gorm:"size:2" json:"country_code,omitempty" bson:"country_code,omitempty" firestore:"countryCode,omitempty"`
	Latitude       *float64  `json:"lat,omitempty" bson:"lat,omitempty" firestore:"lat,omitempty"`
	Longitude      *float64  `json:"lng,omitempty" bson:"lng,omitempty" firestore:"lng,omitempty"`
	Phone          string    `json:"phone,omitempty" bson:"phone,omitempty" firestore:"phone,omitempty"`
	Website        string    `json:"website,omitempty" bson:"website,omitempty" firestore:"website,omitempty"`
	ContactName    string    `json:"contact_name,omitempty" bson:"contact_name,omitempty" firestore:"contactName,omitempty"`
	ContactEmail   string    `json:"contact_email,omitempty" bson:"contact_email,omitempty" firestore:"contactEmail,omitempty"`
	Approved       bool      `json:"approved" bson:"approved" firestore:"approved"`

	// SearchKeywords is the normalized word index of Name used by keyword lookups.
	SearchKeywords []string `gorm:"serializer:json" json:"-" bson:"search_keywords" firestore:"searchKeywords"`
}

// HasCoordinates reports whether both latitude and longitude are set
func (b *Box) HasCoordinates() bool {
	return b.Latitude != nil && b.Longitude != nil
}
