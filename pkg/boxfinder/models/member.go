package models

import "time"

// Channel identifies how a member signed up
type Channel string

const (
	ChannelTablet  Channel = "Tablet"
	ChannelWebform Channel = "Webform"
)

// Valid reports whether c is one of the known submission channels
func (c Channel) Valid() bool {
	return c == ChannelTablet || c == ChannelWebform
}

// Member represents a person listed under a box (a "hailraiser").
// BoxID may be empty while the member is captured ahead of box creation;
// the store only persists members whose box exists.
type Member struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id" bson:"_id" firestore:"id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" firestore:"updatedAt"`
	BoxID       string    `gorm:"index;size:36" json:"box_id" bson:"box_id" firestore:"boxId"`
	FirstName   string    `gorm:"not null" json:"first_name" bson:"first_name" firestore:"firstName"`
	LastName    string    `gorm:"not null" json:"last_name" bson:"last_name" firestore:"lastName"`
	Country     string    `gorm:"not null" json:"country" bson:"country" firestore:"country"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty" firestore:"email,omitempty"`
	SubmittedBy Channel   `gorm:"type:varchar(10);not null" json:"submitted_by" bson:"submitted_by" firestore:"submittedBy"`
	Approved    bool      `json:"approved" bson:"approved" firestore:"approved"`
}
