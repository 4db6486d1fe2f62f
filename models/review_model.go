package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingReview struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingID uuid.UUID `gorm:"not null;unique" json:"booking_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CleanlinessRating   *int `json:"cleanliness_rating"`
	CommunicationRating *int `json:"communication_rating"`
	ValueRating         *int `json:"value_rating"`

	OwnerResponse     string     `gorm:"type:text" json:"owner_response"`
	OwnerResponseDate *time.Time `json:"owner_response_date"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *BookingReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
