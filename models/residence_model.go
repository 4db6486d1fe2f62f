package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Residence struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID uuid.UUID `gorm:"not null;index" json:"owner_id"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Type        string `gorm:"size:20;not null" json:"type"`

	City         string `gorm:"size:50;not null" json:"city"`
	Neighborhood string `gorm:"size:100" json:"neighborhood"`
	Address      string `gorm:"type:text" json:"address"`

	Bedrooms    int  `gorm:"default:1" json:"bedrooms"`
	Bathrooms   int  `gorm:"default:1" json:"bathrooms"`
	Capacity    int  `gorm:"default:2" json:"capacity"`
	SurfaceArea *int `json:"surface_area"`

	PricePerNight decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	CleaningFee   decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cleaning_fee"`

	HasWifi     bool `gorm:"default:false" json:"has_wifi"`
	HasAC       bool `gorm:"default:false" json:"has_ac"`
	HasTV       bool `gorm:"default:false" json:"has_tv"`
	HasKitchen  bool `gorm:"default:false" json:"has_kitchen"`
	HasParking  bool `gorm:"default:false" json:"has_parking"`
	HasPool     bool `gorm:"default:false" json:"has_pool"`
	HasSecurity bool `gorm:"default:false" json:"has_security"`

	AllowPets    bool `gorm:"default:false" json:"allow_pets"`
	AllowSmoking bool `gorm:"default:false" json:"allow_smoking"`
	MinNights    int  `gorm:"default:1" json:"min_nights"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	ViewsCount    int             `gorm:"default:0" json:"views_count"`
	BookingsCount int             `gorm:"default:0" json:"bookings_count"`
	RatingAverage decimal.Decimal `gorm:"type:decimal(3,2);default:0" json:"rating_average"`
	ReviewsCount  int             `gorm:"default:0" json:"reviews_count"`

	Owner User `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Residence) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
