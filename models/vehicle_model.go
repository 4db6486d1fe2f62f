package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID uuid.UUID `gorm:"not null;index" json:"owner_id"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	Brand        string `gorm:"size:50;not null" json:"brand"`
	Model        string `gorm:"size:50;not null" json:"model"`
	Year         int    `gorm:"not null" json:"year"`
	Type         string `gorm:"size:20;not null" json:"type"`
	Transmission string `gorm:"size:20;not null" json:"transmission"`
	FuelType     string `gorm:"size:20;not null" json:"fuel_type"`

	Seats       int    `gorm:"default:5" json:"seats"`
	Doors       int    `gorm:"default:4" json:"doors"`
	Color       string `gorm:"size:50" json:"color"`
	PlateNumber string `gorm:"size:20;unique" json:"plate_number"`

	City           string `gorm:"size:50;not null" json:"city"`
	PickupLocation string `gorm:"type:text" json:"pickup_location"`

	PricePerDay           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_day"`
	PlatformFeePercentage decimal.Decimal `gorm:"type:decimal(5,2);default:10" json:"platform_fee_percentage"`
	PlatformFeeAmount     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"platform_fee_amount"`
	FinalPricePerDay      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"final_price_per_day"`
	Deposit               decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"deposit"`

	DriverAvailable bool `gorm:"default:false" json:"driver_available"`
	IsActive        bool `gorm:"default:true" json:"is_active"`
	IsVerified      bool `gorm:"default:false" json:"is_verified"`

	Slug string `gorm:"size:255;unique" json:"slug"`

	Owner User `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// ComputeDerivedPricing fills the display-only fee fields from the base price.
// The platform fee shown here is informational; the commission the renter
// actually pays is charged once, at booking time.
func (v *Vehicle) ComputeDerivedPricing() {
	rate := v.PlatformFeePercentage.Div(decimal.NewFromInt(100))
	v.PlatformFeeAmount = v.PricePerDay.Mul(rate).Round(2)
	v.FinalPricePerDay = v.PricePerDay.Add(v.PlatformFeeAmount)
}

// ComputeSlug derives a URL slug from title, brand and model.
func (v *Vehicle) ComputeSlug() {
	base := strings.ToLower(strings.Join([]string{v.Title, v.Brand, v.Model}, " "))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, base)
	v.Slug = strings.Join(strings.Fields(base), "-") + "-" + v.ID.String()[:8]
}
