package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Phone    string    `gorm:"size:20" json:"phone"`
	Role     string    `gorm:"size:20;not null;default:'client'" json:"role"`

	City    *string `gorm:"size:50" json:"city"`
	Address *string `gorm:"type:text" json:"address"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsOwner() bool {
	return u.Role == "owner" || u.Role == "admin"
}

func (u *User) IsStaff() bool {
	return u.Role == "admin"
}

func (u *User) CanCreateVehicles() bool {
	return u.IsOwner()
}

func (u *User) CanCreateResidences() bool {
	return u.IsOwner()
}
