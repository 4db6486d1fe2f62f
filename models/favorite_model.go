package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Favorite struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"not null;uniqueIndex:idx_favorites_user_asset" json:"user_id"`

	AssetKind AssetKind `gorm:"size:20;not null;uniqueIndex:idx_favorites_user_asset" json:"asset_kind"`
	AssetID   uuid.UUID `gorm:"not null;uniqueIndex:idx_favorites_user_asset" json:"asset_id"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
