package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetKind discriminates what a booking points at. The two kinds share a
// booking and payment pipeline but price differently.
type AssetKind string

const (
	AssetVehicle   AssetKind = "vehicle"
	AssetResidence AssetKind = "residence"
)

func (k AssetKind) Valid() bool {
	return k == AssetVehicle || k == AssetResidence
}

// AssetRef is a typed reference to a rentable asset.
type AssetRef struct {
	Kind AssetKind `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// AssetInfo is the slice of an asset the booking pipeline needs: who owns it,
// what it costs per period and which fee schedule applies.
type AssetInfo struct {
	Ref            AssetRef
	OwnerID        uuid.UUID
	Title          string
	PricePerPeriod decimal.Decimal
	CleaningFee    decimal.Decimal
	IsActive       bool
}

// ResolveAsset loads the pricing view of the referenced asset.
func ResolveAsset(tx *gorm.DB, ref AssetRef) (*AssetInfo, error) {
	switch ref.Kind {
	case AssetVehicle:
		var v Vehicle
		if err := tx.First(&v, "id = ?", ref.ID).Error; err != nil {
			return nil, err
		}
		return &AssetInfo{
			Ref:            ref,
			OwnerID:        v.OwnerID,
			Title:          v.Title,
			PricePerPeriod: v.PricePerDay,
			IsActive:       v.IsActive,
		}, nil
	case AssetResidence:
		var r Residence
		if err := tx.First(&r, "id = ?", ref.ID).Error; err != nil {
			return nil, err
		}
		return &AssetInfo{
			Ref:            ref,
			OwnerID:        r.OwnerID,
			Title:          r.Title,
			PricePerPeriod: r.PricePerNight,
			CleaningFee:    r.CleaningFee,
			IsActive:       r.IsActive,
		}, nil
	default:
		return nil, fmt.Errorf("unknown asset kind %q", ref.Kind)
	}
}
