package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zanloc/rental-backend/models"
)

// Vehicle bookings carry a 10% platform commission; residences carry the
// owner's fixed cleaning fee instead.
var vehicleCommissionRate = decimal.RequireFromString("0.10")

type PriceBreakdown struct {
	Duration int             `json:"duration"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Fees     decimal.Decimal `json:"fees"`
	Total    decimal.Decimal `json:"total"`
}

// RentalDuration counts the days (nights) in [start, end), never less than 1
// so a same-day booking is still priced as one period.
func RentalDuration(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// Quote computes the server-side price breakdown for a stay. The caller's
// totals are never trusted; this is the only place money is derived.
func Quote(asset *models.AssetInfo, start, end time.Time) (*PriceBreakdown, error) {
	if asset.PricePerPeriod.IsZero() {
		field := "price_per_day"
		if asset.Ref.Kind == models.AssetResidence {
			field = "price_per_night"
		}
		return nil, &ValidationError{Message: fmt.Sprintf("asset has no price. Required field: %s", field)}
	}

	duration := RentalDuration(start, end)
	subtotal := asset.PricePerPeriod.Mul(decimal.NewFromInt(int64(duration)))

	var fees decimal.Decimal
	switch asset.Ref.Kind {
	case models.AssetVehicle:
		fees = subtotal.Mul(vehicleCommissionRate).Round(2)
	case models.AssetResidence:
		fees = asset.CleaningFee
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("unknown asset kind %q", asset.Ref.Kind)}
	}

	return &PriceBreakdown{
		Duration: duration,
		Subtotal: subtotal,
		Fees:     fees,
		Total:    subtotal.Add(fees),
	}, nil
}
