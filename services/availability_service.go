package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/zanloc/rental-backend/models"
	"gorm.io/gorm"
)

const DefaultUnavailableHorizonDays = 90

// IsAvailable reports whether the asset is free over [start, end). Only
// bookings in a blocking status reserve their range; two half-open ranges
// conflict iff s1 < e2 && s2 < e1, so back-to-back checkout/checkin is fine.
// excludeBookingID lets an edit recheck availability without self-conflicting.
func IsAvailable(db *gorm.DB, ref models.AssetRef, start, end time.Time, excludeBookingID *uuid.UUID) (bool, error) {
	query := db.Model(&models.Booking{}).
		Where("asset_kind = ? AND asset_id = ?", ref.Kind, ref.ID).
		Where("status IN ?", models.BlockingStatuses).
		Where("start_date < ? AND end_date > ?", end, start)

	if excludeBookingID != nil {
		query = query.Where("id <> ?", *excludeBookingID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// UnavailableDates expands every blocking booking that starts within the
// horizon into individual calendar dates, for calendar display.
func UnavailableDates(db *gorm.DB, ref models.AssetRef, horizonDays int) ([]string, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultUnavailableHorizonDays
	}
	endRange := models.Today().AddDate(0, 0, horizonDays)

	var bookings []models.Booking
	err := db.Model(&models.Booking{}).
		Select("start_date", "end_date").
		Where("asset_kind = ? AND asset_id = ?", ref.Kind, ref.ID).
		Where("status IN ?", models.BlockingStatuses).
		Where("start_date <= ?", endRange).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0)
	for _, b := range bookings {
		for d := b.StartDate; d.Before(b.EndDate); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d.Format("2006-01-02"))
		}
	}
	return dates, nil
}
