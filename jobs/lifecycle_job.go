package jobs

import (
	"log"

	"github.com/zanloc/rental-backend/database"
	"github.com/zanloc/rental-backend/models"
)

// AdvanceBookingLifecycle flips paid bookings to ongoing once their start date
// arrives, and ongoing bookings to completed once the end date has passed.
// Runs from cron; each sweep is idempotent.
func AdvanceBookingLifecycle() {
	today := models.Today()

	started := database.DB.Model(&models.Booking{}).
		Where("status = ? AND start_date <= ?", models.BookingPaid, today).
		Update("status", models.BookingOngoing)
	if started.Error != nil {
		log.Printf("🔥 Lifecycle job: failed to start bookings: %v", started.Error)
	} else if started.RowsAffected > 0 {
		log.Printf("✅ Lifecycle job: %d booking(s) now ongoing", started.RowsAffected)
	}

	ended := database.DB.Model(&models.Booking{}).
		Where("status = ? AND end_date <= ?", models.BookingOngoing, today).
		Update("status", models.BookingCompleted)
	if ended.Error != nil {
		log.Printf("🔥 Lifecycle job: failed to complete bookings: %v", ended.Error)
	} else if ended.RowsAffected > 0 {
		log.Printf("✅ Lifecycle job: %d booking(s) completed", ended.RowsAffected)
	}
}
