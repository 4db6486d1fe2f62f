package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zanloc/rental-backend/models"
	"github.com/zanloc/rental-backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate takes a row lock so availability check plus insert stays
// serializable against concurrent requests for the same asset. SQLite is
// single-writer and does not parse FOR UPDATE, so the clause is postgres-only.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

type CreateBookingInput struct {
	VehicleID   *uuid.UUID
	ResidenceID *uuid.UUID
	StartDate   time.Time
	EndDate     time.Time

	WithDriver      bool
	Phone           string
	Email           string
	SpecialRequests string
}

// CreateBooking validates the request, prices the stay server-side and inserts
// the booking atomically with the availability check. Duration, subtotal, fees
// and total are always recomputed here, never trusted from the caller.
func CreateBooking(db *gorm.DB, clientID uuid.UUID, input CreateBookingInput) (*models.Booking, error) {
	if input.VehicleID != nil && input.ResidenceID != nil {
		return nil, &ValidationError{Message: "you can only book a vehicle OR a residence"}
	}
	if input.VehicleID == nil && input.ResidenceID == nil {
		return nil, &ValidationError{Message: "you must specify a vehicle or a residence"}
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, &ValidationError{Message: "end date must be after start date"}
	}
	if input.StartDate.Before(models.Today()) {
		return nil, &ValidationError{Message: "start date cannot be in the past"}
	}

	ref := models.AssetRef{Kind: models.AssetVehicle}
	if input.VehicleID != nil {
		ref.ID = *input.VehicleID
	} else {
		ref.Kind = models.AssetResidence
		ref.ID = *input.ResidenceID
	}

	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		// The lock on the asset row serializes concurrent bookings for it.
		asset, err := models.ResolveAsset(lockForUpdate(tx), ref)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Message: "asset not found"}
			}
			return err
		}
		if !asset.IsActive {
			return &ValidationError{Message: "this listing is not active"}
		}

		available, err := IsAvailable(tx, ref, input.StartDate, input.EndDate, nil)
		if err != nil {
			return err
		}
		if !available {
			return &ConflictError{Message: "asset is already booked for these dates"}
		}

		quote, err := Quote(asset, input.StartDate, input.EndDate)
		if err != nil {
			return err
		}

		booking = models.Booking{
			BookingNumber:   utils.GenerateBookingNumber(),
			ClientID:        clientID,
			AssetKind:       ref.Kind,
			AssetID:         ref.ID,
			StartDate:       input.StartDate,
			EndDate:         input.EndDate,
			Duration:        quote.Duration,
			WithDriver:      input.WithDriver,
			Phone:           input.Phone,
			Email:           input.Email,
			SpecialRequests: input.SpecialRequests,
			Subtotal:        quote.Subtotal,
			Fees:            quote.Fees,
			TotalPrice:      quote.Subtotal.Add(quote.Fees),
			Status:          models.BookingPending,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking moves a booking to cancelled on behalf of its client, computes
// the refund the cancellation ladder grants and opens the refund record in the
// same transaction. The returned refund is nil when nothing is owed or no
// completed payment exists to refund against.
func CancelBooking(db *gorm.DB, bookingID, clientID uuid.UUID, reason string) (*models.Booking, decimal.Decimal, *models.Refund, error) {
	var booking models.Booking
	var refund *models.Refund
	amount := decimal.Zero

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if booking.ClientID != clientID {
			return &PermissionError{Message: "this is not your booking"}
		}
		if !booking.CanBeCancelled() {
			return &StateError{Message: "this booking can no longer be cancelled"}
		}

		amount = booking.CalculateRefundAmount()

		now := time.Now()
		if reason == "" {
			reason = "Cancelled by client"
		}
		booking.Status = models.BookingCancelled
		booking.CancelledAt = &now
		booking.CancellationReason = reason
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		var err error
		refund, err = openCancellationRefund(tx, &booking, amount)
		return err
	})
	if err != nil {
		return nil, decimal.Zero, nil, err
	}
	return &booking, amount, refund, nil
}

// ConfirmBooking is the owner (or admin) accepting a pending booking.
func ConfirmBooking(db *gorm.DB, bookingID uuid.UUID, actor *models.User) (*models.Booking, error) {
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if err := requireOwnerOrStaff(tx, &booking, actor); err != nil {
			return err
		}
		if !booking.CanBeConfirmed() {
			return &StateError{Message: "this booking can no longer be confirmed"}
		}

		now := time.Now()
		booking.Status = models.BookingConfirmed
		booking.ConfirmedAt = &now
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// RejectBooking is the owner (or admin) declining a pending booking.
func RejectBooking(db *gorm.DB, bookingID uuid.UUID, actor *models.User, reason string) (*models.Booking, error) {
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if err := requireOwnerOrStaff(tx, &booking, actor); err != nil {
			return err
		}
		if !booking.CanBeRejected() {
			return &StateError{Message: "this booking can no longer be rejected"}
		}

		now := time.Now()
		if reason == "" {
			reason = "Rejected by owner"
		}
		booking.Status = models.BookingRejected
		booking.RejectedAt = &now
		booking.RejectionReason = reason
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// AttachTransactionNumber records the client's transfer reference and parks
// the booking until an admin validates the payment.
func AttachTransactionNumber(db *gorm.DB, bookingID, clientID uuid.UUID, transactionNumber string) (*models.Booking, error) {
	if transactionNumber == "" {
		return nil, &ValidationError{Message: "transaction number is required"}
	}

	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if booking.ClientID != clientID {
			return &PermissionError{Message: "this is not your booking"}
		}
		if booking.IsTerminal() {
			return &StateError{Message: "this booking can no longer receive a payment"}
		}

		booking.TransactionNumber = &transactionNumber
		booking.Status = models.BookingPendingPaymentVal
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func requireOwnerOrStaff(tx *gorm.DB, booking *models.Booking, actor *models.User) error {
	if actor.IsStaff() {
		return nil
	}
	asset, err := models.ResolveAsset(tx, models.AssetRef{Kind: booking.AssetKind, ID: booking.AssetID})
	if err != nil {
		return err
	}
	if asset.OwnerID != actor.ID {
		return &PermissionError{Message: "you are not the owner of this listing"}
	}
	return nil
}

type OwnerStats struct {
	TotalBookings int64           `json:"total_bookings"`
	Pending       int64           `json:"pending"`
	Confirmed     int64           `json:"confirmed"`
	Completed     int64           `json:"completed"`
	Cancelled     int64           `json:"cancelled"`
	Rejected      int64           `json:"rejected"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// GetOwnerStats aggregates booking counts and revenue across every listing
// the owner has.
func GetOwnerStats(db *gorm.DB, ownerID uuid.UUID) (*OwnerStats, error) {
	stats := &OwnerStats{TotalRevenue: decimal.Zero}
	if err := ownerBookingsQuery(db, ownerID).Count(&stats.TotalBookings).Error; err != nil {
		return nil, err
	}

	counts := map[string]*int64{
		models.BookingPending:   &stats.Pending,
		models.BookingConfirmed: &stats.Confirmed,
		models.BookingCompleted: &stats.Completed,
		models.BookingCancelled: &stats.Cancelled,
		models.BookingRejected:  &stats.Rejected,
	}
	for status, dst := range counts {
		if err := ownerBookingsQuery(db, ownerID).Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}

	var revenueBookings []models.Booking
	err := ownerBookingsQuery(db, ownerID).
		Where("status IN ?", []string{models.BookingConfirmed, models.BookingPaid, models.BookingCompleted}).
		Find(&revenueBookings).Error
	if err != nil {
		return nil, err
	}
	for _, b := range revenueBookings {
		stats.TotalRevenue = stats.TotalRevenue.Add(b.TotalPrice)
	}
	return stats, nil
}

// ListReceivedBookings returns the bookings made against the owner's listings.
func ListReceivedBookings(db *gorm.DB, ownerID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := ownerBookingsQuery(db, ownerID).
		Preload("Client").
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

func ownerBookingsQuery(db *gorm.DB, ownerID uuid.UUID) *gorm.DB {
	vehicleIDs := db.Model(&models.Vehicle{}).Select("id").Where("owner_id = ?", ownerID)
	residenceIDs := db.Model(&models.Residence{}).Select("id").Where("owner_id = ?", ownerID)

	return db.Model(&models.Booking{}).Where(
		db.Where("asset_kind = ? AND asset_id IN (?)", models.AssetVehicle, vehicleIDs).
			Or("asset_kind = ? AND asset_id IN (?)", models.AssetResidence, residenceIDs),
	)
}
