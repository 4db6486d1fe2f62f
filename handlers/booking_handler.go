package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/zanloc/rental-backend/database"
	"github.com/zanloc/rental-backend/models"
	"github.com/zanloc/rental-backend/notifications"
	"github.com/zanloc/rental-backend/services"
	"gorm.io/gorm"
)

type CreateBookingRequest struct {
	VehicleID   *string `json:"vehicle_id,omitempty" validate:"omitempty,uuid"`
	ResidenceID *string `json:"residence_id,omitempty" validate:"omitempty,uuid"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`

	WithDriver      bool   `json:"with_driver,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start date, expected YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end date, expected YYYY-MM-DD")
	}
	return startDate, endDate, nil
}

func serviceError(c *fiber.Ctx, err error) error {
	return c.Status(services.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
}

func CreateBooking(c *fiber.Ctx) error {
	clientID := currentUserID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	input := services.CreateBookingInput{
		StartDate:       startDate,
		EndDate:         endDate,
		WithDriver:      req.WithDriver,
		Phone:           req.Phone,
		Email:           req.Email,
		SpecialRequests: req.SpecialRequests,
	}
	if req.VehicleID != nil {
		id, _ := uuid.Parse(*req.VehicleID)
		input.VehicleID = &id
	}
	if req.ResidenceID != nil {
		id, _ := uuid.Parse(*req.ResidenceID)
		input.ResidenceID = &id
	}

	booking, err := services.CreateBooking(database.DB, clientID, input)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

func GetMyBookings(c *fiber.Ctx) error {
	var bookings []models.Booking
	err := database.DB.
		Where("client_id = ?", currentUserID(c)).
		Order("created_at desc").
		Find(&bookings).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(bookings)
}

func GetReceivedBookings(c *fiber.Ctx) error {
	bookings, err := services.ListReceivedBookings(database.DB, currentUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(bookings)
}

type ReasonRequest struct {
	Reason string `json:"reason,omitempty"`
}

func CancelBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var req ReasonRequest
	_ = c.BodyParser(&req)

	booking, refundAmount, refund, err := services.CancelBooking(database.DB, bookingID, currentUserID(c), req.Reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "Booking cancelled successfully",
		"refund_amount": refundAmount,
		"refund":        refund,
		"booking":       booking,
	})
}

func ConfirmBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	actor, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	booking, err := services.ConfirmBooking(database.DB, bookingID, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return serviceError(c, err)
	}

	go notifyBookingStatus(booking, "Your booking is confirmed!",
		fmt.Sprintf("<h1>Booking Confirmed</h1><p>Your booking %s has been accepted by the owner. You can now proceed with the payment.</p>", booking.BookingNumber))

	return c.JSON(fiber.Map{"message": "Booking confirmed", "booking": booking})
}

func RejectBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	actor, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req ReasonRequest
	_ = c.BodyParser(&req)

	booking, err := services.RejectBooking(database.DB, bookingID, actor, req.Reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return serviceError(c, err)
	}

	go notifyBookingStatus(booking, "Your booking was declined",
		fmt.Sprintf("<h1>Booking Declined</h1><p>Your booking %s was declined: %s</p>", booking.BookingNumber, booking.RejectionReason))

	return c.JSON(fiber.Map{"message": "Booking rejected", "booking": booking})
}

type AttachTransactionRequest struct {
	TransactionNumber string `json:"transaction_number" validate:"required"`
}

func AttachTransactionNumber(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var req AttachTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := services.AttachTransactionNumber(database.DB, bookingID, currentUserID(c), req.TransactionNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Transaction number recorded, awaiting validation", "booking": booking})
}

func GetRefundPreview(c *fiber.Ctx) error {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", c.Params("bookingId")).Error; err != nil {
		return notFoundOrServerError(c, err, "Booking not found")
	}
	if booking.ClientID != currentUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}

	return c.JSON(fiber.Map{
		"refund_amount": booking.CalculateRefundAmount(),
		"total_price":   booking.TotalPrice,
	})
}

func GetOwnerStats(c *fiber.Ctx) error {
	stats, err := services.GetOwnerStats(database.DB, currentUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(stats)
}

type ReviewRequest struct {
	Rating              int    `json:"rating" validate:"required,min=1,max=5"`
	Comment             string `json:"comment" validate:"required"`
	CleanlinessRating   *int   `json:"cleanliness_rating,omitempty" validate:"omitempty,min=1,max=5"`
	CommunicationRating *int   `json:"communication_rating,omitempty" validate:"omitempty,min=1,max=5"`
	ValueRating         *int   `json:"value_rating,omitempty" validate:"omitempty,min=1,max=5"`
}

func CreateBookingReview(c *fiber.Ctx) error {
	clientID := currentUserID(c)
	bookingID := c.Params("bookingId")

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var newReview models.BookingReview
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			return errors.New("booking not found")
		}
		if booking.ClientID != clientID {
			return errors.New("you are not the client for this booking")
		}
		if booking.Status != models.BookingCompleted {
			return errors.New("reviews can only be submitted for completed bookings")
		}

		var existingReview models.BookingReview
		if err := tx.Where("booking_id = ?", bookingID).First(&existingReview).Error; err == nil {
			return errors.New("a review for this booking has already been submitted")
		}

		newReview = models.BookingReview{
			BookingID:           booking.ID,
			Rating:              req.Rating,
			Comment:             req.Comment,
			CleanlinessRating:   req.CleanlinessRating,
			CommunicationRating: req.CommunicationRating,
			ValueRating:         req.ValueRating,
		}
		if err := tx.Create(&newReview).Error; err != nil {
			return err
		}

		if booking.AssetKind != models.AssetResidence {
			return nil
		}

		var result struct {
			Avg   float64
			Count int64
		}
		tx.Model(&models.BookingReview{}).
			Joins("JOIN bookings ON bookings.id = booking_reviews.booking_id").
			Where("bookings.asset_kind = ? AND bookings.asset_id = ?", booking.AssetKind, booking.AssetID).
			Select("avg(rating) as avg, count(*) as count").
			Scan(&result)

		return tx.Model(&models.Residence{}).
			Where("id = ?", booking.AssetID).
			Updates(map[string]interface{}{
				"rating_average": result.Avg,
				"reviews_count":  result.Count,
			}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(newReview)
}

func notifyBookingStatus(booking *models.Booking, subject, body string) {
	var client models.User
	if err := database.DB.First(&client, "id = ?", booking.ClientID).Error; err != nil {
		return
	}
	notifications.SendEmail(client.FullName, client.Email, subject, body)
}
