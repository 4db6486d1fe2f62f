package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/zanloc/rental-backend/database"
	"github.com/zanloc/rental-backend/models"
	"github.com/zanloc/rental-backend/services"
	"gorm.io/gorm"
)

func AdminGetAllBookings(c *fiber.Ctx) error {
	query := database.DB.Preload("Client").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(bookings)
}

func AdminGetPayments(c *fiber.Ctx) error {
	query := database.DB.Preload("User").Preload("Booking").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(payments)
}

func AdminListRefunds(c *fiber.Ctx) error {
	var refunds []models.Refund
	err := database.DB.Preload("Payment").
		Order("created_at desc").
		Find(&refunds).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(refunds)
}

type ProcessRefundRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

func AdminProcessRefund(c *fiber.Ctx) error {
	refundID, err := uuid.Parse(c.Params("refundId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid refund ID"})
	}

	var req ProcessRefundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	refund, err := services.ProcessRefund(database.DB, refundID, req.Action == "approve")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Refund not found"})
		}
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "refund": refund})
}

type RequestPayoutRequest struct {
	PaymentMethod  string `json:"payment_method" validate:"required"`
	AccountDetails string `json:"account_details" validate:"required"`
}

func RequestPayout(c *fiber.Ctx) error {
	var req RequestPayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payout, err := services.CreatePayout(database.DB, currentUserID(c), req.PaymentMethod, req.AccountDetails)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payout)
}

func AdminListPayouts(c *fiber.Ctx) error {
	var payouts []models.Payout
	err := database.DB.Preload("Owner").
		Order("created_at desc").
		Find(&payouts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(payouts)
}

type ProcessPayoutRequest struct {
	Action string `json:"action" validate:"required,oneof=complete fail"`
}

func AdminProcessPayout(c *fiber.Ctx) error {
	payoutID, err := uuid.Parse(c.Params("payoutId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout ID"})
	}

	var req ProcessPayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payout models.Payout
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payout, "id = ?", payoutID).Error; err != nil {
			return err
		}
		if payout.Status == models.PayoutCompleted || payout.Status == models.PayoutFailed {
			return errors.New("this payout has already been processed")
		}

		if req.Action == "complete" {
			now := time.Now()
			payout.Status = models.PayoutCompleted
			payout.CompletedAt = &now
		} else {
			payout.Status = models.PayoutFailed
		}
		return tx.Save(&payout).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payout not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "payout": payout})
}

func AdminGetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(users)
}

func AdminToggleUserStatus(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}
	return c.JSON(fiber.Map{"id": user.ID, "is_active": user.IsActive})
}
