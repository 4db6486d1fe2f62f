package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/zanloc/rental-backend/configs"
	"github.com/zanloc/rental-backend/database"
	"github.com/zanloc/rental-backend/models"
	"github.com/zanloc/rental-backend/notifications"
	"github.com/zanloc/rental-backend/services"
	"gorm.io/gorm"
)

// paymentProvider is the strategy selected once at startup, not a runtime
// toggle.
var paymentProvider services.PaymentProvider = services.ManualProvider{}

func InitPaymentProvider() {
	paymentProvider = services.NewPaymentProvider(config.PaymentProviderName())
	log.Printf("✅ Payment provider: %s", paymentProvider.Name())
}

type CreatePaymentRequest struct {
	BookingID     string `json:"booking_id" validate:"required,uuid"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"omitempty,oneof=mobile_money orange_money mtn_money moov_money wave card cash bank_transfer"`
}

func CreatePayment(c *fiber.Ctx) error {
	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	bookingID, _ := uuid.Parse(req.BookingID)
	payment, message, err := services.CreatePayment(
		database.DB, paymentProvider, config.CommissionRate(),
		currentUserID(c), bookingID, req.PaymentMethod,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":        true,
		"payment_id":     payment.ID,
		"transaction_id": payment.TransactionID,
		"amount":         payment.Amount,
		"status":         payment.Status,
		"payment_method": payment.PaymentMethod,
		"message":        message,
		"manual_mode":    paymentProvider.Name() == "manual",
	})
}

type SubmitProofRequest struct {
	PaymentProofURL  string `json:"payment_proof_url" validate:"required,url"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

func SubmitPaymentProof(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	var req SubmitProofRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payment, err := services.SubmitProof(database.DB, paymentID, currentUserID(c), req.PaymentProofURL, req.PaymentReference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
		}
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment proof submitted. Awaiting admin verification.",
		"payment": payment,
	})
}

func GetMyPayments(c *fiber.Ctx) error {
	var payments []models.Payment
	err := database.DB.
		Preload("Booking").
		Where("user_id = ?", currentUserID(c)).
		Order("created_at desc").
		Find(&payments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(payments)
}

type VerifyPaymentRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason,omitempty"`
}

func VerifyPayment(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	admin, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Action == "approve" {
		payment, err := services.ApprovePayment(database.DB, paymentID, admin)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
			}
			return serviceError(c, err)
		}

		go services.GenerateReceipt(database.DB, payment.ID)
		go notifyPaymentStatus(payment, "Payment approved",
			fmt.Sprintf("<h1>Payment Approved</h1><p>Your payment %s has been verified. Your booking is now paid.</p>", payment.TransactionID))

		return c.JSON(fiber.Map{"success": true, "message": "Payment approved", "payment": payment})
	}

	payment, err := services.RejectPayment(database.DB, paymentID, admin, req.Reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
		}
		return serviceError(c, err)
	}

	go notifyPaymentStatus(payment, "Payment rejected",
		fmt.Sprintf("<h1>Payment Rejected</h1><p>Your payment %s was rejected: %s. You can submit a new payment.</p>", payment.TransactionID, payment.ErrorMessage))

	return c.JSON(fiber.Map{"success": true, "message": "Payment rejected", "payment": payment})
}

func ListPendingPayments(c *fiber.Ctx) error {
	payments, err := services.ListPendingVerifications(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"count": len(payments), "payments": payments})
}

func notifyPaymentStatus(payment *models.Payment, subject, body string) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", payment.UserID).Error; err != nil {
		return
	}
	notifications.SendEmail(user.FullName, user.Email, subject, body)
}
