package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zanloc/rental-backend/models"
	"github.com/zanloc/rental-backend/utils"
	"gorm.io/gorm"
)

// PaymentProvider is the strategy selected at startup. The manual provider
// drives the proof-upload/admin-verification flow; a gateway provider is an
// opaque external service that reports success or failure on its own.
type PaymentProvider interface {
	Name() string
	// Initiate runs right after the payment record is created and returns the
	// instruction message for the client.
	Initiate(p *models.Payment) (string, error)
}

type ManualProvider struct{}

func (ManualProvider) Name() string { return "manual" }

func (ManualProvider) Initiate(p *models.Payment) (string, error) {
	return "Payment created. Please submit your payment proof.", nil
}

type GatewayProvider struct {
	Provider string
}

func (g GatewayProvider) Name() string { return g.Provider }

func (g GatewayProvider) Initiate(p *models.Payment) (string, error) {
	return fmt.Sprintf("Payment created. Complete the checkout with %s.", g.Provider), nil
}

// NewPaymentProvider maps the configured provider name onto a strategy.
func NewPaymentProvider(name string) PaymentProvider {
	if name == "" || name == "manual" {
		return ManualProvider{}
	}
	return GatewayProvider{Provider: name}
}

// CreatePayment opens a payment attempt for a booking. The amount is always
// the booking's total; the commission split is derived once at creation.
func CreatePayment(db *gorm.DB, provider PaymentProvider, commissionRate decimal.Decimal, clientID, bookingID uuid.UUID, method string) (*models.Payment, string, error) {
	if method == "" {
		method = "mobile_money"
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if booking.ClientID != clientID {
			return &PermissionError{Message: "this is not your booking"}
		}
		if booking.IsTerminal() {
			return &StateError{Message: "this booking can no longer be paid"}
		}

		payment = models.Payment{
			TransactionID: utils.GenerateTransactionID(),
			BookingID:     booking.ID,
			UserID:        clientID,
			Amount:        booking.TotalPrice,
			PaymentMethod: method,
			Status:        models.PaymentPending,
		}
		payment.ApplyCommissionSplit(commissionRate)
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, "", err
	}

	message, err := provider.Initiate(&payment)
	if err != nil {
		return nil, "", err
	}
	return &payment, message, nil
}

// SubmitProof attaches the client's transfer evidence and moves the payment
// into admin review.
func SubmitProof(db *gorm.DB, paymentID, userID uuid.UUID, proofURL, reference string) (*models.Payment, error) {
	if proofURL == "" {
		return nil, &ValidationError{Message: "no payment proof provided"}
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&payment, "id = ?", paymentID).Error; err != nil {
			return err
		}
		if payment.UserID != userID {
			return &PermissionError{Message: "this is not your payment"}
		}
		if payment.Status == models.PaymentCompleted {
			return &StateError{Message: "this payment is already completed"}
		}

		payment.PaymentProofURL = &proofURL
		payment.PaymentReference = reference
		payment.Status = models.PaymentProcessing
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ApprovePayment completes a payment after the admin has checked the proof and
// marks the booking paid. Approving twice is refused without re-applying
// anything, and a booking can never end up with two completed payments: the
// booking row is locked before the duplicate check, so concurrent approvals
// for the same booking run one at a time and the loser sees the winner.
func ApprovePayment(db *gorm.DB, paymentID uuid.UUID, admin *models.User) (*models.Payment, error) {
	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&payment, "id = ?", paymentID).Error; err != nil {
			return err
		}
		// A payment can be approved straight from PENDING; cash and offline
		// transfers never get a proof submitted.
		if payment.Status == models.PaymentCompleted {
			return &StateError{Message: "this payment is already completed"}
		}

		var booking models.Booking
		if err := lockForUpdate(tx).First(&booking, "id = ?", payment.BookingID).Error; err != nil {
			return err
		}

		var completed int64
		err := tx.Model(&models.Payment{}).
			Where("booking_id = ? AND status = ? AND id <> ?", payment.BookingID, models.PaymentCompleted, payment.ID).
			Count(&completed).Error
		if err != nil {
			return err
		}
		if completed > 0 {
			return &StateError{Message: "another payment already completed this booking"}
		}

		now := time.Now()
		payment.Status = models.PaymentCompleted
		payment.VerifiedByID = &admin.ID
		payment.VerifiedAt = &now
		payment.CompletedAt = &now
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		booking.Status = models.BookingPaid
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// RejectPayment fails a payment after review. The booking is untouched so the
// client can open a new attempt.
func RejectPayment(db *gorm.DB, paymentID uuid.UUID, admin *models.User, reason string) (*models.Payment, error) {
	if reason == "" {
		reason = "Invalid payment proof"
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&payment, "id = ?", paymentID).Error; err != nil {
			return err
		}
		if payment.Status == models.PaymentCompleted {
			return &StateError{Message: "this payment is already completed"}
		}

		payment.Status = models.PaymentFailed
		payment.ErrorMessage = fmt.Sprintf("Rejected by %s: %s", admin.FullName, reason)
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPendingVerifications returns the payments waiting for an admin decision.
func ListPendingVerifications(db *gorm.DB) ([]models.Payment, error) {
	var payments []models.Payment
	err := db.Preload("User").Preload("Booking").
		Where("status = ?", models.PaymentProcessing).
		Order("created_at asc").
		Find(&payments).Error
	return payments, err
}

// openCancellationRefund opens a refund record for the completed payment of a
// cancelled booking, sized by the cancellation ladder. Runs inside the cancel
// transaction so the booking never ends up cancelled without its refund.
func openCancellationRefund(tx *gorm.DB, booking *models.Booking, amount decimal.Decimal) (*models.Refund, error) {
	if amount.IsZero() {
		return nil, nil
	}

	var payment models.Payment
	err := tx.Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCompleted).
		First(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	refund := &models.Refund{
		RefundID:  utils.GenerateRefundID(),
		PaymentID: payment.ID,
		Amount:    amount,
		Reason:    "cancellation",
		Status:    models.RefundPending,
	}
	if err := tx.Create(refund).Error; err != nil {
		return nil, err
	}
	return refund, nil
}

// ProcessRefund completes or fails a pending refund; completing one moves the
// underlying booking to refunded.
func ProcessRefund(db *gorm.DB, refundID uuid.UUID, approve bool) (*models.Refund, error) {
	var refund models.Refund
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&refund, "id = ?", refundID).Error; err != nil {
			return err
		}
		if refund.Status != models.RefundPending && refund.Status != models.RefundProcessing {
			return &StateError{Message: "this refund has already been processed"}
		}

		now := time.Now()
		if !approve {
			refund.Status = models.RefundFailed
			return tx.Save(&refund).Error
		}

		refund.Status = models.RefundCompleted
		refund.CompletedAt = &now
		if err := tx.Save(&refund).Error; err != nil {
			return err
		}

		var payment models.Payment
		if err := tx.First(&payment, "id = ?", refund.PaymentID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Booking{}).
			Where("id = ?", payment.BookingID).
			Update("status", models.BookingRefunded).Error
	})
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

// CreatePayout bundles the owner shares of the owner's completed, not yet paid
// out payments into one payout record.
func CreatePayout(db *gorm.DB, ownerID uuid.UUID, method, accountDetails string) (*models.Payout, error) {
	var payout models.Payout
	err := db.Transaction(func(tx *gorm.DB) error {
		ownerBookingIDs := ownerBookingsQuery(tx, ownerID).Select("id")

		var payments []models.Payment
		err := tx.
			Where("status = ?", models.PaymentCompleted).
			Where("booking_id IN (?)", ownerBookingIDs).
			Where("id NOT IN (?)", tx.Table("payout_payments").Select("payment_id")).
			Find(&payments).Error
		if err != nil {
			return err
		}
		if len(payments) == 0 {
			return &ValidationError{Message: "no completed payments awaiting payout"}
		}

		total := decimal.Zero
		included := make([]*models.Payment, 0, len(payments))
		for i := range payments {
			included = append(included, &payments[i])
			total = total.Add(payments[i].OwnerAmount)
		}

		payout = models.Payout{
			PayoutID:       utils.GeneratePayoutID(),
			OwnerID:        ownerID,
			Amount:         total,
			Payments:       included,
			PaymentMethod:  method,
			AccountDetails: accountDetails,
			Status:         models.PayoutPending,
		}
		return tx.Create(&payout).Error
	})
	if err != nil {
		return nil, err
	}
	return &payout, nil
}
