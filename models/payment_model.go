package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment statuses. A payment is created PENDING, moves to processing once the
// client submits a proof, and ends COMPLETED or FAILED after admin review.
const (
	PaymentPending    = "PENDING"
	PaymentProcessing = "processing"
	PaymentCompleted  = "COMPLETED"
	PaymentFailed     = "FAILED"
)

type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID string    `gorm:"size:100;not null;unique" json:"transaction_id"`

	BookingID uuid.UUID `gorm:"not null;index" json:"booking_id"`
	UserID    uuid.UUID `gorm:"not null;index" json:"user_id"`

	Amount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency string          `gorm:"size:3;default:'XOF'" json:"currency"`

	PlatformCommission decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"platform_commission"`
	OwnerAmount        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"owner_amount"`

	PaymentMethod string `gorm:"size:30;not null;default:'mobile_money'" json:"payment_method"`
	Status        string `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	PhoneNumber string `gorm:"size:20" json:"phone_number"`
	Description string `gorm:"type:text" json:"description"`

	// Manual flow: the client uploads a transfer screenshot somewhere opaque
	// and hands us its reference plus the transfer number.
	PaymentProofURL  *string `gorm:"size:500" json:"payment_proof_url"`
	PaymentReference string  `gorm:"size:100" json:"payment_reference"`

	VerifiedByID *uuid.UUID `json:"verified_by_id"`
	VerifiedAt   *time.Time `json:"verified_at"`

	ReceiptURL *string `gorm:"size:500" json:"receipt_url"`

	ErrorMessage string `gorm:"type:text" json:"error_message"`

	Booking    Booking `gorm:"foreignkey:BookingID" json:"booking,omitempty"`
	User       User    `gorm:"foreignkey:UserID" json:"user,omitempty"`
	VerifiedBy *User   `gorm:"foreignkey:VerifiedByID" json:"verified_by,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ApplyCommissionSplit derives platform_commission and owner_amount from the
// amount. It only runs while owner_amount is unset so an already derived split
// is never overwritten.
func (p *Payment) ApplyCommissionSplit(rate decimal.Decimal) {
	if !p.OwnerAmount.IsZero() || p.Amount.IsZero() {
		return
	}
	p.PlatformCommission = p.Amount.Mul(rate).Round(2)
	p.OwnerAmount = p.Amount.Sub(p.PlatformCommission)
}
