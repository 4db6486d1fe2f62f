package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking statuses. A booking in any of the blocking statuses reserves its
// date range against the asset.
const (
	BookingPending           = "pending"
	BookingPendingPaymentVal = "pending_payment_validation"
	BookingConfirmed         = "confirmed"
	BookingPaid              = "paid"
	BookingOngoing           = "ongoing"
	BookingCompleted         = "completed"
	BookingCancelled         = "cancelled"
	BookingRejected          = "rejected"
	BookingRefunded          = "refunded"
)

// BlockingStatuses are the statuses that hold a date range against an asset.
var BlockingStatuses = []string{BookingPending, BookingConfirmed, BookingPaid, BookingOngoing}

// TerminalStatuses admit no further transitions.
var TerminalStatuses = []string{BookingCompleted, BookingCancelled, BookingRejected, BookingRefunded}

type Booking struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingNumber string    `gorm:"size:20;not null;unique" json:"booking_number"`

	ClientID uuid.UUID `gorm:"not null;index" json:"client_id"`

	AssetKind AssetKind `gorm:"size:20;not null;index:idx_bookings_asset" json:"asset_kind"`
	AssetID   uuid.UUID `gorm:"not null;index:idx_bookings_asset" json:"asset_id"`

	// Half-open range: [StartDate, EndDate). Checkout day equals the next
	// booking's checkin day without conflict.
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	Duration  int       `gorm:"not null" json:"duration"`

	WithDriver      bool   `gorm:"default:false" json:"with_driver"`
	Phone           string `gorm:"size:20" json:"phone"`
	Email           string `gorm:"size:255" json:"email"`
	SpecialRequests string `gorm:"type:text" json:"special_requests"`

	Subtotal   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Fees       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"fees"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`

	TransactionNumber *string `gorm:"size:100" json:"transaction_number"`

	Status string `gorm:"size:40;not null;default:'pending';index:,composite:status_start" json:"status"`

	ConfirmedAt        *time.Time `json:"confirmed_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `gorm:"type:text" json:"cancellation_reason"`
	RejectedAt         *time.Time `json:"rejected_at"`
	RejectionReason    string     `gorm:"type:text" json:"rejection_reason"`

	Client User `gorm:"foreignkey:ClientID" json:"client,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Booking) IsTerminal() bool {
	for _, s := range TerminalStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// CanBeCancelled reports whether the client may still cancel: not terminal and
// the rental has not yet started.
func (b *Booking) CanBeCancelled() bool {
	if b.IsTerminal() {
		return false
	}
	return b.StartDate.After(Today())
}

func (b *Booking) CanBeConfirmed() bool {
	return b.Status == BookingPending
}

func (b *Booking) CanBeRejected() bool {
	return b.Status == BookingPending
}

// CalculateRefundAmount applies the cancellation ladder. Only bookings the
// platform could still owe money on (pending, confirmed, paid) are eligible.
//
//	> 30 days out: 100%   15-30 days: 75%   8-14 days: 50%   <= 7 days: 0%
func (b *Booking) CalculateRefundAmount() decimal.Decimal {
	if b.Status != BookingPending && b.Status != BookingConfirmed && b.Status != BookingPaid {
		return decimal.Zero
	}

	daysUntilStart := int(b.StartDate.Sub(Today()).Hours() / 24)

	switch {
	case daysUntilStart > 30:
		return b.TotalPrice
	case daysUntilStart > 14:
		return b.TotalPrice.Mul(decimal.RequireFromString("0.75")).Round(2)
	case daysUntilStart > 7:
		return b.TotalPrice.Mul(decimal.RequireFromString("0.5")).Round(2)
	default:
		return decimal.Zero
	}
}

// Today returns the current date truncated to midnight UTC. Booking dates are
// date-only values compared against this.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
