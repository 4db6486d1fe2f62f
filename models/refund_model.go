package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RefundPending    = "pending"
	RefundProcessing = "processing"
	RefundCompleted  = "completed"
	RefundFailed     = "failed"
)

type Refund struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RefundID string    `gorm:"size:100;not null;unique" json:"refund_id"`

	PaymentID uuid.UUID `gorm:"not null;index" json:"payment_id"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`

	Reason        string `gorm:"size:20;not null" json:"reason"`
	ReasonDetails string `gorm:"type:text" json:"reason_details"`
	Status        string `gorm:"size:20;not null;default:'pending'" json:"status"`

	Payment Payment `gorm:"foreignkey:PaymentID" json:"payment,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (r *Refund) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
