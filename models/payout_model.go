package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PayoutPending    = "pending"
	PayoutProcessing = "processing"
	PayoutCompleted  = "completed"
	PayoutFailed     = "failed"
)

// Payout groups the owner shares of completed payments into one transfer to
// the owner.
type Payout struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PayoutID string    `gorm:"size:100;not null;unique" json:"payout_id"`

	OwnerID uuid.UUID `gorm:"not null;index" json:"owner_id"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`

	Payments []*Payment `gorm:"many2many:payout_payments;" json:"payments,omitempty"`

	PaymentMethod  string `gorm:"size:50" json:"payment_method"`
	AccountDetails string `gorm:"type:text" json:"account_details"`
	Status         string `gorm:"size:20;not null;default:'pending'" json:"status"`

	Owner User `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (p *Payout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
