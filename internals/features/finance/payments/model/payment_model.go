// file: internals/features/finance/payments/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enum
========================= */

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSettled  PaymentStatus = "settled"
	PaymentFailed   PaymentStatus = "failed"
	PaymentExpired  PaymentStatus = "expired"
	PaymentRefunded PaymentStatus = "refunded"
)

/* =========================
   Model: PaymentModel
========================= */

type PaymentModel struct {
	// PK
	PaymentID uuid.UUID `json:"payment_id" gorm:"type:uuid;primaryKey;column:payment_id"`

	PaymentEnrollmentID uuid.UUID `json:"payment_enrollment_id" gorm:"type:uuid;not null;column:payment_enrollment_id;index"`

	// Order id sent to the payment gateway; webhook correlates on it.
	PaymentOrderID string `json:"payment_order_id" gorm:"type:varchar(64);not null;uniqueIndex:uq_payments_order_id;column:payment_order_id"`

	PaymentAmount      int64         `json:"payment_amount" gorm:"not null;column:payment_amount"`
	PaymentDescription *string       `json:"payment_description,omitempty" gorm:"type:text;column:payment_description"`
	PaymentStatus      PaymentStatus `json:"payment_status" gorm:"type:varchar(12);not null;default:'pending';column:payment_status;index"`

	PaymentSnapToken *string    `json:"payment_snap_token,omitempty" gorm:"type:text;column:payment_snap_token"`
	PaymentPaidAt    *time.Time `json:"payment_paid_at,omitempty" gorm:"column:payment_paid_at"`

	// Timestamps
	PaymentCreatedAt time.Time      `json:"payment_created_at" gorm:"column:payment_created_at;autoCreateTime"`
	PaymentUpdatedAt time.Time      `json:"payment_updated_at" gorm:"column:payment_updated_at;autoUpdateTime"`
	PaymentDeletedAt gorm.DeletedAt `json:"payment_deleted_at,omitempty" gorm:"column:payment_deleted_at;index"`
}

func (PaymentModel) TableName() string { return "payments" }

func (p *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
