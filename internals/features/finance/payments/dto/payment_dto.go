// file: internals/features/finance/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"acainfo_backend/internals/features/finance/payments/model"
)

/* =========================
   Requests
========================= */

type CreatePaymentRequest struct {
	EnrollmentID uuid.UUID `json:"enrollment_id" validate:"required"`
	Amount       int64     `json:"amount" validate:"required,min=1"`
	Description  *string   `json:"description" validate:"omitempty,max=500"`
}

func (r CreatePaymentRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

// GatewayNotificationRequest is the subset of the Midtrans HTTP notification
// the webhook consumes.
type GatewayNotificationRequest struct {
	OrderID           string `json:"order_id" validate:"required"`
	TransactionStatus string `json:"transaction_status" validate:"required"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
	GrossAmount       string `json:"gross_amount"`
	StatusCode        string `json:"status_code"`
}

func (r GatewayNotificationRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

/* =========================
   Responses
========================= */

type PaymentResponse struct {
	PaymentID           string     `json:"payment_id"`
	PaymentEnrollmentID string     `json:"payment_enrollment_id"`
	PaymentOrderID      string     `json:"payment_order_id"`
	PaymentAmount       int64      `json:"payment_amount"`
	PaymentDescription  *string    `json:"payment_description,omitempty"`
	PaymentStatus       string     `json:"payment_status"`
	PaymentSnapToken    *string    `json:"payment_snap_token,omitempty"`
	PaymentPaidAt       *time.Time `json:"payment_paid_at,omitempty"`
	PaymentCreatedAt    time.Time  `json:"payment_created_at"`
}

func NewPaymentResponse(m *model.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:           m.PaymentID.String(),
		PaymentEnrollmentID: m.PaymentEnrollmentID.String(),
		PaymentOrderID:      m.PaymentOrderID,
		PaymentAmount:       m.PaymentAmount,
		PaymentDescription:  m.PaymentDescription,
		PaymentStatus:       string(m.PaymentStatus),
		PaymentSnapToken:    m.PaymentSnapToken,
		PaymentPaidAt:       m.PaymentPaidAt,
		PaymentCreatedAt:    m.PaymentCreatedAt,
	}
}

func NewPaymentResponses(ms []model.PaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewPaymentResponse(&ms[i]))
	}
	return out
}

type CreatePaymentResponse struct {
	Payment     PaymentResponse `json:"payment"`
	SnapToken   string          `json:"snap_token"`
	RedirectURL string          `json:"redirect_url"`
}
