// file: internals/features/finance/payments/service/payment_service.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollmentModel "acainfo_backend/internals/features/academics/enrollments/model"
	"acainfo_backend/internals/features/finance/payments/model"
	helper "acainfo_backend/internals/helpers"
)

/* =========================
   Errors
========================= */

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentAlreadySettledError struct {
	OrderID string
}

func (e *PaymentAlreadySettledError) Error() string {
	return fmt.Sprintf("payment %s is already settled", e.OrderID)
}

/* =========================
   Service & Constructor
========================= */

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

/* =========================
   Operations
========================= */

type CreateInput struct {
	EnrollmentID uuid.UUID
	StudentID    uuid.UUID
	Amount       int64
	Description  *string
}

// Create opens a pending payment for an enrollment. One pending payment per
// enrollment at a time; the order id is what the gateway webhook keys on.
func (s *Service) Create(in CreateInput) (*model.PaymentModel, error) {
	var created model.PaymentModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var enr enrollmentModel.EnrollmentModel
		if err := tx.First(&enr, "enrollment_id = ?", in.EnrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("enrollment not found")
			}
			return err
		}
		if enr.EnrollmentStudentID != in.StudentID {
			return errors.New("enrollment belongs to another student")
		}

		var pending int64
		if err := tx.Model(&model.PaymentModel{}).
			Where("payment_enrollment_id = ? AND payment_status = ?",
				in.EnrollmentID, model.PaymentPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return errors.New("enrollment already has a pending payment")
		}

		pay := model.PaymentModel{
			PaymentEnrollmentID: in.EnrollmentID,
			PaymentOrderID:      newOrderID(in.EnrollmentID, s.Now()),
			PaymentAmount:       in.Amount,
			PaymentDescription:  in.Description,
			PaymentStatus:       model.PaymentPending,
		}
		if err := tx.Create(&pay).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return errors.New("duplicate order id, retry")
			}
			return err
		}
		created = pay
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// AttachSnapToken stores the gateway token once it has been generated.
func (s *Service) AttachSnapToken(paymentID uuid.UUID, token string) error {
	return s.DB.Model(&model.PaymentModel{}).
		Where("payment_id = ?", paymentID).
		Update("payment_snap_token", token).Error
}

// ApplyGatewayStatus folds a webhook notification into the payment row.
// Settlement is recorded once; later duplicate notifications are no-ops.
func (s *Service) ApplyGatewayStatus(orderID, transactionStatus, fraudStatus string) (*model.PaymentModel, error) {
	var out model.PaymentModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var pay model.PaymentModel
		if err := helper.LockForUpdate(tx).
			First(&pay, "payment_order_id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		next := mapGatewayStatus(transactionStatus, fraudStatus)
		if next == pay.PaymentStatus {
			out = pay
			return nil
		}
		if pay.PaymentStatus == model.PaymentSettled && next != model.PaymentRefunded {
			return &PaymentAlreadySettledError{OrderID: orderID}
		}

		pay.PaymentStatus = next
		if next == model.PaymentSettled {
			now := s.Now()
			pay.PaymentPaidAt = &now
		}
		if err := tx.Save(&pay).Error; err != nil {
			return err
		}
		out = pay
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) GetByID(id uuid.UUID) (*model.PaymentModel, error) {
	var pay model.PaymentModel
	if err := s.DB.First(&pay, "payment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &pay, nil
}

func (s *Service) ListByEnrollment(enrollmentID uuid.UUID) ([]model.PaymentModel, error) {
	var out []model.PaymentModel
	err := s.DB.
		Where("payment_enrollment_id = ?", enrollmentID).
		Order("payment_created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) ListByStudent(studentID uuid.UUID) ([]model.PaymentModel, error) {
	var out []model.PaymentModel
	err := s.DB.
		Joins("JOIN enrollments ON enrollments.enrollment_id = payments.payment_enrollment_id AND enrollments.enrollment_deleted_at IS NULL").
		Where("enrollments.enrollment_student_id = ?", studentID).
		Order("payments.payment_created_at DESC").
		Find(&out).Error
	return out, err
}

/* =========================
   Internals
========================= */

// mapGatewayStatus folds Midtrans transaction_status/fraud_status pairs into
// the local enum.
func mapGatewayStatus(transactionStatus, fraudStatus string) model.PaymentStatus {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return model.PaymentSettled
		}
		return model.PaymentPending
	case "settlement":
		return model.PaymentSettled
	case "deny", "cancel", "failure":
		return model.PaymentFailed
	case "expire":
		return model.PaymentExpired
	case "refund", "partial_refund", "chargeback":
		return model.PaymentRefunded
	default:
		return model.PaymentPending
	}
}

func newOrderID(enrollmentID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("ACA-%s-%d", enrollmentID.String()[:8], now.UnixNano())
}
