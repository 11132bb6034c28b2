// file: internals/features/academics/enrollments/model/enrollment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enum
========================= */

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentApproved  EnrollmentStatus = "approved"
	EnrollmentRejected  EnrollmentStatus = "rejected"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

/* =========================
   Model: EnrollmentModel
========================= */

// EnrollmentModel is a student's membership request in a group. At most one
// live (pending or approved) enrollment may exist per (student, group);
// production DDL backs this with a partial unique index on live rows, the
// service enforces it inside the request transaction. A cancelled or rejected
// row never blocks a fresh request.
type EnrollmentModel struct {
	// PK
	EnrollmentID uuid.UUID `json:"enrollment_id" gorm:"type:uuid;primaryKey;column:enrollment_id"`

	EnrollmentStudentID uuid.UUID `json:"enrollment_student_id" gorm:"type:uuid;not null;column:enrollment_student_id;index:idx_enrollments_student_group"`
	EnrollmentGroupID   uuid.UUID `json:"enrollment_group_id" gorm:"type:uuid;not null;column:enrollment_group_id;index:idx_enrollments_student_group;index"`

	EnrollmentStatus EnrollmentStatus `json:"enrollment_status" gorm:"type:varchar(12);not null;default:'pending';column:enrollment_status;index"`

	EnrollmentRequestedAt time.Time  `json:"enrollment_requested_at" gorm:"column:enrollment_requested_at;autoCreateTime"`
	EnrollmentDecidedAt   *time.Time `json:"enrollment_decided_at,omitempty" gorm:"column:enrollment_decided_at"`
	EnrollmentDecidedBy   *uuid.UUID `json:"enrollment_decided_by,omitempty" gorm:"type:uuid;column:enrollment_decided_by"`

	// Timestamps
	EnrollmentCreatedAt time.Time      `json:"enrollment_created_at" gorm:"column:enrollment_created_at;autoCreateTime"`
	EnrollmentUpdatedAt time.Time      `json:"enrollment_updated_at" gorm:"column:enrollment_updated_at;autoUpdateTime"`
	EnrollmentDeletedAt gorm.DeletedAt `json:"enrollment_deleted_at,omitempty" gorm:"column:enrollment_deleted_at;index"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }

func (e *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if e.EnrollmentID == uuid.Nil {
		e.EnrollmentID = uuid.New()
	}
	return nil
}
