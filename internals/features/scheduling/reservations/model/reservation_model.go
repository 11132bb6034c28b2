// file: internals/features/scheduling/reservations/model/reservation_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enums
========================= */

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

type ReservationMode string

const (
	ReservationModeInPerson ReservationMode = "in_person"
	ReservationModeOnline   ReservationMode = "online"
)

type OnlineRequestStatus string

const (
	OnlineRequestPending  OnlineRequestStatus = "pending"
	OnlineRequestApproved OnlineRequestStatus = "approved"
	OnlineRequestRejected OnlineRequestStatus = "rejected"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func (a AttendanceStatus) Valid() bool {
	switch a {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

/* =========================
   Model: ReservationModel
========================= */

// ReservationModel is one student's seat claim on one session. At most one
// confirmed reservation may exist per (student, session); production DDL backs
// this with a partial unique index on live rows, the service enforces it under
// a session row lock.
type ReservationModel struct {
	// PK
	ReservationID uuid.UUID `json:"reservation_id" gorm:"type:uuid;primaryKey;column:reservation_id"`

	ReservationStudentID    uuid.UUID `json:"reservation_student_id" gorm:"type:uuid;not null;column:reservation_student_id;index:idx_reservations_student_session"`
	ReservationSessionID    uuid.UUID `json:"reservation_session_id" gorm:"type:uuid;not null;column:reservation_session_id;index:idx_reservations_student_session;index"`
	ReservationEnrollmentID uuid.UUID `json:"reservation_enrollment_id" gorm:"type:uuid;not null;column:reservation_enrollment_id;index"`

	ReservationMode   ReservationMode   `json:"reservation_mode" gorm:"type:varchar(12);not null;default:'in_person';column:reservation_mode"`
	ReservationStatus ReservationStatus `json:"reservation_status" gorm:"type:varchar(12);not null;default:'confirmed';column:reservation_status;index"`

	// Online-attendance request workflow (student asks, teacher decides).
	ReservationOnlineRequestStatus *OnlineRequestStatus `json:"reservation_online_request_status,omitempty" gorm:"type:varchar(12);column:reservation_online_request_status"`
	ReservationOnlineRequestedAt   *time.Time           `json:"reservation_online_requested_at,omitempty" gorm:"column:reservation_online_requested_at"`
	ReservationOnlineDecidedBy     *uuid.UUID           `json:"reservation_online_decided_by,omitempty" gorm:"type:uuid;column:reservation_online_decided_by"`

	// Attendance is written exactly once, after the session started.
	ReservationAttendanceStatus     *AttendanceStatus `json:"reservation_attendance_status,omitempty" gorm:"type:varchar(12);column:reservation_attendance_status"`
	ReservationAttendanceRecordedBy *uuid.UUID        `json:"reservation_attendance_recorded_by,omitempty" gorm:"type:uuid;column:reservation_attendance_recorded_by"`
	ReservationAttendanceRecordedAt *time.Time        `json:"reservation_attendance_recorded_at,omitempty" gorm:"column:reservation_attendance_recorded_at"`

	// Timestamps
	ReservationCreatedAt time.Time      `json:"reservation_created_at" gorm:"column:reservation_created_at;autoCreateTime"`
	ReservationUpdatedAt time.Time      `json:"reservation_updated_at" gorm:"column:reservation_updated_at;autoUpdateTime"`
	ReservationDeletedAt gorm.DeletedAt `json:"reservation_deleted_at,omitempty" gorm:"column:reservation_deleted_at;index"`
}

func (ReservationModel) TableName() string { return "session_reservations" }

func (r *ReservationModel) BeforeCreate(tx *gorm.DB) error {
	if r.ReservationID == uuid.Nil {
		r.ReservationID = uuid.New()
	}
	return nil
}
