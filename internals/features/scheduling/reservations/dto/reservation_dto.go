// file: internals/features/scheduling/reservations/dto/reservation_dto.go
package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"acainfo_backend/internals/features/scheduling/reservations/model"
	"acainfo_backend/internals/features/scheduling/reservations/service"
)

/* =========================
   Requests
========================= */

type CreateReservationRequest struct {
	SessionID    uuid.UUID `json:"session_id" validate:"required"`
	EnrollmentID uuid.UUID `json:"enrollment_id" validate:"required"`
	Mode         string    `json:"mode" validate:"required,oneof=in_person online"`
}

func (r CreateReservationRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r CreateReservationRequest) ToInput(studentID uuid.UUID) service.CreateInput {
	return service.CreateInput{
		StudentID:    studentID,
		SessionID:    r.SessionID,
		EnrollmentID: r.EnrollmentID,
		Mode:         model.ReservationMode(r.Mode),
	}
}

type SwitchReservationRequest struct {
	NewSessionID uuid.UUID `json:"new_session_id" validate:"required"`
}

func (r SwitchReservationRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type ProcessOnlineRequest struct {
	Approved bool `json:"approved"`
}

type RecordAttendanceRequest struct {
	Status string `json:"status" validate:"required,oneof=present absent late excused"`
}

func (r RecordAttendanceRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type AttendanceItemRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" validate:"required"`
	Status        string    `json:"status" validate:"required,oneof=present absent late excused"`
}

type RecordAttendanceBulkRequest struct {
	Items []AttendanceItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r RecordAttendanceBulkRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r RecordAttendanceBulkRequest) ToItems() []service.AttendanceItem {
	out := make([]service.AttendanceItem, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, service.AttendanceItem{
			ReservationID: it.ReservationID,
			Status:        model.AttendanceStatus(it.Status),
		})
	}
	return out
}

/* =========================
   Responses
========================= */

type ReservationResponse struct {
	ReservationID           string `json:"reservation_id"`
	ReservationStudentID    string `json:"reservation_student_id"`
	ReservationSessionID    string `json:"reservation_session_id"`
	ReservationEnrollmentID string `json:"reservation_enrollment_id"`
	ReservationMode         string `json:"reservation_mode"`
	ReservationStatus       string `json:"reservation_status"`

	ReservationOnlineRequestStatus *string    `json:"reservation_online_request_status,omitempty"`
	ReservationOnlineRequestedAt   *time.Time `json:"reservation_online_requested_at,omitempty"`
	ReservationOnlineDecidedBy     *string    `json:"reservation_online_decided_by,omitempty"`

	ReservationAttendanceStatus     *string    `json:"reservation_attendance_status,omitempty"`
	ReservationAttendanceRecordedBy *string    `json:"reservation_attendance_recorded_by,omitempty"`
	ReservationAttendanceRecordedAt *time.Time `json:"reservation_attendance_recorded_at,omitempty"`
}

func NewReservationResponse(m *model.ReservationModel) ReservationResponse {
	resp := ReservationResponse{
		ReservationID:           m.ReservationID.String(),
		ReservationStudentID:    m.ReservationStudentID.String(),
		ReservationSessionID:    m.ReservationSessionID.String(),
		ReservationEnrollmentID: m.ReservationEnrollmentID.String(),
		ReservationMode:         string(m.ReservationMode),
		ReservationStatus:       string(m.ReservationStatus),

		ReservationOnlineRequestedAt:    m.ReservationOnlineRequestedAt,
		ReservationAttendanceRecordedAt: m.ReservationAttendanceRecordedAt,
	}
	if m.ReservationOnlineRequestStatus != nil {
		s := string(*m.ReservationOnlineRequestStatus)
		resp.ReservationOnlineRequestStatus = &s
	}
	if m.ReservationOnlineDecidedBy != nil {
		s := m.ReservationOnlineDecidedBy.String()
		resp.ReservationOnlineDecidedBy = &s
	}
	if m.ReservationAttendanceStatus != nil {
		s := string(*m.ReservationAttendanceStatus)
		resp.ReservationAttendanceStatus = &s
	}
	if m.ReservationAttendanceRecordedBy != nil {
		s := m.ReservationAttendanceRecordedBy.String()
		resp.ReservationAttendanceRecordedBy = &s
	}
	return resp
}

func NewReservationResponses(ms []model.ReservationModel) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewReservationResponse(&ms[i]))
	}
	return out
}
