// file: internals/features/academics/enrollments/dto/enrollment_dto.go
package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"acainfo_backend/internals/features/academics/enrollments/model"
)

/* =========================
   Requests
========================= */

type RequestEnrollmentRequest struct {
	GroupID uuid.UUID `json:"group_id" validate:"required"`
}

func (r RequestEnrollmentRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

/* =========================
   Responses
========================= */

type EnrollmentResponse struct {
	EnrollmentID          string     `json:"enrollment_id"`
	EnrollmentStudentID   string     `json:"enrollment_student_id"`
	EnrollmentGroupID     string     `json:"enrollment_group_id"`
	EnrollmentStatus      string     `json:"enrollment_status"`
	EnrollmentRequestedAt time.Time  `json:"enrollment_requested_at"`
	EnrollmentDecidedAt   *time.Time `json:"enrollment_decided_at,omitempty"`
	EnrollmentDecidedBy   *string    `json:"enrollment_decided_by,omitempty"`
}

func NewEnrollmentResponse(m *model.EnrollmentModel) EnrollmentResponse {
	resp := EnrollmentResponse{
		EnrollmentID:          m.EnrollmentID.String(),
		EnrollmentStudentID:   m.EnrollmentStudentID.String(),
		EnrollmentGroupID:     m.EnrollmentGroupID.String(),
		EnrollmentStatus:      string(m.EnrollmentStatus),
		EnrollmentRequestedAt: m.EnrollmentRequestedAt,
		EnrollmentDecidedAt:   m.EnrollmentDecidedAt,
	}
	if m.EnrollmentDecidedBy != nil {
		s := m.EnrollmentDecidedBy.String()
		resp.EnrollmentDecidedBy = &s
	}
	return resp
}

func NewEnrollmentResponses(ms []model.EnrollmentModel) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewEnrollmentResponse(&ms[i]))
	}
	return out
}
