// file: internals/features/academics/subjects/dto/subject_dto.go
package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"acainfo_backend/internals/features/academics/subjects/model"
)

/* =========================
   Requests
========================= */

type CreateSubjectRequest struct {
	SubjectCode        string  `json:"subject_code" validate:"required,min=2,max=30"`
	SubjectName        string  `json:"subject_name" validate:"required,min=2,max=160"`
	SubjectCourseYear  int     `json:"subject_course_year" validate:"required,min=1,max=6"`
	SubjectDescription *string `json:"subject_description" validate:"omitempty,max=2000"`
}

func (r CreateSubjectRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r CreateSubjectRequest) ToModel() model.SubjectModel {
	return model.SubjectModel{
		SubjectCode:        strings.ToUpper(strings.TrimSpace(r.SubjectCode)),
		SubjectName:        strings.TrimSpace(r.SubjectName),
		SubjectCourseYear:  r.SubjectCourseYear,
		SubjectDescription: trimPtr(r.SubjectDescription),
		SubjectIsActive:    true,
	}
}

type UpdateSubjectRequest struct {
	SubjectCode        *string `json:"subject_code" validate:"omitempty,min=2,max=30"`
	SubjectName        *string `json:"subject_name" validate:"omitempty,min=2,max=160"`
	SubjectCourseYear  *int    `json:"subject_course_year" validate:"omitempty,min=1,max=6"`
	SubjectDescription *string `json:"subject_description" validate:"omitempty,max=2000"`
	SubjectIsActive    *bool   `json:"subject_is_active" validate:"omitempty"`
}

func (r UpdateSubjectRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r UpdateSubjectRequest) Apply(m *model.SubjectModel) {
	if r.SubjectCode != nil {
		m.SubjectCode = strings.ToUpper(strings.TrimSpace(*r.SubjectCode))
	}
	if r.SubjectName != nil {
		m.SubjectName = strings.TrimSpace(*r.SubjectName)
	}
	if r.SubjectCourseYear != nil {
		m.SubjectCourseYear = *r.SubjectCourseYear
	}
	if r.SubjectDescription != nil {
		m.SubjectDescription = trimPtr(r.SubjectDescription)
	}
	if r.SubjectIsActive != nil {
		m.SubjectIsActive = *r.SubjectIsActive
	}
}

/* =========================
   Responses
========================= */

type SubjectResponse struct {
	SubjectID          string  `json:"subject_id"`
	SubjectCode        string  `json:"subject_code"`
	SubjectName        string  `json:"subject_name"`
	SubjectCourseYear  int     `json:"subject_course_year"`
	SubjectDescription *string `json:"subject_description,omitempty"`
	SubjectIsActive    bool    `json:"subject_is_active"`
}

func NewSubjectResponse(m *model.SubjectModel) SubjectResponse {
	return SubjectResponse{
		SubjectID:          m.SubjectID.String(),
		SubjectCode:        m.SubjectCode,
		SubjectName:        m.SubjectName,
		SubjectCourseYear:  m.SubjectCourseYear,
		SubjectDescription: m.SubjectDescription,
		SubjectIsActive:    m.SubjectIsActive,
	}
}

func NewSubjectResponses(ms []model.SubjectModel) []SubjectResponse {
	out := make([]SubjectResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewSubjectResponse(&ms[i]))
	}
	return out
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
