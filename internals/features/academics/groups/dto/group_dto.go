// file: internals/features/academics/groups/dto/group_dto.go
package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"acainfo_backend/internals/features/academics/groups/model"
)

/* =========================
   Requests
========================= */

type CreateGroupRequest struct {
	GroupSubjectID   uuid.UUID `json:"group_subject_id" validate:"required"`
	GroupTeacherID   uuid.UUID `json:"group_teacher_id" validate:"required"`
	GroupName        string    `json:"group_name" validate:"required,min=2,max=120"`
	GroupClassroom   string    `json:"group_classroom" validate:"required"`
	GroupMode        string    `json:"group_mode" validate:"required,oneof=in_person online dual"`
	GroupMaxCapacity int       `json:"group_max_capacity" validate:"omitempty,min=0,max=200"`
}

func (r CreateGroupRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r CreateGroupRequest) ToModel() model.GroupModel {
	return model.GroupModel{
		GroupSubjectID:   r.GroupSubjectID,
		GroupTeacherID:   r.GroupTeacherID,
		GroupName:        strings.TrimSpace(r.GroupName),
		GroupClassroom:   model.Classroom(strings.ToUpper(strings.TrimSpace(r.GroupClassroom))),
		GroupMode:        model.GroupMode(r.GroupMode),
		GroupMaxCapacity: r.GroupMaxCapacity,
		GroupIsActive:    true,
	}
}

type UpdateGroupRequest struct {
	GroupTeacherID   *uuid.UUID `json:"group_teacher_id" validate:"omitempty"`
	GroupName        *string    `json:"group_name" validate:"omitempty,min=2,max=120"`
	GroupClassroom   *string    `json:"group_classroom" validate:"omitempty"`
	GroupMode        *string    `json:"group_mode" validate:"omitempty,oneof=in_person online dual"`
	GroupMaxCapacity *int       `json:"group_max_capacity" validate:"omitempty,min=0,max=200"`
	GroupIsActive    *bool      `json:"group_is_active" validate:"omitempty"`
}

func (r UpdateGroupRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r UpdateGroupRequest) Apply(m *model.GroupModel) {
	if r.GroupTeacherID != nil {
		m.GroupTeacherID = *r.GroupTeacherID
	}
	if r.GroupName != nil {
		m.GroupName = strings.TrimSpace(*r.GroupName)
	}
	if r.GroupClassroom != nil {
		m.GroupClassroom = model.Classroom(strings.ToUpper(strings.TrimSpace(*r.GroupClassroom)))
	}
	if r.GroupMode != nil {
		m.GroupMode = model.GroupMode(*r.GroupMode)
	}
	if r.GroupMaxCapacity != nil {
		m.GroupMaxCapacity = *r.GroupMaxCapacity
	}
	if r.GroupIsActive != nil {
		m.GroupIsActive = *r.GroupIsActive
	}
}

/* =========================
   Responses
========================= */

type GroupResponse struct {
	GroupID           string `json:"group_id"`
	GroupSubjectID    string `json:"group_subject_id"`
	GroupTeacherID    string `json:"group_teacher_id"`
	GroupName         string `json:"group_name"`
	GroupClassroom    string `json:"group_classroom"`
	GroupMode         string `json:"group_mode"`
	GroupMaxCapacity  int    `json:"group_max_capacity"`
	EffectiveCapacity int    `json:"effective_capacity"`
	GroupIsActive     bool   `json:"group_is_active"`
}

func NewGroupResponse(m *model.GroupModel) GroupResponse {
	return GroupResponse{
		GroupID:           m.GroupID.String(),
		GroupSubjectID:    m.GroupSubjectID.String(),
		GroupTeacherID:    m.GroupTeacherID.String(),
		GroupName:         m.GroupName,
		GroupClassroom:    string(m.GroupClassroom),
		GroupMode:         string(m.GroupMode),
		GroupMaxCapacity:  m.GroupMaxCapacity,
		EffectiveCapacity: m.EffectiveCapacity(),
		GroupIsActive:     m.GroupIsActive,
	}
}

func NewGroupResponses(ms []model.GroupModel) []GroupResponse {
	out := make([]GroupResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewGroupResponse(&ms[i]))
	}
	return out
}
