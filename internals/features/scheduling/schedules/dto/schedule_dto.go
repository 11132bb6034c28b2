// file: internals/features/scheduling/schedules/dto/schedule_dto.go
package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	groupModel "acainfo_backend/internals/features/academics/groups/model"
	"acainfo_backend/internals/features/scheduling/schedules/model"
	"acainfo_backend/internals/features/scheduling/schedules/service"
)

/* =========================
   Requests
========================= */

type CreateScheduleRequest struct {
	GroupID   uuid.UUID `json:"group_id" validate:"required"`
	DayOfWeek int       `json:"day_of_week" validate:"required,min=1,max=7"`
	StartTime string    `json:"start_time" validate:"required,len=5"`
	EndTime   string    `json:"end_time" validate:"required,len=5"`
	Classroom string    `json:"classroom" validate:"required"`
}

func (r CreateScheduleRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r CreateScheduleRequest) ToInput() service.CreateInput {
	return service.CreateInput{
		GroupID:   r.GroupID,
		DayOfWeek: r.DayOfWeek,
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
		Classroom: groupModel.Classroom(strings.ToUpper(strings.TrimSpace(r.Classroom))),
	}
}

type UpdateScheduleRequest struct {
	DayOfWeek *int    `json:"day_of_week" validate:"omitempty,min=1,max=7"`
	StartTime *string `json:"start_time" validate:"omitempty,len=5"`
	EndTime   *string `json:"end_time" validate:"omitempty,len=5"`
	Classroom *string `json:"classroom" validate:"omitempty"`
}

func (r UpdateScheduleRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r UpdateScheduleRequest) ToInput() service.UpdateInput {
	in := service.UpdateInput{
		DayOfWeek: r.DayOfWeek,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
	if r.Classroom != nil {
		room := groupModel.Classroom(strings.ToUpper(strings.TrimSpace(*r.Classroom)))
		in.Classroom = &room
	}
	return in
}

/* =========================
   Responses
========================= */

type ScheduleResponse struct {
	ScheduleID        string `json:"schedule_id"`
	ScheduleGroupID   string `json:"schedule_group_id"`
	ScheduleDayOfWeek int    `json:"schedule_day_of_week"`
	ScheduleStartTime string `json:"schedule_start_time"`
	ScheduleEndTime   string `json:"schedule_end_time"`
	ScheduleClassroom string `json:"schedule_classroom"`
}

func NewScheduleResponse(m *model.ScheduleModel) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:        m.ScheduleID.String(),
		ScheduleGroupID:   m.ScheduleGroupID.String(),
		ScheduleDayOfWeek: m.ScheduleDayOfWeek,
		ScheduleStartTime: m.ScheduleStartTime,
		ScheduleEndTime:   m.ScheduleEndTime,
		ScheduleClassroom: string(m.ScheduleClassroom),
	}
}

func NewScheduleResponses(ms []model.ScheduleModel) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewScheduleResponse(&ms[i]))
	}
	return out
}
