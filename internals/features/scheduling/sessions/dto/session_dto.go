// file: internals/features/scheduling/sessions/dto/session_dto.go
package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	groupModel "acainfo_backend/internals/features/academics/groups/model"
	"acainfo_backend/internals/features/scheduling/sessions/model"
	"acainfo_backend/internals/features/scheduling/sessions/service"
)

/* =========================
   Requests
========================= */

type GenerateSessionsRequest struct {
	GroupID *uuid.UUID `json:"group_id" validate:"omitempty"`
	From    string     `json:"from" validate:"required,datetime=2006-01-02"`
	To      string     `json:"to" validate:"required,datetime=2006-01-02"`
	DryRun  bool       `json:"dry_run"`
}

func (r GenerateSessionsRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r GenerateSessionsRequest) Range() (from, to time.Time, err error) {
	from, err = time.Parse("2006-01-02", r.From)
	if err != nil {
		return
	}
	to, err = time.Parse("2006-01-02", r.To)
	return
}

type CompleteSessionRequest struct {
	TopicsCovered []string `json:"topics_covered" validate:"omitempty,dive,min=1,max=300"`
}

func (r CompleteSessionRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type CancelSessionRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

func (r CancelSessionRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type PostponeSessionRequest struct {
	NewDate      string  `json:"new_date" validate:"required,datetime=2006-01-02"`
	NewStartTime *string `json:"new_start_time" validate:"omitempty,len=5"`
	NewEndTime   *string `json:"new_end_time" validate:"omitempty,len=5"`
	NewClassroom *string `json:"new_classroom" validate:"omitempty"`
	NewMode      *string `json:"new_mode" validate:"omitempty,oneof=in_person online dual"`
}

func (r PostponeSessionRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r PostponeSessionRequest) ToInput() (service.PostponeInput, error) {
	date, err := time.Parse("2006-01-02", r.NewDate)
	if err != nil {
		return service.PostponeInput{}, err
	}
	in := service.PostponeInput{
		NewDate:      date,
		NewStartTime: r.NewStartTime,
		NewEndTime:   r.NewEndTime,
	}
	if r.NewClassroom != nil {
		room := groupModel.Classroom(strings.ToUpper(strings.TrimSpace(*r.NewClassroom)))
		in.NewClassroom = &room
	}
	if r.NewMode != nil {
		mode := model.SessionMode(*r.NewMode)
		in.NewMode = &mode
	}
	return in, nil
}

type CreateExtraSessionRequest struct {
	GroupID   uuid.UUID `json:"group_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string    `json:"start_time" validate:"required,len=5"`
	EndTime   string    `json:"end_time" validate:"required,len=5"`
	Classroom *string   `json:"classroom" validate:"omitempty"`
	Mode      *string   `json:"mode" validate:"omitempty,oneof=in_person online dual"`
}

func (r CreateExtraSessionRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r CreateExtraSessionRequest) ToInput() (service.CreateExtraInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return service.CreateExtraInput{}, err
	}
	in := service.CreateExtraInput{
		GroupID:   r.GroupID,
		Date:      date,
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
	}
	if r.Classroom != nil {
		room := groupModel.Classroom(strings.ToUpper(strings.TrimSpace(*r.Classroom)))
		in.Classroom = &room
	}
	if r.Mode != nil {
		mode := model.SessionMode(*r.Mode)
		in.Mode = &mode
	}
	return in, nil
}

type CreateSchedulingSessionRequest struct {
	SubjectID uuid.UUID `json:"subject_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string    `json:"start_time" validate:"required,len=5"`
	EndTime   string    `json:"end_time" validate:"required,len=5"`
}

func (r CreateSchedulingSessionRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r CreateSchedulingSessionRequest) ToInput() (service.CreateSchedulingInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return service.CreateSchedulingInput{}, err
	}
	return service.CreateSchedulingInput{
		SubjectID: r.SubjectID,
		Date:      date,
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
	}, nil
}

/* =========================
   Responses
========================= */

type SessionResponse struct {
	SessionID            string   `json:"session_id"`
	SessionSubjectID     *string  `json:"session_subject_id,omitempty"`
	SessionGroupID       *string  `json:"session_group_id,omitempty"`
	SessionScheduleID    *string  `json:"session_schedule_id,omitempty"`
	SessionDate          string   `json:"session_date"`
	SessionStartTime     string   `json:"session_start_time"`
	SessionEndTime       string   `json:"session_end_time"`
	SessionClassroom     string   `json:"session_classroom"`
	SessionStatus        string   `json:"session_status"`
	SessionType          string   `json:"session_type"`
	SessionMode          string   `json:"session_mode"`
	SessionTopicsCovered []string `json:"session_topics_covered,omitempty"`
	SessionCancelReason  *string  `json:"session_cancel_reason,omitempty"`
	SessionPostponedToID *string  `json:"session_postponed_to_id,omitempty"`
}

func NewSessionResponse(m *model.SessionModel) SessionResponse {
	resp := SessionResponse{
		SessionID:           m.SessionID.String(),
		SessionSubjectID:    uuidPtrString(m.SessionSubjectID),
		SessionGroupID:      uuidPtrString(m.SessionGroupID),
		SessionScheduleID:   uuidPtrString(m.SessionScheduleID),
		SessionDate:         m.SessionDate.Format("2006-01-02"),
		SessionStartTime:    m.SessionStartTime,
		SessionEndTime:      m.SessionEndTime,
		SessionClassroom:    string(m.SessionClassroom),
		SessionStatus:       string(m.SessionStatus),
		SessionType:         string(m.SessionType),
		SessionMode:         string(m.SessionMode),
		SessionCancelReason: m.SessionCancelReason,
	}
	if len(m.SessionTopicsCovered) > 0 {
		_ = json.Unmarshal(m.SessionTopicsCovered, &resp.SessionTopicsCovered)
	}
	resp.SessionPostponedToID = uuidPtrString(m.SessionPostponedToID)
	return resp
}

func NewSessionResponses(ms []model.SessionModel) []SessionResponse {
	out := make([]SessionResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewSessionResponse(&ms[i]))
	}
	return out
}

type PostponeSessionResponse struct {
	Original    SessionResponse `json:"original"`
	Replacement SessionResponse `json:"replacement"`
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
