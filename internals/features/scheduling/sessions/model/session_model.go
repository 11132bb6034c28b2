// file: internals/features/scheduling/sessions/model/session_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	groupModel "acainfo_backend/internals/features/academics/groups/model"
)

/* =========================
   Enums
========================= */

type SessionStatus string

const (
	SessionScheduled  SessionStatus = "scheduled"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
	SessionPostponed  SessionStatus = "postponed"
)

// IsTerminal reports whether no further transition is legal from s.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionCompleted, SessionCancelled, SessionPostponed:
		return true
	}
	return false
}

type SessionType string

const (
	// SessionRegular is generated from a weekly schedule.
	SessionRegular SessionType = "regular"
	// SessionExtra is an ad-hoc meeting of a group.
	SessionExtra SessionType = "extra"
	// SessionScheduling is a one-off online meeting tied only to a subject
	// (no group yet, e.g. a placement interview).
	SessionScheduling SessionType = "scheduling"
)

type SessionMode string

const (
	SessionModeInPerson SessionMode = "in_person"
	SessionModeOnline   SessionMode = "online"
	SessionModeDual     SessionMode = "dual"
)

/* =========================
   Model: SessionModel
========================= */

type SessionModel struct {
	// PK
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;primaryKey;column:session_id"`

	// Provenance. REGULAR: schedule+group set. EXTRA: group only.
	// SCHEDULING: subject only.
	SessionSubjectID  *uuid.UUID `json:"session_subject_id,omitempty" gorm:"type:uuid;column:session_subject_id;index"`
	SessionGroupID    *uuid.UUID `json:"session_group_id,omitempty" gorm:"type:uuid;column:session_group_id;index"`
	SessionScheduleID *uuid.UUID `json:"session_schedule_id,omitempty" gorm:"type:uuid;column:session_schedule_id;uniqueIndex:uq_sessions_schedule_date"`

	SessionDate      time.Time `json:"session_date" gorm:"type:date;not null;column:session_date;uniqueIndex:uq_sessions_schedule_date"`
	SessionStartTime string    `json:"session_start_time" gorm:"type:varchar(5);not null;column:session_start_time"`
	SessionEndTime   string    `json:"session_end_time" gorm:"type:varchar(5);not null;column:session_end_time"`

	SessionClassroom groupModel.Classroom `json:"session_classroom" gorm:"type:varchar(20);not null;column:session_classroom;index"`

	SessionStatus SessionStatus `json:"session_status" gorm:"type:varchar(12);not null;default:'scheduled';column:session_status;index"`
	SessionType   SessionType   `json:"session_type" gorm:"type:varchar(12);not null;default:'regular';column:session_type"`
	SessionMode   SessionMode   `json:"session_mode" gorm:"type:varchar(12);not null;default:'in_person';column:session_mode"`

	// Filled by lifecycle transitions.
	SessionTopicsCovered datatypes.JSON `json:"session_topics_covered,omitempty" gorm:"type:jsonb;column:session_topics_covered"`
	SessionCancelReason  *string        `json:"session_cancel_reason,omitempty" gorm:"type:text;column:session_cancel_reason"`

	// Set on the original when it is postponed.
	SessionPostponedToID *uuid.UUID `json:"session_postponed_to_id,omitempty" gorm:"type:uuid;column:session_postponed_to_id"`

	// Timestamps
	SessionCreatedAt time.Time      `json:"session_created_at" gorm:"column:session_created_at;autoCreateTime"`
	SessionUpdatedAt time.Time      `json:"session_updated_at" gorm:"column:session_updated_at;autoUpdateTime"`
	SessionDeletedAt gorm.DeletedAt `json:"session_deleted_at,omitempty" gorm:"column:session_deleted_at;index"`
}

func (SessionModel) TableName() string { return "sessions" }

func (s *SessionModel) BeforeCreate(tx *gorm.DB) error {
	if s.SessionID == uuid.Nil {
		s.SessionID = uuid.New()
	}
	return nil
}

// ValidateShape enforces the per-type field invariants.
func (s *SessionModel) ValidateShape() error {
	switch s.SessionType {
	case SessionRegular:
		if s.SessionScheduleID == nil || s.SessionGroupID == nil {
			return fmt.Errorf("regular session requires schedule_id and group_id")
		}
	case SessionExtra:
		if s.SessionGroupID == nil {
			return fmt.Errorf("extra session requires group_id")
		}
		if s.SessionScheduleID != nil {
			return fmt.Errorf("extra session must not reference a schedule")
		}
	case SessionScheduling:
		if s.SessionSubjectID == nil {
			return fmt.Errorf("scheduling session requires subject_id")
		}
		if s.SessionGroupID != nil || s.SessionScheduleID != nil {
			return fmt.Errorf("scheduling session must not reference a group or schedule")
		}
		if s.SessionMode != SessionModeOnline {
			return fmt.Errorf("scheduling session is always online")
		}
	default:
		return fmt.Errorf("unknown session type %q", s.SessionType)
	}
	return nil
}

// StartAt combines date and start time into a wall-clock instant.
func (s *SessionModel) StartAt() time.Time {
	t, _ := time.Parse("15:04", s.SessionStartTime)
	d := s.SessionDate
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
}
