// file: internals/features/scheduling/schedules/model/schedule_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	groupModel "acainfo_backend/internals/features/academics/groups/model"
)

/* =========================
   Model: ScheduleModel
========================= */

// ScheduleModel is one recurring weekly slot of a group: "MONDAY 09:00-11:00 in
// AULA_1". Times are stored as HH:MM strings so they compare the same way on
// every dialect; days follow ISO-8601 (1 = Monday .. 7 = Sunday).
type ScheduleModel struct {
	// PK
	ScheduleID uuid.UUID `json:"schedule_id" gorm:"type:uuid;primaryKey;column:schedule_id"`

	ScheduleGroupID uuid.UUID `json:"schedule_group_id" gorm:"type:uuid;not null;column:schedule_group_id;index"`

	ScheduleDayOfWeek int    `json:"schedule_day_of_week" gorm:"not null;column:schedule_day_of_week;index"`
	ScheduleStartTime string `json:"schedule_start_time" gorm:"type:varchar(5);not null;column:schedule_start_time"`
	ScheduleEndTime   string `json:"schedule_end_time" gorm:"type:varchar(5);not null;column:schedule_end_time"`

	ScheduleClassroom groupModel.Classroom `json:"schedule_classroom" gorm:"type:varchar(20);not null;column:schedule_classroom;index"`

	// Timestamps
	ScheduleCreatedAt time.Time      `json:"schedule_created_at" gorm:"column:schedule_created_at;autoCreateTime"`
	ScheduleUpdatedAt time.Time      `json:"schedule_updated_at" gorm:"column:schedule_updated_at;autoUpdateTime"`
	ScheduleDeletedAt gorm.DeletedAt `json:"schedule_deleted_at,omitempty" gorm:"column:schedule_deleted_at;index"`
}

func (ScheduleModel) TableName() string { return "schedules" }

func (s *ScheduleModel) BeforeCreate(tx *gorm.DB) error {
	if s.ScheduleID == uuid.Nil {
		s.ScheduleID = uuid.New()
	}
	return nil
}
