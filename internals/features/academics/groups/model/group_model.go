// file: internals/features/academics/groups/model/group_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================
   Enum
========================= */

type GroupMode string

const (
	GroupModeInPerson GroupMode = "in_person"
	GroupModeOnline   GroupMode = "online"
	GroupModeDual     GroupMode = "dual" // in-person room with a parallel online stream
)

func (m GroupMode) Valid() bool {
	switch m {
	case GroupModeInPerson, GroupModeOnline, GroupModeDual:
		return true
	}
	return false
}

/* =========================
   Model: GroupModel
========================= */

type GroupModel struct {
	// PK
	GroupID uuid.UUID `json:"group_id" gorm:"type:uuid;primaryKey;column:group_id"`

	GroupSubjectID uuid.UUID `json:"group_subject_id" gorm:"type:uuid;not null;column:group_subject_id;index"`
	GroupTeacherID uuid.UUID `json:"group_teacher_id" gorm:"type:uuid;not null;column:group_teacher_id;index"`

	GroupName      string    `json:"group_name" gorm:"type:varchar(120);not null;column:group_name"`
	GroupClassroom Classroom `json:"group_classroom" gorm:"type:varchar(20);not null;column:group_classroom"`
	GroupMode      GroupMode `json:"group_mode" gorm:"type:varchar(12);not null;default:'in_person';column:group_mode"`

	// 0 = fall back to the classroom's seat count
	GroupMaxCapacity int `json:"group_max_capacity" gorm:"not null;default:0;column:group_max_capacity"`

	GroupIsActive bool `json:"group_is_active" gorm:"not null;default:true;column:group_is_active"`

	// Timestamps
	GroupCreatedAt time.Time      `json:"group_created_at" gorm:"column:group_created_at;autoCreateTime"`
	GroupUpdatedAt time.Time      `json:"group_updated_at" gorm:"column:group_updated_at;autoUpdateTime"`
	GroupDeletedAt gorm.DeletedAt `json:"group_deleted_at,omitempty" gorm:"column:group_deleted_at;index"`
}

func (GroupModel) TableName() string { return "groups" }

func (g *GroupModel) BeforeCreate(tx *gorm.DB) error {
	if g.GroupID == uuid.Nil {
		g.GroupID = uuid.New()
	}
	return nil
}

// EffectiveCapacity is the in-person seat ceiling for the group's sessions:
// the group's own cap when set, otherwise the room's seat count. Online groups
// have no ceiling (returns 0).
func (g *GroupModel) EffectiveCapacity() int {
	if g.GroupMode == GroupModeOnline || g.GroupClassroom.IsVirtual() {
		return 0
	}
	roomCap := g.GroupClassroom.Capacity()
	if g.GroupMaxCapacity > 0 && (roomCap == 0 || g.GroupMaxCapacity < roomCap) {
		return g.GroupMaxCapacity
	}
	return roomCap
}
