// file: internals/features/academics/subjects/model/subject_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	// PK
	SubjectID uuid.UUID `json:"subject_id" gorm:"type:uuid;primaryKey;column:subject_id"`

	// Short code shown in timetables, e.g. "MAT-101". Unique among live rows.
	SubjectCode string `json:"subject_code" gorm:"type:varchar(30);not null;uniqueIndex:uq_subjects_code;column:subject_code"`
	SubjectName string `json:"subject_name" gorm:"type:varchar(160);not null;column:subject_name"`

	SubjectCourseYear int     `json:"subject_course_year" gorm:"not null;default:1;column:subject_course_year"`
	SubjectDescription *string `json:"subject_description,omitempty" gorm:"type:text;column:subject_description"`

	SubjectIsActive bool `json:"subject_is_active" gorm:"not null;default:true;column:subject_is_active"`

	// Timestamps
	SubjectCreatedAt time.Time      `json:"subject_created_at" gorm:"column:subject_created_at;autoCreateTime"`
	SubjectUpdatedAt time.Time      `json:"subject_updated_at" gorm:"column:subject_updated_at;autoUpdateTime"`
	SubjectDeletedAt gorm.DeletedAt `json:"subject_deleted_at,omitempty" gorm:"column:subject_deleted_at;index"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (s *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if s.SubjectID == uuid.Nil {
		s.SubjectID = uuid.New()
	}
	return nil
}
