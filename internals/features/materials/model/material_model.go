// file: internals/features/materials/model/material_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaterialModel is the metadata of one study material of a subject. The file
// itself lives behind MaterialFileURL (object storage is an external concern).
type MaterialModel struct {
	// PK
	MaterialID uuid.UUID `json:"material_id" gorm:"type:uuid;primaryKey;column:material_id"`

	MaterialSubjectID  uuid.UUID `json:"material_subject_id" gorm:"type:uuid;not null;column:material_subject_id;index"`
	MaterialUploadedBy uuid.UUID `json:"material_uploaded_by" gorm:"type:uuid;not null;column:material_uploaded_by;index"`

	MaterialTitle       string  `json:"material_title" gorm:"type:varchar(200);not null;column:material_title"`
	MaterialDescription *string `json:"material_description,omitempty" gorm:"type:text;column:material_description"`
	MaterialFileURL     string  `json:"material_file_url" gorm:"type:text;not null;column:material_file_url"`
	MaterialFileSize    *int64  `json:"material_file_size,omitempty" gorm:"column:material_file_size"`

	MaterialTags datatypes.JSON `json:"material_tags" gorm:"type:jsonb;not null;default:'[]';column:material_tags"`

	// Timestamps
	MaterialCreatedAt time.Time      `json:"material_created_at" gorm:"column:material_created_at;autoCreateTime"`
	MaterialUpdatedAt time.Time      `json:"material_updated_at" gorm:"column:material_updated_at;autoUpdateTime"`
	MaterialDeletedAt gorm.DeletedAt `json:"material_deleted_at,omitempty" gorm:"column:material_deleted_at;index"`
}

func (MaterialModel) TableName() string { return "materials" }

func (m *MaterialModel) BeforeCreate(tx *gorm.DB) error {
	if m.MaterialID == uuid.Nil {
		m.MaterialID = uuid.New()
	}
	return nil
}
