// file: internals/features/materials/dto/material_dto.go
package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"acainfo_backend/internals/features/materials/model"
)

/* =========================
   Requests
========================= */

type CreateMaterialRequest struct {
	SubjectID   uuid.UUID `json:"subject_id" validate:"required"`
	Title       string    `json:"title" validate:"required,min=2,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	FileURL     string    `json:"file_url" validate:"required,url"`
	FileSize    *int64    `json:"file_size" validate:"omitempty,min=1"`
	Tags        []string  `json:"tags" validate:"omitempty,dive,min=1,max=40"`
}

func (r CreateMaterialRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r CreateMaterialRequest) ToModel(uploadedBy uuid.UUID) (model.MaterialModel, error) {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return model.MaterialModel{}, err
	}
	return model.MaterialModel{
		MaterialSubjectID:   r.SubjectID,
		MaterialUploadedBy:  uploadedBy,
		MaterialTitle:       strings.TrimSpace(r.Title),
		MaterialDescription: r.Description,
		MaterialFileURL:     strings.TrimSpace(r.FileURL),
		MaterialFileSize:    r.FileSize,
		MaterialTags:        raw,
	}, nil
}

type UpdateMaterialRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=2,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	FileURL     *string  `json:"file_url" validate:"omitempty,url"`
	FileSize    *int64   `json:"file_size" validate:"omitempty,min=1"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=40"`
}

func (r UpdateMaterialRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

func (r UpdateMaterialRequest) Apply(m *model.MaterialModel) error {
	if r.Title != nil {
		m.MaterialTitle = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		m.MaterialDescription = r.Description
	}
	if r.FileURL != nil {
		m.MaterialFileURL = strings.TrimSpace(*r.FileURL)
	}
	if r.FileSize != nil {
		m.MaterialFileSize = r.FileSize
	}
	if r.Tags != nil {
		raw, err := json.Marshal(r.Tags)
		if err != nil {
			return err
		}
		m.MaterialTags = raw
	}
	return nil
}

/* =========================
   Responses
========================= */

type MaterialResponse struct {
	MaterialID          string    `json:"material_id"`
	MaterialSubjectID   string    `json:"material_subject_id"`
	MaterialUploadedBy  string    `json:"material_uploaded_by"`
	MaterialTitle       string    `json:"material_title"`
	MaterialDescription *string   `json:"material_description,omitempty"`
	MaterialFileURL     string    `json:"material_file_url"`
	MaterialFileSize    *int64    `json:"material_file_size,omitempty"`
	MaterialTags        []string  `json:"material_tags"`
	MaterialCreatedAt   time.Time `json:"material_created_at"`
}

func NewMaterialResponse(m *model.MaterialModel) MaterialResponse {
	resp := MaterialResponse{
		MaterialID:          m.MaterialID.String(),
		MaterialSubjectID:   m.MaterialSubjectID.String(),
		MaterialUploadedBy:  m.MaterialUploadedBy.String(),
		MaterialTitle:       m.MaterialTitle,
		MaterialDescription: m.MaterialDescription,
		MaterialFileURL:     m.MaterialFileURL,
		MaterialFileSize:    m.MaterialFileSize,
		MaterialTags:        []string{},
		MaterialCreatedAt:   m.MaterialCreatedAt,
	}
	if len(m.MaterialTags) > 0 {
		_ = json.Unmarshal(m.MaterialTags, &resp.MaterialTags)
	}
	return resp
}

func NewMaterialResponses(ms []model.MaterialModel) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewMaterialResponse(&ms[i]))
	}
	return out
}
