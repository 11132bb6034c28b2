// file: internals/features/materials/controller/material_controller.go
package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	subjectModel "acainfo_backend/internals/features/academics/subjects/model"
	d "acainfo_backend/internals/features/materials/dto"
	m "acainfo_backend/internals/features/materials/model"
	helper "acainfo_backend/internals/helpers"
	helperAuth "acainfo_backend/internals/helpers/auth"
)

/* =========================
   Controller & Constructor
========================= */

type MaterialController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *MaterialController {
	return &MaterialController{DB: db, Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

/* ========================= Create ========================= */

func (ctl *MaterialController) Create(c *fiber.Ctx) error {
	uploaderID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req d.CreateMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var subject subjectModel.SubjectModel
	if err := ctl.DB.First(&subject, "subject_id = ?", req.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusBadRequest, "subject not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	material, err := req.ToModel(uploaderID)
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := ctl.DB.Create(&material).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Material uploaded", d.NewMaterialResponse(&material))
}

/* ========================= Patch ========================= */

func (ctl *MaterialController) Patch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var existing m.MaterialModel
	if err := ctl.DB.First(&existing, "material_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "material not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	// uploader or admin only
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if existing.MaterialUploadedBy != userID && !helperAuth.IsAdmin(c) {
		return helper.JsonError(c, http.StatusForbidden, "not the uploader")
	}

	var req d.UpdateMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Apply(&existing); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	if err := ctl.DB.Save(&existing).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Material updated", d.NewMaterialResponse(&existing))
}

/* ========================= Delete ========================= */

func (ctl *MaterialController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var existing m.MaterialModel
	if err := ctl.DB.First(&existing, "material_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "material not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if existing.MaterialUploadedBy != userID && !helperAuth.IsAdmin(c) {
		return helper.JsonError(c, http.StatusForbidden, "not the uploader")
	}

	if err := ctl.DB.Delete(&existing).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Material deleted", d.NewMaterialResponse(&existing))
}

/* ========================= List / Get ========================= */

func (ctl *MaterialController) ListBySubject(c *fiber.Ctx) error {
	subjectID, err := parseUUIDParam(c, "subjectId")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&m.MaterialModel{}).Where("material_subject_id = ?", subjectID)
	if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
		// jsonb containment on postgres; LIKE fallback keeps sqlite dev DBs working
		if ctl.DB.Dialector.Name() == "postgres" {
			q = q.Where("material_tags @> ?", fmt.Sprintf(`["%s"]`, tag))
		} else {
			q = q.Where("material_tags LIKE ?", "%\""+tag+"\"%")
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var materials []m.MaterialModel
	if err := q.Order("material_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&materials).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", d.NewMaterialResponses(materials), &p)
}

func (ctl *MaterialController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var material m.MaterialModel
	if err := ctl.DB.First(&material, "material_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "material not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewMaterialResponse(&material))
}
