// file: internals/features/academics/subjects/controller/subject_controller.go
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

	d "acainfo_backend/internals/features/academics/subjects/dto"
	m "acainfo_backend/internals/features/academics/subjects/model"
	helper "acainfo_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
========================= */

type SubjectController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *SubjectController {
	return &SubjectController{DB: db, Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

/* ========================= Create ========================= */

func (ctl *SubjectController) Create(c *fiber.Ctx) error {
	var req d.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	subject := req.ToModel()

	// duplicate-code check; the unique index backs it up under races
	var dup int64
	if err := ctl.DB.Model(&m.SubjectModel{}).
		Where("subject_code = ?", subject.SubjectCode).
		Count(&dup).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if dup > 0 {
		return helper.JsonError(c, http.StatusConflict, "subject code already in use")
	}

	if err := ctl.DB.Create(&subject).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, http.StatusConflict, "subject code already in use")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Subject created", d.NewSubjectResponse(&subject))
}

/* ========================= Patch ========================= */

func (ctl *SubjectController) Patch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var existing m.SubjectModel
	if err := ctl.DB.First(&existing, "subject_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "subject not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var req d.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Apply(&existing)

	if err := ctl.DB.Save(&existing).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, http.StatusConflict, "subject code already in use")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Subject updated", d.NewSubjectResponse(&existing))
}

/* ========================= Delete ========================= */

func (ctl *SubjectController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var existing m.SubjectModel
	if err := ctl.DB.First(&existing, "subject_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "subject not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := ctl.DB.Delete(&existing).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Subject deleted", d.NewSubjectResponse(&existing))
}

/* ========================= List / Get ========================= */

func (ctl *SubjectController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&m.SubjectModel{})
	if year := strings.TrimSpace(c.Query("course_year")); year != "" {
		q = q.Where("subject_course_year = ?", year)
	}
	if active := strings.TrimSpace(c.Query("active")); active != "" {
		q = q.Where("subject_is_active = ?", active == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var subjects []m.SubjectModel
	if err := q.Order("subject_course_year, subject_code").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&subjects).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", d.NewSubjectResponses(subjects), &p)
}

func (ctl *SubjectController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var subject m.SubjectModel
	if err := ctl.DB.First(&subject, "subject_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "subject not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewSubjectResponse(&subject))
}
