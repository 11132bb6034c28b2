// file: internals/features/academics/groups/controller/group_controller.go
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

	d "acainfo_backend/internals/features/academics/groups/dto"
	m "acainfo_backend/internals/features/academics/groups/model"
	subjectModel "acainfo_backend/internals/features/academics/subjects/model"
	userModel "acainfo_backend/internals/features/users/user/model"
	helper "acainfo_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
========================= */

type GroupController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *GroupController {
	return &GroupController{DB: db, Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

/* ========================= Create ========================= */

func (ctl *GroupController) Create(c *fiber.Ctx) error {
	var req d.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	group := req.ToModel()
	if !group.GroupClassroom.Valid() {
		return helper.JsonError(c, http.StatusBadRequest, "unknown classroom")
	}
	if group.GroupMode != m.GroupModeOnline && group.GroupClassroom.IsVirtual() {
		return helper.JsonError(c, http.StatusBadRequest, "in-person groups need a physical classroom")
	}

	// referenced rows must exist before the insert
	var subject subjectModel.SubjectModel
	if err := ctl.DB.First(&subject, "subject_id = ?", group.GroupSubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusBadRequest, "subject not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	var teacher userModel.UserModel
	if err := ctl.DB.First(&teacher, "user_id = ?", group.GroupTeacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusBadRequest, "teacher not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	if err := ctl.DB.Create(&group).Error; err != nil {
		if helper.PGCode(err) == helper.PGForeignKeyViolation {
			return helper.JsonError(c, http.StatusBadRequest, "referenced subject or teacher does not exist")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Group created", d.NewGroupResponse(&group))
}

/* ========================= Patch ========================= */

func (ctl *GroupController) Patch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var existing m.GroupModel
	if err := ctl.DB.First(&existing, "group_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "group not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var req d.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Apply(&existing)

	if !existing.GroupClassroom.Valid() {
		return helper.JsonError(c, http.StatusBadRequest, "unknown classroom")
	}
	if existing.GroupMode != m.GroupModeOnline && existing.GroupClassroom.IsVirtual() {
		return helper.JsonError(c, http.StatusBadRequest, "in-person groups need a physical classroom")
	}

	if err := ctl.DB.Save(&existing).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Group updated", d.NewGroupResponse(&existing))
}

/* ========================= Delete ========================= */

func (ctl *GroupController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var existing m.GroupModel
	if err := ctl.DB.First(&existing, "group_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "group not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if err := ctl.DB.Delete(&existing).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Group deleted", d.NewGroupResponse(&existing))
}

/* ========================= List / Get ========================= */

func (ctl *GroupController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&m.GroupModel{})
	if sid := strings.TrimSpace(c.Query("subject_id")); sid != "" {
		q = q.Where("group_subject_id = ?", sid)
	}
	if tid := strings.TrimSpace(c.Query("teacher_id")); tid != "" {
		q = q.Where("group_teacher_id = ?", tid)
	}
	if active := strings.TrimSpace(c.Query("active")); active != "" {
		q = q.Where("group_is_active = ?", active == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var groups []m.GroupModel
	if err := q.Order("group_name").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&groups).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", d.NewGroupResponses(groups), &p)
}

func (ctl *GroupController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var group m.GroupModel
	if err := ctl.DB.First(&group, "group_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "group not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewGroupResponse(&group))
}
