// file: internals/features/scheduling/schedules/controller/schedule_controller.go
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

	d "acainfo_backend/internals/features/scheduling/schedules/dto"
	"acainfo_backend/internals/features/scheduling/schedules/service"
	helper "acainfo_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
========================= */

type ScheduleController struct {
	Service  *service.Service
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *ScheduleController {
	return &ScheduleController{Service: service.New(db), Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

// writeServiceError maps schedule domain errors onto HTTP statuses. Conflicts
// come back as 409 with the offending slots in the message.
func writeServiceError(c *fiber.Ctx, err error) error {
	var invalid *service.InvalidScheduleDataError
	var room *service.ScheduleConflictError
	var teacher *service.TeacherScheduleConflictError
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		return helper.JsonError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &invalid):
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &room):
		return helper.JsonError(c, http.StatusConflict, err.Error())
	case errors.As(err, &teacher):
		return helper.JsonError(c, http.StatusConflict, err.Error())
	}
	return helper.JsonError(c, http.StatusInternalServerError, err.Error())
}

/* ========================= Create ========================= */

func (ctl *ScheduleController) Create(c *fiber.Ctx) error {
	var req d.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	sch, err := ctl.Service.Create(req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Schedule created", d.NewScheduleResponse(sch))
}

/* ========================= Patch ========================= */

func (ctl *ScheduleController) Patch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var req d.UpdateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	sch, err := ctl.Service.Update(id, req.ToInput())
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Schedule updated", d.NewScheduleResponse(sch))
}

/* ========================= Delete ========================= */

func (ctl *ScheduleController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	sch, err := ctl.Service.Delete(id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Schedule deleted", d.NewScheduleResponse(sch))
}

/* ========================= List / Get ========================= */

func (ctl *ScheduleController) ListByGroup(c *fiber.Ctx) error {
	groupID, err := parseUUIDParam(c, "groupId")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	out, err := ctl.Service.ListByGroup(groupID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewScheduleResponses(out))
}

func (ctl *ScheduleController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	sch, err := ctl.Service.GetByID(id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "", d.NewScheduleResponse(sch))
}
