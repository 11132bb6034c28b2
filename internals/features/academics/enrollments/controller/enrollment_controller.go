// file: internals/features/academics/enrollments/controller/enrollment_controller.go
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

	d "acainfo_backend/internals/features/academics/enrollments/dto"
	"acainfo_backend/internals/features/academics/enrollments/service"
	helper "acainfo_backend/internals/helpers"
	helperAuth "acainfo_backend/internals/helpers/auth"
)

/* =========================
   Controller & Constructor
========================= */

type EnrollmentController struct {
	Service  *service.Service
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *EnrollmentController {
	return &EnrollmentController{Service: service.New(db), Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

// writeServiceError maps enrollment domain errors onto HTTP statuses.
func writeServiceError(c *fiber.Ctx, err error) error {
	var dup *service.EnrollmentAlreadyExistsError
	var full *service.GroupFullError
	var state *service.InvalidEnrollmentStateError
	switch {
	case errors.Is(err, service.ErrEnrollmentNotFound):
		return helper.JsonError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &dup):
		return helper.JsonError(c, http.StatusConflict, err.Error())
	case errors.As(err, &full):
		return helper.JsonError(c, http.StatusConflict, err.Error())
	case errors.As(err, &state):
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}
	return helper.JsonError(c, http.StatusInternalServerError, err.Error())
}

/* ========================= Student ========================= */

// Request files the caller's enrollment into a group.
func (ctl *EnrollmentController) Request(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req d.RequestEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	enr, err := ctl.Service.Request(studentID, req.GroupID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Enrollment requested", d.NewEnrollmentResponse(enr))
}

// CancelOwn withdraws the caller's own enrollment.
func (ctl *EnrollmentController) CancelOwn(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	enr, err := ctl.Service.CancelOwn(id, studentID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Enrollment cancelled", d.NewEnrollmentResponse(enr))
}

// ListMine lists the caller's enrollments.
func (ctl *EnrollmentController) ListMine(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	out, err := ctl.Service.ListByStudent(studentID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewEnrollmentResponses(out))
}

/* ========================= Admin ========================= */

func (ctl *EnrollmentController) Approve(c *fiber.Ctx) error {
	deciderID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	enr, err := ctl.Service.Approve(id, deciderID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Enrollment approved", d.NewEnrollmentResponse(enr))
}

func (ctl *EnrollmentController) Reject(c *fiber.Ctx) error {
	deciderID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	enr, err := ctl.Service.Reject(id, deciderID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Enrollment rejected", d.NewEnrollmentResponse(enr))
}

func (ctl *EnrollmentController) ListByGroup(c *fiber.Ctx) error {
	groupID, err := parseUUIDParam(c, "groupId")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	out, err := ctl.Service.ListByGroup(groupID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewEnrollmentResponses(out))
}
