// file: internals/features/scheduling/reservations/controller/reservation_controller.go
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

	d "acainfo_backend/internals/features/scheduling/reservations/dto"
	"acainfo_backend/internals/features/scheduling/reservations/model"
	"acainfo_backend/internals/features/scheduling/reservations/service"
	sessionService "acainfo_backend/internals/features/scheduling/sessions/service"
	helper "acainfo_backend/internals/helpers"
	helperAuth "acainfo_backend/internals/helpers/auth"
)

/* =========================
   Controller & Constructor
========================= */

type ReservationController struct {
	Service  *service.Service
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *ReservationController {
	return &ReservationController{Service: service.New(db), Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

// writeServiceError maps reservation domain errors onto HTTP statuses.
// Seat races (full, duplicate) come back as 409.
func writeServiceError(c *fiber.Ctx, err error) error {
	var dup *service.ReservationAlreadyExistsError
	var full *service.SessionFullError
	var cross *service.CrossGroupReservationNotAllowedError
	var subj *service.SubjectReservationAlreadyExistsError
	var late *service.OnlineRequestTooLateError
	var oreq *service.OnlineRequestAlreadyExistsError
	var att *service.AttendanceAlreadyRecordedError
	var state *service.InvalidReservationStateError
	var sessState *sessionService.InvalidSessionStateError
	switch {
	case errors.Is(err, service.ErrReservationNotFound):
		return helper.JsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, sessionService.ErrSessionNotFound):
		return helper.JsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotReservationOwner),
		errors.Is(err, service.ErrNotSessionTeacher):
		return helper.JsonError(c, http.StatusForbidden, err.Error())
	case errors.As(err, &dup), errors.As(err, &full),
		errors.As(err, &subj), errors.As(err, &oreq), errors.As(err, &att):
		return helper.JsonError(c, http.StatusConflict, err.Error())
	case errors.As(err, &cross):
		return helper.JsonError(c, http.StatusForbidden, err.Error())
	case errors.As(err, &late):
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &state), errors.As(err, &sessState):
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}
	return helper.JsonError(c, http.StatusInternalServerError, err.Error())
}

/* ========================= Seat claims ========================= */

// Create claims a seat on a session for the caller.
func (ctl *ReservationController) Create(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req d.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	res, err := ctl.Service.Create(req.ToInput(studentID))
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Seat reserved", d.NewReservationResponse(res))
}

// Switch moves the caller's seat to another session atomically.
func (ctl *ReservationController) Switch(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var req d.SwitchReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	res, err := ctl.Service.Switch(studentID, id, req.NewSessionID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Reservation switched", d.NewReservationResponse(res))
}

// Cancel releases the caller's seat.
func (ctl *ReservationController) Cancel(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	res, err := ctl.Service.Cancel(id, studentID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Reservation cancelled", d.NewReservationResponse(res))
}

/* ========================= Online requests ========================= */

func (ctl *ReservationController) RequestOnline(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	res, err := ctl.Service.RequestOnline(id, studentID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Online attendance requested", d.NewReservationResponse(res))
}

func (ctl *ReservationController) ProcessOnline(c *fiber.Ctx) error {
	deciderID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var req d.ProcessOnlineRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	res, err := ctl.Service.ProcessOnline(id, deciderID, helperAuth.IsAdmin(c), req.Approved)
	if err != nil {
		return writeServiceError(c, err)
	}
	msg := "Online request rejected"
	if req.Approved {
		msg = "Online request approved"
	}
	return helper.JsonUpdated(c, msg, d.NewReservationResponse(res))
}

/* ========================= Attendance ========================= */

func (ctl *ReservationController) RecordAttendance(c *fiber.Ctx) error {
	recorderID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var req d.RecordAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	res, err := ctl.Service.RecordAttendance(id, model.AttendanceStatus(req.Status), recorderID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Attendance recorded", d.NewReservationResponse(res))
}

func (ctl *ReservationController) RecordAttendanceBulk(c *fiber.Ctx) error {
	recorderID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req d.RecordAttendanceBulkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	out, err := ctl.Service.RecordAttendanceBulk(req.ToItems(), recorderID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, fmt.Sprintf("%d attendances recorded", len(out)), d.NewReservationResponses(out))
}

/* ========================= Queries ========================= */

func (ctl *ReservationController) ListMine(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	out, err := ctl.Service.ListByStudent(studentID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewReservationResponses(out))
}

func (ctl *ReservationController) ListBySession(c *fiber.Ctx) error {
	sessionID, err := parseUUIDParam(c, "sessionId")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	out, err := ctl.Service.ListBySession(sessionID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewReservationResponses(out))
}
