// file: internals/features/scheduling/sessions/controller/session_controller.go
package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "acainfo_backend/internals/features/scheduling/sessions/dto"
	m "acainfo_backend/internals/features/scheduling/sessions/model"
	"acainfo_backend/internals/features/scheduling/sessions/service"
	helper "acainfo_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
========================= */

type SessionController struct {
	DB       *gorm.DB
	Service  *service.Service
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *SessionController {
	return &SessionController{DB: db, Service: service.New(db), Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

// writeServiceError maps session domain errors onto HTTP statuses. Illegal
// lifecycle transitions come back as 422, slot conflicts as 409.
func writeServiceError(c *fiber.Ctx, err error) error {
	var state *service.InvalidSessionStateError
	var conflict *service.SessionConflictError
	var invalid *service.InvalidSessionDataError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return helper.JsonError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &state):
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &conflict):
		return helper.JsonError(c, http.StatusConflict, err.Error())
	case errors.As(err, &invalid):
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	return helper.JsonError(c, http.StatusInternalServerError, err.Error())
}

/* ========================= Generator ========================= */

// Generate expands schedules into dated sessions over a range. With dry_run
// the candidates are returned without being persisted.
func (ctl *SessionController) Generate(c *fiber.Ctx) error {
	var req d.GenerateSessionsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	from, to, err := req.Range()
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	if req.DryRun {
		out, err := ctl.Service.Preview(req.GroupID, from, to)
		if err != nil {
			return writeServiceError(c, err)
		}
		return helper.JsonOK(c, "Preview only, nothing persisted", d.NewSessionResponses(out))
	}

	out, err := ctl.Service.Generate(req.GroupID, from, to)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, fmt.Sprintf("%d sessions generated", len(out)), d.NewSessionResponses(out))
}

/* ========================= Lifecycle ========================= */

func (ctl *SessionController) Start(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	sess, err := ctl.Service.Start(id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Session started", d.NewSessionResponse(sess))
}

func (ctl *SessionController) Complete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var req d.CompleteSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	sess, err := ctl.Service.Complete(id, req.TopicsCovered)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Session completed", d.NewSessionResponse(sess))
}

func (ctl *SessionController) Cancel(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var req d.CancelSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	sess, err := ctl.Service.Cancel(id, req.Reason)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Session cancelled", d.NewSessionResponse(sess))
}

func (ctl *SessionController) Postpone(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	var req d.PostponeSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	orig, repl, err := ctl.Service.Postpone(id, in)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Session postponed", d.PostponeSessionResponse{
		Original:    d.NewSessionResponse(orig),
		Replacement: d.NewSessionResponse(repl),
	})
}

/* ========================= Ad-hoc creation ========================= */

func (ctl *SessionController) CreateExtra(c *fiber.Ctx) error {
	var req d.CreateExtraSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	sess, err := ctl.Service.CreateExtra(in)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Extra session created", d.NewSessionResponse(sess))
}

func (ctl *SessionController) CreateScheduling(c *fiber.Ctx) error {
	var req d.CreateSchedulingSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	sess, err := ctl.Service.CreateScheduling(in)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Scheduling session created", d.NewSessionResponse(sess))
}

/* ========================= List / Get ========================= */

func (ctl *SessionController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&m.SessionModel{})
	if gid := strings.TrimSpace(c.Query("group_id")); gid != "" {
		q = q.Where("session_group_id = ?", gid)
	}
	if sid := strings.TrimSpace(c.Query("subject_id")); sid != "" {
		q = q.Where("session_subject_id = ?", sid)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("session_status = ?", status)
	}
	if from := strings.TrimSpace(c.Query("from")); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			q = q.Where("session_date >= ?", t)
		}
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			q = q.Where("session_date <= ?", t)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	var sessions []m.SessionModel
	if err := q.Order("session_date, session_start_time").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&sessions).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", d.NewSessionResponses(sessions), &p)
}

func (ctl *SessionController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	sess, err := ctl.Service.GetByID(id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "", d.NewSessionResponse(sess))
}
