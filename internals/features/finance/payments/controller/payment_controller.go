// file: internals/features/finance/payments/controller/payment_controller.go
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

	d "acainfo_backend/internals/features/finance/payments/dto"
	"acainfo_backend/internals/features/finance/payments/service"
	userModel "acainfo_backend/internals/features/users/user/model"
	helper "acainfo_backend/internals/helpers"
	helperAuth "acainfo_backend/internals/helpers/auth"
)

/* =========================
   Controller & Constructor
========================= */

type PaymentController struct {
	DB       *gorm.DB
	Service  *service.Service
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *PaymentController {
	return &PaymentController{DB: db, Service: service.New(db), Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(idStr)
}

/* ========================= Create + Snap ========================= */

// Create opens a pending payment and asks the gateway for a Snap token in the
// same request so the client can open the payment page immediately.
func (ctl *PaymentController) Create(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req d.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	pay, err := ctl.Service.Create(service.CreateInput{
		EnrollmentID: req.EnrollmentID,
		StudentID:    studentID,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if err != nil {
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}

	var user userModel.UserModel
	if err := ctl.DB.First(&user, "user_id = ?", studentID).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	token, redirectURL, err := service.GenerateSnapToken(pay, service.CustomerInput{
		FirstName: user.UserFullName,
		Email:     user.UserEmail,
		Phone:     derefString(user.UserPhone),
	})
	if err != nil {
		return helper.JsonError(c, http.StatusBadGateway, "payment gateway error: "+err.Error())
	}
	if err := ctl.Service.AttachSnapToken(pay.PaymentID, token); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	pay.PaymentSnapToken = &token

	return helper.JsonCreated(c, "Payment created", d.CreatePaymentResponse{
		Payment:     d.NewPaymentResponse(pay),
		SnapToken:   token,
		RedirectURL: redirectURL,
	})
}

/* ========================= Webhook ========================= */

// Webhook receives the gateway's HTTP notification and folds the transaction
// status into the payment row. Unknown order ids return 404 so the gateway
// retries do not mask a misrouted notification.
func (ctl *PaymentController) Webhook(c *fiber.Ctx) error {
	var req d.GatewayNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if !service.VerifySignature(req.OrderID, req.StatusCode, req.GrossAmount, req.SignatureKey) {
		return helper.JsonError(c, http.StatusUnauthorized, "invalid signature")
	}

	pay, err := ctl.Service.ApplyGatewayStatus(req.OrderID, req.TransactionStatus, req.FraudStatus)
	if err != nil {
		var settled *service.PaymentAlreadySettledError
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			return helper.JsonError(c, http.StatusNotFound, err.Error())
		case errors.As(err, &settled):
			return helper.JsonError(c, http.StatusConflict, err.Error())
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Notification processed", d.NewPaymentResponse(pay))
}

/* ========================= Queries ========================= */

func (ctl *PaymentController) ListMine(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	out, err := ctl.Service.ListByStudent(studentID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewPaymentResponses(out))
}

func (ctl *PaymentController) ListByEnrollment(c *fiber.Ctx) error {
	enrollmentID, err := parseUUIDParam(c, "enrollmentId")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	out, err := ctl.Service.ListByEnrollment(enrollmentID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewPaymentResponses(out))
}

func (ctl *PaymentController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	pay, err := ctl.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return helper.JsonError(c, http.StatusNotFound, err.Error())
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewPaymentResponse(pay))
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
