// file: internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"acainfo_backend/internals/configs"
	"acainfo_backend/internals/constants"
	d "acainfo_backend/internals/features/users/auth/dto"
	model "acainfo_backend/internals/features/users/user/model"
	helper "acainfo_backend/internals/helpers"
	helperAuth "acainfo_backend/internals/helpers/auth"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

/* =========================
   Controller & Constructor
========================= */

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *AuthController {
	return &AuthController{DB: db, Validate: v}
}

/* ========================= Register ========================= */

func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req d.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	user := model.UserModel{
		UserEmail:    req.Email,
		UserPassword: string(hash),
		UserFullName: req.FullName,
		UserPhone:    req.Phone,
		UserRole:     constants.RoleStudent, // staff accounts are provisioned by admins
	}
	if err := ctl.DB.Create(&user).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, http.StatusConflict, "email already registered")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Account created", d.NewUserResponse(&user))
}

/* ========================= Login ========================= */

func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req d.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	req.Normalize()
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	var user model.UserModel
	if err := ctl.DB.First(&user, "user_email = ? AND user_is_active = ?", req.Email, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusUnauthorized, "invalid credentials")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(req.Password)) != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "invalid credentials")
	}

	resp, err := ctl.issueTokens(&user)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Logged in", resp)
}

/* ========================= Refresh ========================= */

func (ctl *AuthController) Refresh(c *fiber.Ctx) error {
	var req d.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(ctl.Validate); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, err.Error())
	}

	claims, err := helperAuth.ParseToken(configs.JWTRefreshSecret, req.RefreshToken)
	if err != nil {
		return err
	}
	idStr, _ := claims["id"].(string)
	userID, perr := uuid.Parse(idStr)
	if perr != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "invalid token subject")
	}

	var user model.UserModel
	if err := ctl.DB.First(&user, "user_id = ? AND user_is_active = ?", userID, true).Error; err != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "account not found or disabled")
	}

	resp, err := ctl.issueTokens(&user)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Token refreshed", resp)
}

/* ========================= Me ========================= */

func (ctl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var user model.UserModel
	if err := ctl.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "user not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", d.NewUserResponse(&user))
}

/* ========================= Helpers ========================= */

func (ctl *AuthController) issueTokens(user *model.UserModel) (*d.TokenResponse, error) {
	tc := helperAuth.TokenClaims{
		UserID: user.UserID,
		Email:  user.UserEmail,
		Role:   user.UserRole,
	}
	access, err := helperAuth.SignToken(configs.JWTSecret, tc, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := helperAuth.SignToken(configs.JWTRefreshSecret, tc, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &d.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         d.NewUserResponse(user),
	}, nil
}
