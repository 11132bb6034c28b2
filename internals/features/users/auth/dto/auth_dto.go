// file: internals/features/users/auth/dto/auth_dto.go
package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	model "acainfo_backend/internals/features/users/user/model"
)

/* =========================
   Requests
========================= */

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=160"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName string  `json:"full_name" validate:"required,min=2,max=160"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
}

func (r RegisterRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r LoginRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r RefreshRequest) Validate(v *validator.Validate) error { return v.Struct(r) }

/* =========================
   Responses
========================= */

type UserResponse struct {
	UserID   string  `json:"user_id"`
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role"`
}

func NewUserResponse(u *model.UserModel) UserResponse {
	return UserResponse{
		UserID:   u.UserID.String(),
		Email:    u.UserEmail,
		FullName: u.UserFullName,
		Phone:    u.UserPhone,
		Role:     u.UserRole,
	}
}

type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}
