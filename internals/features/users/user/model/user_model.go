// file: internals/features/users/user/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	// PK
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey;column:user_id"`

	UserEmail    string `json:"user_email" gorm:"type:varchar(160);not null;uniqueIndex:uq_users_email;column:user_email"`
	UserPassword string `json:"-" gorm:"type:text;not null;column:user_password"`
	UserFullName string `json:"user_full_name" gorm:"type:varchar(160);not null;column:user_full_name"`
	UserPhone    *string `json:"user_phone,omitempty" gorm:"type:varchar(30);column:user_phone"`

	// student | teacher | admin (see constants.AllRoles)
	UserRole string `json:"user_role" gorm:"type:varchar(20);not null;default:'student';column:user_role;index"`

	UserIsActive bool `json:"user_is_active" gorm:"not null;default:true;column:user_is_active"`

	// Timestamps
	UserCreatedAt time.Time      `json:"user_created_at" gorm:"column:user_created_at;autoCreateTime"`
	UserUpdatedAt time.Time      `json:"user_updated_at" gorm:"column:user_updated_at;autoUpdateTime"`
	UserDeletedAt gorm.DeletedAt `json:"user_deleted_at,omitempty" gorm:"column:user_deleted_at;index"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
