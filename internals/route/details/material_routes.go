// file: internals/route/details/material_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	materialRoute "acainfo_backend/internals/features/materials/route"
)

func MaterialTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	materialRoute.TeacherRoutes(teacher, db)
}

func MaterialUserRoutes(user fiber.Router, db *gorm.DB) {
	materialRoute.UserRoutes(user, db)
}
