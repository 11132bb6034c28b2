// file: internals/features/materials/route/material_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	materialController "acainfo_backend/internals/features/materials/controller"
)

// TeacherRoutes: teachers upload and manage their own materials.
func TeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := materialController.New(db, validator.New())
	grp := r.Group("/materials")
	grp.Post("/", ctl.Create)
	grp.Patch("/:id", ctl.Patch)
	grp.Delete("/:id", ctl.Delete)
}

// UserRoutes: read access for everyone signed in.
func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := materialController.New(db, validator.New())
	grp := r.Group("/materials")
	grp.Get("/subject/:subjectId", ctl.ListBySubject)
	grp.Get("/:id", ctl.GetByID)
}
