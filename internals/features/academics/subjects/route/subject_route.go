// file: internals/features/academics/subjects/route/subject_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subjectController "acainfo_backend/internals/features/academics/subjects/controller"
)

// AdminRoutes: full CRUD, mounted under the admin group.
func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := subjectController.New(db, validator.New())
	grp := r.Group("/subjects")
	grp.Post("/", ctl.Create)
	grp.Patch("/:id", ctl.Patch)
	grp.Delete("/:id", ctl.Delete)
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
}

// UserRoutes: read-only listing for authenticated users.
func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := subjectController.New(db, validator.New())
	grp := r.Group("/subjects")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
}
