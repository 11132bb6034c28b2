// file: internals/features/scheduling/sessions/route/session_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessionController "acainfo_backend/internals/features/scheduling/sessions/controller"
)

// AdminRoutes: generation, lifecycle and ad-hoc creation.
func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := sessionController.New(db, validator.New())
	grp := r.Group("/sessions")
	grp.Post("/generate", ctl.Generate)
	grp.Post("/extra", ctl.CreateExtra)
	grp.Post("/scheduling", ctl.CreateScheduling)
	grp.Post("/:id/cancel", ctl.Cancel)
	grp.Post("/:id/postpone", ctl.Postpone)
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
}

// TeacherRoutes: a teacher runs the session itself.
func TeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := sessionController.New(db, validator.New())
	grp := r.Group("/sessions")
	grp.Post("/:id/start", ctl.Start)
	grp.Post("/:id/complete", ctl.Complete)
}

// UserRoutes: read-only calendar for students.
func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := sessionController.New(db, validator.New())
	grp := r.Group("/sessions")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
}
