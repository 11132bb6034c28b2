// file: internals/features/scheduling/schedules/route/schedule_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	scheduleController "acainfo_backend/internals/features/scheduling/schedules/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := scheduleController.New(db, validator.New())
	grp := r.Group("/schedules")
	grp.Post("/", ctl.Create)
	grp.Patch("/:id", ctl.Patch)
	grp.Delete("/:id", ctl.Delete)
	grp.Get("/group/:groupId", ctl.ListByGroup)
	grp.Get("/:id", ctl.GetByID)
}

func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := scheduleController.New(db, validator.New())
	grp := r.Group("/schedules")
	grp.Get("/group/:groupId", ctl.ListByGroup)
	grp.Get("/:id", ctl.GetByID)
}
