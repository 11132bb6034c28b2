// file: internals/features/academics/enrollments/route/enrollment_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollmentController "acainfo_backend/internals/features/academics/enrollments/controller"
)

func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := enrollmentController.New(db, validator.New())
	grp := r.Group("/enrollments")
	grp.Post("/", ctl.Request)
	grp.Get("/", ctl.ListMine)
	grp.Post("/:id/cancel", ctl.CancelOwn)
}

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := enrollmentController.New(db, validator.New())
	grp := r.Group("/enrollments")
	grp.Post("/:id/approve", ctl.Approve)
	grp.Post("/:id/reject", ctl.Reject)
	grp.Get("/group/:groupId", ctl.ListByGroup)
}
