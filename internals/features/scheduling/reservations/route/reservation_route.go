// file: internals/features/scheduling/reservations/route/reservation_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reservationController "acainfo_backend/internals/features/scheduling/reservations/controller"
)

// UserRoutes: students manage their own seats.
func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := reservationController.New(db, validator.New())
	grp := r.Group("/reservations")
	grp.Post("/", ctl.Create)
	grp.Get("/", ctl.ListMine)
	grp.Post("/:id/switch", ctl.Switch)
	grp.Post("/:id/cancel", ctl.Cancel)
	grp.Post("/:id/online-request", ctl.RequestOnline)
}

// TeacherRoutes: online-request decisions and the attendance register.
func TeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := reservationController.New(db, validator.New())
	grp := r.Group("/reservations")
	grp.Post("/:id/online-request/decide", ctl.ProcessOnline)
	grp.Post("/:id/attendance", ctl.RecordAttendance)
	grp.Post("/attendance/bulk", ctl.RecordAttendanceBulk)
	grp.Get("/session/:sessionId", ctl.ListBySession)
}
