// file: internals/route/details/scheduling_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reservationRoute "acainfo_backend/internals/features/scheduling/reservations/route"
	scheduleRoute "acainfo_backend/internals/features/scheduling/schedules/route"
	sessionRoute "acainfo_backend/internals/features/scheduling/sessions/route"
)

// SchedulingAdminRoutes: weekly templates, session generation and lifecycle
// administration.
func SchedulingAdminRoutes(admin fiber.Router, db *gorm.DB) {
	scheduleRoute.AdminRoutes(admin, db)
	sessionRoute.AdminRoutes(admin, db)
}

// SchedulingTeacherRoutes: running a session and keeping its register.
func SchedulingTeacherRoutes(teacher fiber.Router, db *gorm.DB) {
	sessionRoute.TeacherRoutes(teacher, db)
	reservationRoute.TeacherRoutes(teacher, db)
}

// SchedulingUserRoutes: the student-facing calendar and seat management.
func SchedulingUserRoutes(user fiber.Router, db *gorm.DB) {
	scheduleRoute.UserRoutes(user, db)
	sessionRoute.UserRoutes(user, db)
	reservationRoute.UserRoutes(user, db)
}
