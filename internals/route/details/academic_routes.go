// file: internals/route/details/academic_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollmentRoute "acainfo_backend/internals/features/academics/enrollments/route"
	groupRoute "acainfo_backend/internals/features/academics/groups/route"
	subjectRoute "acainfo_backend/internals/features/academics/subjects/route"
)

// AcademicAdminRoutes wires the catalog management endpoints (subjects,
// groups, enrollment decisions) under the admin group.
func AcademicAdminRoutes(admin fiber.Router, db *gorm.DB) {
	subjectRoute.AdminRoutes(admin, db)
	groupRoute.AdminRoutes(admin, db)
	enrollmentRoute.AdminRoutes(admin, db)
}

// AcademicUserRoutes wires catalog browsing and self-service enrollment.
func AcademicUserRoutes(user fiber.Router, db *gorm.DB) {
	subjectRoute.UserRoutes(user, db)
	groupRoute.UserRoutes(user, db)
	enrollmentRoute.UserRoutes(user, db)
}
