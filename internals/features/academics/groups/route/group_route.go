// file: internals/features/academics/groups/route/group_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	groupController "acainfo_backend/internals/features/academics/groups/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := groupController.New(db, validator.New())
	grp := r.Group("/groups")
	grp.Post("/", ctl.Create)
	grp.Patch("/:id", ctl.Patch)
	grp.Delete("/:id", ctl.Delete)
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
}

func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := groupController.New(db, validator.New())
	grp := r.Group("/groups")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.GetByID)
}
