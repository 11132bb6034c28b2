// file: internals/features/finance/payments/route/payment_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "acainfo_backend/internals/features/finance/payments/controller"
)

// WebhookRoutes: unauthenticated gateway callback.
func WebhookRoutes(app *fiber.App, db *gorm.DB) {
	ctl := paymentController.New(db, validator.New())
	app.Post("/api/payments/webhook", ctl.Webhook)
}

func UserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.New(db, validator.New())
	grp := r.Group("/payments")
	grp.Post("/", ctl.Create)
	grp.Get("/", ctl.ListMine)
	grp.Get("/:id", ctl.GetByID)
}

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.New(db, validator.New())
	grp := r.Group("/payments")
	grp.Get("/enrollment/:enrollmentId", ctl.ListByEnrollment)
	grp.Get("/:id", ctl.GetByID)
}
