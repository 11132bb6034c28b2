// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentRoute "acainfo_backend/internals/features/finance/payments/route"
)

func FinanceWebhookRoutes(app *fiber.App, db *gorm.DB) {
	paymentRoute.WebhookRoutes(app, db)
}

func FinanceUserRoutes(user fiber.Router, db *gorm.DB) {
	paymentRoute.UserRoutes(user, db)
}

func FinanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	paymentRoute.AdminRoutes(admin, db)
}
