// file: internals/route/index.go
package route

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"acainfo_backend/internals/configs"
	"acainfo_backend/internals/constants"
	authRoute "acainfo_backend/internals/features/users/auth/route"
	authMiddleware "acainfo_backend/internals/middlewares/auth"
	routeDetails "acainfo_backend/internals/route/details"

	paymentService "acainfo_backend/internals/features/finance/payments/service"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== HEALTH =====================
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"uptime": time.Since(startTime).String(),
		})
	})

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	// ===================== PAYMENT GATEWAY =====================
	midtransServerKey := configs.GetEnv("MIDTRANS_SERVER_KEY")
	useMidtransProd := false
	if v := configs.GetEnv("MIDTRANS_USE_PROD"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			useMidtransProd = b
		}
	}
	paymentService.InitMidtrans(midtransServerKey, useMidtransProd)
	routeDetails.FinanceWebhookRoutes(app, db)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE (user) group...")
	user := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)
	routeDetails.AcademicUserRoutes(user, db)
	routeDetails.SchedulingUserRoutes(user, db)
	routeDetails.FinanceUserRoutes(user, db)
	routeDetails.MaterialUserRoutes(user, db)

	// ===================== TEACHER =====================
	log.Println("[INFO] Setting up TEACHER group (Auth + RoleCheck)...")
	teacher := app.Group("/api/t",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.RequireRoles(constants.RoleTeacher, constants.RoleAdmin),
	)
	routeDetails.SchedulingTeacherRoutes(teacher, db)
	routeDetails.MaterialTeacherRoutes(teacher, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.RequireRoles(constants.RoleAdmin),
	)
	routeDetails.AcademicAdminRoutes(admin, db)
	routeDetails.SchedulingAdminRoutes(admin, db)
	routeDetails.FinanceAdminRoutes(admin, db)
}
