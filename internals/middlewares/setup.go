// file: internals/middlewares/setup.go
package middlewares

import "github.com/gofiber/fiber/v2"

func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
