// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"acainfo_backend/internals/configs"
	authController "acainfo_backend/internals/features/users/auth/controller"
	"acainfo_backend/internals/middlewares"
	authMiddleware "acainfo_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	v := validator.New()
	ctl := authController.New(db, v)

	grp := app.Group("/api/auth")
	grp.Post("/register", middlewares.RegisterRateLimiter(), ctl.Register)
	grp.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	grp.Post("/refresh", ctl.Refresh)

	private := grp.Group("", authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))
	private.Get("/me", ctl.Me)
}
