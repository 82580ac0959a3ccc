package router

import (
	"time"

	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/users/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitRoutes(api fiber.Router, appCtx *middleware.AppContext, loginController *controllers.LoginController) {
	auth := api.Group("/auth")
	auth.Post("/login", middleware.LoginRateLimiter(10, time.Minute), loginController.LoginUser)
	auth.Post("/logout", middleware.ProtectedRoute(appCtx), loginController.LogoutUser)
	auth.Get("/me", middleware.ProtectedRoute(appCtx), loginController.CurrentUserController)
}
