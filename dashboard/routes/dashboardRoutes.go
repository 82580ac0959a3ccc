package routes

import (
	"github.com/muhammedanshif/rentEase/dashboard/controllers"
	"github.com/muhammedanshif/rentEase/middleware"

	"github.com/gofiber/fiber/v2"
)

func DashboardRouterInit(api fiber.Router, appCtx *middleware.AppContext, dashboardController *controllers.DashboardController) {
	dashboardRoutes := api.Group("/dashboard",
		middleware.ProtectedRoute(appCtx),
		middleware.AdminOnly(),
	)
	dashboardRoutes.Get("/stats", dashboardController.GetStatsController)
}
