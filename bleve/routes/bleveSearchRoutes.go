package routes

import (
	"github.com/muhammedanshif/rentEase/bleve/controllers"
	"github.com/muhammedanshif/rentEase/middleware"

	"github.com/gofiber/fiber/v2"
)

// InitBleveRoutes must be registered before the tenant ":id" routes.
func InitBleveRoutes(api fiber.Router, appCtx *middleware.AppContext, controller *controllers.SearchController) {
	api.Get("/tenants/search",
		middleware.ProtectedRoute(appCtx),
		middleware.AdminOnly(),
		controller.SearchTenantsController,
	)
}
