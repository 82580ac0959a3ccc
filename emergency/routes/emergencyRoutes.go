package routes

import (
	"github.com/muhammedanshif/rentEase/emergency/controllers"
	"github.com/muhammedanshif/rentEase/middleware"

	"github.com/gofiber/fiber/v2"
)

func EmergencyContactRouterInit(api fiber.Router, appCtx *middleware.AppContext, contactController *controllers.EmergencyContactController) {
	contactRoutes := api.Group("/emergency-contacts",
		middleware.ProtectedRoute(appCtx),
		middleware.Idempotency(appCtx),
	)

	contactRoutes.Get("/", contactController.GetContactsController)
	contactRoutes.Post("/", middleware.AdminOnly(), contactController.CreateContactController)
	contactRoutes.Put("/:id", middleware.AdminOnly(), contactController.UpdateContactController)
	contactRoutes.Delete("/:id", middleware.AdminOnly(), contactController.DeleteContactController)
}
