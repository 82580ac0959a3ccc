package routes

import (
	"github.com/muhammedanshif/rentEase/announcements/controllers"
	"github.com/muhammedanshif/rentEase/middleware"

	"github.com/gofiber/fiber/v2"
)

func AnnouncementRouterInit(api fiber.Router, appCtx *middleware.AppContext, announcementController *controllers.AnnouncementController) {
	announcementRoutes := api.Group("/announcements",
		middleware.ProtectedRoute(appCtx),
		middleware.Idempotency(appCtx),
	)

	announcementRoutes.Get("/", announcementController.GetAnnouncementsController)
	announcementRoutes.Post("/", middleware.AdminOnly(), announcementController.CreateAnnouncementController)
	announcementRoutes.Put("/:id", middleware.AdminOnly(), announcementController.UpdateAnnouncementController)
	announcementRoutes.Delete("/:id", middleware.AdminOnly(), announcementController.DeleteAnnouncementController)
}
