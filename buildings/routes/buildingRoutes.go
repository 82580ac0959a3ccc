package routes

import (
	"github.com/muhammedanshif/rentEase/buildings/controllers"
	"github.com/muhammedanshif/rentEase/middleware"

	"github.com/gofiber/fiber/v2"
)

func BuildingRouterInit(api fiber.Router, appCtx *middleware.AppContext, buildingController *controllers.BuildingController) {
	buildingRoutes := api.Group("/buildings",
		middleware.ProtectedRoute(appCtx),
		middleware.AdminOnly(),
		middleware.Idempotency(appCtx),
	)

	buildingRoutes.Get("/", buildingController.GetBuildingsController)
	buildingRoutes.Post("/", buildingController.CreateBuildingController)
	buildingRoutes.Get("/:id", buildingController.GetBuildingController)
	buildingRoutes.Put("/:id", buildingController.UpdateBuildingController)
	buildingRoutes.Delete("/:id", buildingController.DeleteBuildingController)
	buildingRoutes.Get("/:id/rooms", buildingController.GetBuildingRoomsController)
}
