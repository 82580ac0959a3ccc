package routes

import (
	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/rooms/controllers"

	"github.com/gofiber/fiber/v2"
)

func RoomRouterInit(api fiber.Router, appCtx *middleware.AppContext, roomController *controllers.RoomController) {
	roomRoutes := api.Group("/rooms",
		middleware.ProtectedRoute(appCtx),
		middleware.AdminOnly(),
		middleware.Idempotency(appCtx),
	)

	roomRoutes.Get("/", roomController.GetRoomsController)
	roomRoutes.Post("/", roomController.CreateRoomController)
	roomRoutes.Get("/:id", roomController.GetRoomController)
	roomRoutes.Put("/:id", roomController.UpdateRoomController)
	roomRoutes.Delete("/:id", roomController.DeleteRoomController)
	roomRoutes.Post("/:id/photos", roomController.UploadRoomPhotosController)
}
