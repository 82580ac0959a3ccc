package routes

import (
	"github.com/muhammedanshif/rentEase/complaints/controllers"
	"github.com/muhammedanshif/rentEase/middleware"

	"github.com/gofiber/fiber/v2"
)

func ComplaintRouterInit(api fiber.Router, appCtx *middleware.AppContext, complaintController *controllers.ComplaintController) {
	complaintRoutes := api.Group("/complaints",
		middleware.ProtectedRoute(appCtx),
		middleware.ResolveTenant(appCtx),
		middleware.Idempotency(appCtx),
	)

	complaintRoutes.Get("/", complaintController.GetComplaintsController)
	complaintRoutes.Post("/", middleware.TenantOnly(), complaintController.SubmitComplaintController)
	complaintRoutes.Put("/:id/reply", middleware.AdminOnly(), complaintController.ReplyComplaintController)
	complaintRoutes.Put("/:id/close", complaintController.CloseComplaintController)
}
