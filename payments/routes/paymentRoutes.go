package routes

import (
	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/payments/controllers"

	"github.com/gofiber/fiber/v2"
)

func PaymentRouterInit(api fiber.Router, appCtx *middleware.AppContext, paymentController *controllers.PaymentController) {
	settingsRoutes := api.Group("/payment-settings",
		middleware.ProtectedRoute(appCtx),
		middleware.Idempotency(appCtx),
	)
	settingsRoutes.Get("/", paymentController.GetPaymentSettingsController)
	settingsRoutes.Post("/", middleware.AdminOnly(), paymentController.UpdatePaymentSettingsController)
	settingsRoutes.Post("/qr-code", middleware.AdminOnly(), paymentController.UploadQRCodeController)

	// "/payment" is a prefix of "/payment-settings", so these routes carry
	// their guards individually instead of through a group.
	guarded := []fiber.Handler{
		middleware.ProtectedRoute(appCtx),
		middleware.ResolveTenant(appCtx),
		middleware.Idempotency(appCtx),
	}
	api.Post("/payment/create-order", append(guarded, paymentController.CreateOrderController)...)
	api.Post("/payment/verify", append(guarded, paymentController.VerifyPaymentController)...)

	// Called by the gateway itself; authenticated by signature.
	api.Post("/payment/notification", paymentController.NotificationController)
}
