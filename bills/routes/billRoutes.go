package routes

import (
	"github.com/muhammedanshif/rentEase/bills/controllers"
	"github.com/muhammedanshif/rentEase/middleware"

	"github.com/gofiber/fiber/v2"
)

func BillRouterInit(api fiber.Router, appCtx *middleware.AppContext, billController *controllers.BillController) {
	billRoutes := api.Group("/bills",
		middleware.ProtectedRoute(appCtx),
		middleware.ResolveTenant(appCtx),
		middleware.Idempotency(appCtx),
	)

	// Static paths go first so they are not captured by ":id".
	billRoutes.Get("/", billController.GetBillsController)
	billRoutes.Get("/export", middleware.AdminOnly(), billController.ExportBillsController)
	billRoutes.Post("/", middleware.AdminOnly(), billController.CreateBillController)
	billRoutes.Post("/generate-rent", middleware.AdminOnly(), billController.GenerateRentController)

	billRoutes.Delete("/:id", middleware.AdminOnly(), billController.DeleteBillController)
	billRoutes.Post("/:id/upload-screenshot", billController.UploadScreenshotController)
	billRoutes.Put("/:id/pay", middleware.AdminOnly(), billController.VerifyPaymentController)
	billRoutes.Put("/:id/record-payment", middleware.AdminOnly(), billController.RecordPaymentController)
	billRoutes.Put("/:id/mark-paid", middleware.TenantOnly(), billController.MarkPaidController)
	billRoutes.Get("/:id/receipt", billController.GetReceiptController)
	billRoutes.Get("/:id/receipt/pdf", billController.GetReceiptPDFController)
}
