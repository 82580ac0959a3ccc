package routes

import (
	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/tenants/controllers"

	"github.com/gofiber/fiber/v2"
)

// TenantRouterInit must run after the search routes so "/tenants/search" is
// not taken for an id.
func TenantRouterInit(api fiber.Router, appCtx *middleware.AppContext, tenantController *controllers.TenantController) {
	tenantRoutes := api.Group("/tenants",
		middleware.ProtectedRoute(appCtx),
		middleware.AdminOnly(),
		middleware.Idempotency(appCtx),
	)

	tenantRoutes.Get("/", tenantController.GetTenantsController)
	tenantRoutes.Post("/", tenantController.CreateTenantController)
	tenantRoutes.Get("/:id", tenantController.GetTenantController)
	tenantRoutes.Put("/:id", tenantController.UpdateTenantController)
	tenantRoutes.Delete("/:id", tenantController.DeleteTenantController)
	tenantRoutes.Post("/:id/photo", tenantController.UploadTenantPhotoController)
	tenantRoutes.Post("/:id/documents", tenantController.UploadTenantDocumentsController)

	// Guards are attached per route: a "/tenant" group middleware would also
	// match every "/tenants" path.
	self := []fiber.Handler{
		middleware.ProtectedRoute(appCtx),
		middleware.TenantOnly(),
		middleware.ResolveTenant(appCtx),
	}
	api.Get("/tenant/my-profile", append(self, tenantController.GetMyProfileController)...)
	api.Get("/tenant/my-documents", append(self, tenantController.GetMyDocumentsController)...)
}
