package controllers

import (
	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
)

type tenantDocument struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// GetMyProfileController returns the logged in tenant's own record.
func (tc *TenantController) GetMyProfileController(c *fiber.Ctx) error {
	tenantID := middleware.CurrentTenantID(c)
	if tenantID == nil {
		return utils.RespondError(c, utils.ForbiddenError("Tenant access required"))
	}
	tenant, err := tc.TenantRepo.GetTenantByID(*tenantID)
	if err != nil {
		return utils.RespondError(c, tenantError(err, "Failed to fetch profile"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Profile retrieved successfully", tenant)
}

func (tc *TenantController) GetMyDocumentsController(c *fiber.Ctx) error {
	tenantID := middleware.CurrentTenantID(c)
	if tenantID == nil {
		return utils.RespondError(c, utils.ForbiddenError("Tenant access required"))
	}
	tenant, err := tc.TenantRepo.GetTenantByID(*tenantID)
	if err != nil {
		return utils.RespondError(c, tenantError(err, "Failed to fetch documents"))
	}

	docs := make([]tenantDocument, 0, len(tenant.Documents))
	for _, p := range tenant.Documents {
		docs = append(docs, tenantDocument{Path: p, URL: utils.GetUploadURL(c, p)})
	}
	var photo *tenantDocument
	if tenant.PhotoPath != nil {
		photo = &tenantDocument{Path: *tenant.PhotoPath, URL: utils.GetUploadURL(c, *tenant.PhotoPath)}
	}

	return utils.RespondOK(c, fiber.StatusOK, "Documents retrieved successfully", fiber.Map{
		"photo":     photo,
		"documents": docs,
	})
}
