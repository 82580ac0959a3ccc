package controllers

import (
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	tenantPhotoFolder    = "tenant_photos"
	tenantDocumentFolder = "tenant_documents"
)

// UploadTenantPhotoController replaces the tenant's photo with the "photo" file.
func (tc *TenantController) UploadTenantPhotoController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "tenant id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	existing, err := tc.TenantRepo.GetTenantByID(id)
	if err != nil {
		return utils.RespondError(c, tenantError(err, "Failed to load tenant"))
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("photo file is required"))
	}
	path, err := utils.SavePhoto(tc.Storage, fh, tenantPhotoFolder)
	if err != nil {
		return utils.RespondError(c, err)
	}

	tenant, err := tc.TenantRepo.SetPhoto(id, path)
	if err != nil {
		_ = tc.Storage.DeleteFile(path)
		return utils.RespondError(c, tenantError(err, "Failed to save tenant photo"))
	}

	if existing.PhotoPath != nil && *existing.PhotoPath != path {
		if err := tc.Storage.DeleteFile(*existing.PhotoPath); err != nil {
			config.Logger.Warn("Failed to remove old tenant photo", zap.String("path", *existing.PhotoPath), zap.Error(err))
		}
	}
	return utils.RespondOK(c, fiber.StatusOK, "Photo uploaded successfully", tenant)
}

// UploadTenantDocumentsController appends every "documents" file to the tenant.
func (tc *TenantController) UploadTenantDocumentsController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "tenant id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if _, err := tc.TenantRepo.GetTenantByID(id); err != nil {
		return utils.RespondError(c, tenantError(err, "Failed to load tenant"))
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["documents"]) == 0 {
		return utils.RespondError(c, utils.ValidationError("At least one document is required"))
	}

	paths := make([]string, 0, len(form.File["documents"]))
	for _, fh := range form.File["documents"] {
		path, err := utils.SaveMultipart(tc.Storage, fh, tenantDocumentFolder, utils.DocumentExtensions)
		if err != nil {
			for _, p := range paths {
				_ = tc.Storage.DeleteFile(p)
			}
			return utils.RespondError(c, err)
		}
		paths = append(paths, path)
	}

	tenant, err := tc.TenantRepo.AppendDocuments(id, paths)
	if err != nil {
		return utils.RespondError(c, tenantError(err, "Failed to save tenant documents"))
	}

	config.Logger.Info("Tenant documents uploaded", zap.String("tenant_id", id.String()), zap.Int("count", len(paths)))
	return utils.RespondOK(c, fiber.StatusOK, "Documents uploaded successfully", tenant)
}
