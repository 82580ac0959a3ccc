package controllers

import (
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const qrCodeFolder = "upi_qr"

type PaymentSettingsRequest struct {
	UpiID *string `json:"upi_id" validate:"omitempty,max=100"`
}

func (pc *PaymentController) GetPaymentSettingsController(c *fiber.Ctx) error {
	settings, err := pc.SettingsRepo.GetSettings()
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch payment settings", err))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Payment settings retrieved successfully", settings)
}

func (pc *PaymentController) UpdatePaymentSettingsController(c *fiber.Ctx) error {
	var req PaymentSettingsRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	settings, err := pc.SettingsRepo.SetUpiID(utils.OptionalString(req.UpiID))
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update payment settings", err))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Payment settings updated", settings)
}

// UploadQRCodeController replaces the UPI QR image.
func (pc *PaymentController) UploadQRCodeController(c *fiber.Ctx) error {
	fh, err := c.FormFile("qr_code")
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("No QR code provided"))
	}
	path, err := utils.SaveMultipart(pc.Storage, fh, qrCodeFolder, utils.ImageExtensions)
	if err != nil {
		return utils.RespondError(c, err)
	}

	settings, previous, err := pc.SettingsRepo.SetQRCode(path)
	if err != nil {
		_ = pc.Storage.DeleteFile(path)
		return utils.RespondError(c, utils.InternalError("Failed to save QR code", err))
	}
	if previous != nil && *previous != "" && *previous != path {
		if err := pc.Storage.DeleteFile(*previous); err != nil {
			config.Logger.Warn("Failed to remove old QR code", zap.String("path", *previous), zap.Error(err))
		}
	}
	return utils.RespondOK(c, fiber.StatusOK, "QR code uploaded", settings)
}
