package controllers

import (
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const screenshotFolder = "payment_screenshots"

// UploadScreenshotController stores payment proof and moves the bill to
// pending_approval. A second upload replaces the first.
func (bc *BillController) UploadScreenshotController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "bill id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	actor := actorFrom(c)

	// Reject before touching disk when the bill cannot take a screenshot.
	if _, err := bc.Service.Load(id, actor); err != nil {
		return utils.RespondError(c, err)
	}

	fh, err := c.FormFile("screenshot")
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("screenshot file is required"))
	}
	path, err := utils.SaveMultipart(bc.Storage, fh, screenshotFolder, utils.ImageExtensions)
	if err != nil {
		return utils.RespondError(c, err)
	}

	bill, err := bc.Service.UploadScreenshot(c.UserContext(), id, actor, path)
	if err != nil {
		if delErr := bc.Storage.DeleteFile(path); delErr != nil {
			config.Logger.Warn("Failed to remove orphaned screenshot", zap.String("path", path), zap.Error(delErr))
		}
		return utils.RespondError(c, err)
	}

	bc.publishStatus(bill)
	bc.invalidateDashboard(c)
	present(bill, bc.Service.Today())
	return utils.RespondOK(c, fiber.StatusOK, "Payment screenshot uploaded. Awaiting admin approval.", bill)
}

// VerifyPaymentController is the admin approval of uploaded proof.
func (bc *BillController) VerifyPaymentController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "bill id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	bill, err := bc.Service.Verify(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return utils.RespondError(c, err)
	}

	bc.AfterPaid(c.UserContext(), bill)
	present(bill, bc.Service.Today())
	return utils.RespondOK(c, fiber.StatusOK, "Payment verified successfully", bill)
}

type RecordPaymentRequest struct {
	PaymentReference *string `json:"payment_reference"`
}

// RecordPaymentController marks a bill paid without proof, for cash or bank
// payments the admin received directly.
func (bc *BillController) RecordPaymentController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "bill id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var req RecordPaymentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.RespondError(c, utils.ValidationError("Invalid request body"))
		}
	}

	bill, err := bc.Service.RecordPayment(c.UserContext(), id, actorFrom(c), utils.OptionalString(req.PaymentReference))
	if err != nil {
		return utils.RespondError(c, err)
	}

	bc.AfterPaid(c.UserContext(), bill)
	present(bill, bc.Service.Today())
	return utils.RespondOK(c, fiber.StatusOK, "Payment recorded successfully", bill)
}

// MarkPaidController lets a tenant confirm their payment request. The bill
// stays pending_approval until an admin verifies it.
func (bc *BillController) MarkPaidController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "bill id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	bill, err := bc.Service.MarkPaidByTenant(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return utils.RespondError(c, err)
	}

	if bc.Hub != nil {
		bc.Hub.SendToRole(string(models.AdminRole), websocketBillMessage(bill))
	}
	present(bill, bc.Service.Today())
	return utils.RespondOK(c, fiber.StatusOK, "Payment submitted for admin approval", bill)
}
