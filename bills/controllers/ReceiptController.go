package controllers

import (
	"fmt"

	"github.com/muhammedanshif/rentEase/bills/services"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
)

func (bc *BillController) GetReceiptController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "bill id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	receipt, err := bc.Service.Receipt(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.RespondOK(c, fiber.StatusOK, "Receipt retrieved successfully", receipt)
}

func (bc *BillController) GetReceiptPDFController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "bill id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	receipt, err := bc.Service.Receipt(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return utils.RespondError(c, err)
	}

	html, err := services.RenderReceiptHTML(receipt)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to render receipt", err))
	}

	render := bc.RenderPDF
	if render == nil {
		render = utils.RenderPDF
	}
	pdf, err := render(c.UserContext(), html)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to generate receipt PDF", err))
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", receipt.ReceiptNumber+".pdf"))
	return c.Send(pdf)
}
