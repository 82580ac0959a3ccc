package controllers

import (
	"errors"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateBillRequest struct {
	TenantID     string          `json:"tenant_id" validate:"required,uuid"`
	BillType     string          `json:"bill_type" validate:"required,oneof=rent electricity water maintenance other"`
	Amount       decimal.Decimal `json:"amount"`
	BillingMonth string          `json:"billing_month" validate:"required"`
	DueDate      models.DateOnly `json:"due_date"`
	Notes        *string         `json:"notes"`
}

func (bc *BillController) CreateBillController(c *fiber.Ctx) error {
	var req CreateBillRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	if !req.Amount.IsPositive() {
		return utils.RespondError(c, utils.ValidationError("amount must be greater than zero"))
	}
	if req.DueDate.IsZero() {
		return utils.RespondError(c, utils.ValidationError("due_date is required"))
	}
	if _, err := utils.ParseBillingMonth(req.BillingMonth); err != nil {
		return utils.RespondError(c, utils.ValidationError("billing_month must be formatted as YYYY-MM"))
	}
	tenantID, err := utils.ParseID(req.TenantID, "tenant_id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	var tenant models.Tenant
	if err := bc.DB.Select("id").First(&tenant, "id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, utils.NotFoundError("Tenant"))
		}
		return utils.RespondError(c, utils.InternalError("Failed to load tenant", err))
	}

	bill := models.Bill{
		TenantID:     tenantID,
		BillType:     models.BillType(req.BillType),
		Amount:       req.Amount,
		BillingMonth: req.BillingMonth,
		DueDate:      req.DueDate,
		Notes:        utils.OptionalString(req.Notes),
		Status:       models.BillPending,
	}

	if bill.BillType == models.RentBill {
		created, err := bc.BillRepo.CreateRentBillIfAbsent(bc.DB, &bill)
		if err != nil {
			return utils.RespondError(c, utils.InternalError("Failed to create bill", err))
		}
		if !created {
			return utils.RespondError(c, utils.ConflictError("A rent bill for %s already exists for this tenant", bill.BillingMonth))
		}
	} else if err := bc.BillRepo.CreateBill(bc.DB, &bill); err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create bill", err))
	}

	config.Logger.Info("Bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("bill_type", string(bill.BillType)),
	)
	bc.invalidateDashboard(c)
	bc.publishStatus(&bill)

	present(&bill, bc.Service.Today())
	return utils.RespondOK(c, fiber.StatusCreated, "Bill created successfully", bill)
}

type GenerateRentRequest struct {
	BillingMonth string `json:"billing_month"`
}

func (bc *BillController) GenerateRentController(c *fiber.Ctx) error {
	var req GenerateRentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.RespondError(c, utils.ValidationError("Invalid request body"))
		}
	}

	result, err := bc.Generator.Generate(c.UserContext(), req.BillingMonth)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if result.Created > 0 {
		bc.invalidateDashboard(c)
	}

	message := "Rent bills generated successfully"
	if result.Created == 0 {
		message = "No new rent bills were needed"
	}
	return utils.RespondOK(c, fiber.StatusOK, message, result)
}

func (bc *BillController) DeleteBillController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "bill id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := bc.BillRepo.DeleteBill(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, utils.NotFoundError("Bill"))
		}
		return utils.RespondError(c, utils.InternalError("Failed to delete bill", err))
	}

	config.Logger.Info("Bill deleted", zap.String("bill_id", id.String()))
	bc.invalidateDashboard(c)
	return utils.RespondOK(c, fiber.StatusOK, "Bill deleted successfully", nil)
}
