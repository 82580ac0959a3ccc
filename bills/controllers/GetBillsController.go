package controllers

import (
	"github.com/muhammedanshif/rentEase/bills/repositories"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
)

func (bc *BillController) filtersFrom(c *fiber.Ctx) (repositories.BillFilters, error) {
	filters := repositories.BillFilters{
		Status:       models.BillStatus(c.Query("status")),
		BillingMonth: c.Query("billing_month"),
		BillType:     models.BillType(c.Query("bill_type")),
		Today:        bc.Service.Today(),
	}

	// Tenants only ever see their own bills, whatever they ask for.
	if tenantID := middleware.CurrentTenantID(c); tenantID != nil {
		filters.TenantID = tenantID
	} else if raw := c.Query("tenant_id"); raw != "" {
		id, err := utils.ParseID(raw, "tenant_id")
		if err != nil {
			return filters, err
		}
		filters.TenantID = &id
	}

	switch filters.Status {
	case "", models.BillPending, models.BillPendingApproval, models.BillPaid, models.BillOverdue:
	default:
		return filters, utils.ValidationError("Unknown bill status %q", filters.Status)
	}
	if filters.BillingMonth != "" {
		if _, err := utils.ParseBillingMonth(filters.BillingMonth); err != nil {
			return filters, utils.ValidationError("billing_month must be formatted as YYYY-MM")
		}
	}
	return filters, nil
}

func (bc *BillController) GetBillsController(c *fiber.Ctx) error {
	filters, err := bc.filtersFrom(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	bills, err := bc.BillRepo.GetBills(filters)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch bills", err))
	}
	for i := range bills {
		present(&bills[i], filters.Today)
	}

	return utils.RespondOK(c, fiber.StatusOK, "Bills retrieved successfully", bills)
}
