package controllers

import (
	"fmt"

	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
)

type billExportRow struct {
	ReceiptNumber string
	TenantName    string
	RoomNumber    string
	BillType      string
	BillingMonth  string
	Amount        float64
	DueDate       string
	Status        string
	PaidDate      string
	Reference     string
}

var billExportColumns = []utils.ExcelColumn{
	{Header: "Bill No.", Field: "ReceiptNumber"},
	{Header: "Tenant", Field: "TenantName"},
	{Header: "Room", Field: "RoomNumber"},
	{Header: "Type", Field: "BillType"},
	{Header: "Billing Month", Field: "BillingMonth"},
	{Header: "Amount", Field: "Amount"},
	{Header: "Due Date", Field: "DueDate"},
	{Header: "Status", Field: "Status"},
	{Header: "Paid Date", Field: "PaidDate"},
	{Header: "Payment Reference", Field: "Reference"},
}

// ExportBillsController streams the filtered bill list as an xlsx workbook.
func (bc *BillController) ExportBillsController(c *fiber.Ctx) error {
	filters, err := bc.filtersFrom(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	bills, err := bc.BillRepo.GetBills(filters)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch bills", err))
	}

	rows := make([]billExportRow, 0, len(bills))
	for i := range bills {
		b := &bills[i]
		present(b, filters.Today)
		amount, _ := b.Amount.Float64()
		row := billExportRow{
			ReceiptNumber: b.ReceiptNumber(),
			TenantName:    utils.DerefString(b.TenantName, "N/A"),
			RoomNumber:    utils.DerefString(b.RoomNumber, "N/A"),
			BillType:      string(b.BillType),
			BillingMonth:  b.BillingMonth,
			Amount:        amount,
			DueDate:       b.DueDate.String(),
			Status:        string(b.Status),
			Reference:     utils.DerefString(b.PaymentReference, ""),
		}
		if b.PaidDate != nil {
			row.PaidDate = b.PaidDate.String()
		}
		rows = append(rows, row)
	}

	buf, err := utils.GenerateExcel(rows, "Bills", billExportColumns)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to generate export", err))
	}

	name := "bills.xlsx"
	if filters.BillingMonth != "" {
		name = fmt.Sprintf("bills-%s.xlsx", filters.BillingMonth)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(buf.Bytes())
}
