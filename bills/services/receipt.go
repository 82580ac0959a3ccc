package services

import (
	"bytes"
	"html/template"

	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Receipt is a read-only projection of a paid bill.
type Receipt struct {
	ReceiptNumber    string `json:"receipt_number"`
	BillID           string `json:"bill_id"`
	TenantName       string `json:"tenant_name"`
	RoomNumber       string `json:"room_number"`
	BuildingName     string `json:"building_name"`
	BillType         string `json:"bill_type"`
	BillTypeLabel    string `json:"bill_type_label"`
	Amount           string `json:"amount"`
	BillingMonth     string `json:"billing_month"`
	DueDate          string `json:"due_date"`
	PaidDate         string `json:"paid_date"`
	Status           string `json:"status"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

// BillTypeLabel turns "electricity" into "Electricity". Casers are stateful,
// so each call gets its own.
func BillTypeLabel(t models.BillType) string {
	return cases.Title(language.English).String(string(t))
}

// BuildReceipt reads only the bill row, including the payee captured when it
// was paid, so the receipt never changes afterwards.
func BuildReceipt(bill *models.Bill) (*Receipt, error) {
	if bill.Status != models.BillPaid {
		return nil, utils.ConflictError("Receipt is only available for paid bills")
	}

	receipt := &Receipt{
		ReceiptNumber: bill.ReceiptNumber(),
		BillID:        bill.ID.String(),
		TenantName:    utils.DerefString(bill.PaidTenantName, "N/A"),
		RoomNumber:    utils.DerefString(bill.PaidRoomNumber, "N/A"),
		BuildingName:  utils.DerefString(bill.PaidBuildingName, "N/A"),
		BillType:      string(bill.BillType),
		BillTypeLabel: BillTypeLabel(bill.BillType),
		Amount:        bill.Amount.StringFixed(2),
		BillingMonth:  bill.BillingMonth,
		DueDate:       bill.DueDate.String(),
		Status:        string(bill.Status),
	}
	if bill.PaidDate != nil {
		receipt.PaidDate = bill.PaidDate.String()
	}
	if bill.PaymentReference != nil {
		receipt.PaymentReference = *bill.PaymentReference
	}
	return receipt, nil
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt {{.ReceiptNumber}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 32px; }
h1 { font-size: 22px; margin-bottom: 4px; }
.muted { color: #666; font-size: 12px; }
table { width: 100%; border-collapse: collapse; margin-top: 24px; }
td { padding: 8px; border-bottom: 1px solid #ddd; }
td.label { color: #555; width: 40%; }
.total { font-size: 18px; font-weight: bold; }
</style>
</head>
<body>
<h1>RentEase Payment Receipt</h1>
<div class="muted">{{.ReceiptNumber}}</div>
<table>
<tr><td class="label">Tenant</td><td>{{.TenantName}}</td></tr>
<tr><td class="label">Building</td><td>{{.BuildingName}}</td></tr>
<tr><td class="label">Room</td><td>{{.RoomNumber}}</td></tr>
<tr><td class="label">Bill Type</td><td>{{.BillTypeLabel}}</td></tr>
<tr><td class="label">Billing Month</td><td>{{.BillingMonth}}</td></tr>
<tr><td class="label">Due Date</td><td>{{.DueDate}}</td></tr>
<tr><td class="label">Paid On</td><td>{{.PaidDate}}</td></tr>
{{if .PaymentReference}}<tr><td class="label">Reference</td><td>{{.PaymentReference}}</td></tr>{{end}}
<tr><td class="label total">Amount Paid</td><td class="total">&#8377; {{.Amount}}</td></tr>
</table>
</body>
</html>`))

func RenderReceiptHTML(r *Receipt) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
