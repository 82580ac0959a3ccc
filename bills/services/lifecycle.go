package services

import (
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"
)

// Transition is a guarded status change: Updates apply only while the stored
// status is still one of From.
type Transition struct {
	From    []models.BillStatus
	To      models.BillStatus
	Updates map[string]interface{}
}

// PlanScreenshotUpload allows a new or replacement proof while the bill is unpaid.
func PlanScreenshotUpload(b *models.Bill, path string) (*Transition, error) {
	switch b.Status {
	case models.BillPending, models.BillPendingApproval:
	default:
		return nil, utils.ConflictError("Cannot upload payment proof for a bill that is %s", b.Status)
	}
	if path == "" {
		return nil, utils.ValidationError("Payment screenshot is required")
	}
	return &Transition{
		From: []models.BillStatus{models.BillPending, models.BillPendingApproval},
		To:   models.BillPendingApproval,
		Updates: map[string]interface{}{
			"status":             models.BillPendingApproval,
			"payment_screenshot": path,
		},
	}, nil
}

// PlanVerify is the admin approval of a submitted proof.
func PlanVerify(b *models.Bill, today models.DateOnly) (*Transition, error) {
	if b.Status != models.BillPendingApproval {
		return nil, utils.ConflictError("Only bills awaiting approval can be verified (current status: %s)", b.Status)
	}
	if b.PaymentScreenshot == nil || *b.PaymentScreenshot == "" {
		return nil, utils.ConflictError("Bill has no payment proof to verify")
	}
	return &Transition{
		From: []models.BillStatus{models.BillPendingApproval},
		To:   models.BillPaid,
		Updates: map[string]interface{}{
			"status":    models.BillPaid,
			"paid_date": today,
		},
	}, nil
}

// PlanRecordPayment is the admin manual path for payments made outside the app.
func PlanRecordPayment(b *models.Bill, today models.DateOnly, reference *string) (*Transition, error) {
	if b.Status != models.BillPending {
		return nil, utils.ConflictError("Only pending bills can be marked paid manually (current status: %s)", b.Status)
	}
	updates := map[string]interface{}{
		"status":    models.BillPaid,
		"paid_date": today,
	}
	if reference != nil && *reference != "" {
		updates["payment_reference"] = *reference
	}
	return &Transition{
		From:    []models.BillStatus{models.BillPending},
		To:      models.BillPaid,
		Updates: updates,
	}, nil
}

// CheckTenantMarkPaid validates a tenant's "I have paid" request. It never
// finalises the bill; approval stays with the admin.
func CheckTenantMarkPaid(b *models.Bill) error {
	if b.PaymentScreenshot == nil || *b.PaymentScreenshot == "" {
		return utils.ValidationError("Please upload a payment screenshot first")
	}
	if b.Status != models.BillPendingApproval {
		return utils.ConflictError("Bill is %s and cannot be marked paid", b.Status)
	}
	return nil
}

// PlanGatewayPayment settles a bill after the payment gateway confirmed the transaction.
func PlanGatewayPayment(b *models.Bill, today models.DateOnly, reference string) (*Transition, error) {
	switch b.Status {
	case models.BillPending, models.BillPendingApproval:
	default:
		return nil, utils.ConflictError("Bill is already %s", b.Status)
	}
	updates := map[string]interface{}{
		"status":            models.BillPaid,
		"paid_date":         today,
		"payment_reference": reference,
	}
	if b.PaymentScreenshot == nil || *b.PaymentScreenshot == "" {
		updates["payment_screenshot"] = "gateway_auto_verified"
	}
	return &Transition{
		From:    []models.BillStatus{models.BillPending, models.BillPendingApproval},
		To:      models.BillPaid,
		Updates: updates,
	}, nil
}
