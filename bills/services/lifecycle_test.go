package services

import (
	"testing"

	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billWith(status models.BillStatus, screenshot string) *models.Bill {
	b := &models.Bill{Status: status}
	if screenshot != "" {
		b.PaymentScreenshot = &screenshot
	}
	return b
}

func kindOf(err error) utils.ErrorKind {
	return utils.AsAppError(err).Kind
}

var today = models.DateOnly{}

func TestPlanScreenshotUpload(t *testing.T) {
	for _, status := range []models.BillStatus{models.BillPending, models.BillPendingApproval} {
		tr, err := PlanScreenshotUpload(billWith(status, ""), "payment_screenshots/a.png")
		require.NoError(t, err, status)
		assert.Equal(t, models.BillPendingApproval, tr.To)
		assert.Equal(t, "payment_screenshots/a.png", tr.Updates["payment_screenshot"])
	}

	_, err := PlanScreenshotUpload(billWith(models.BillPaid, "x.png"), "y.png")
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, kindOf(err))
}

func TestPlanVerify(t *testing.T) {
	tr, err := PlanVerify(billWith(models.BillPendingApproval, "x.png"), today)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, tr.To)
	assert.Equal(t, []models.BillStatus{models.BillPendingApproval}, tr.From)
	assert.Contains(t, tr.Updates, "paid_date")

	for _, status := range []models.BillStatus{models.BillPending, models.BillPaid} {
		_, err := PlanVerify(billWith(status, "x.png"), today)
		require.Error(t, err, status)
		assert.Equal(t, utils.KindConflict, kindOf(err))
	}
}

func TestPlanRecordPayment(t *testing.T) {
	ref := "CASH-12"
	tr, err := PlanRecordPayment(billWith(models.BillPending, ""), today, &ref)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, tr.To)
	assert.Equal(t, "CASH-12", tr.Updates["payment_reference"])

	_, err = PlanRecordPayment(billWith(models.BillPendingApproval, "x.png"), today, nil)
	assert.Equal(t, utils.KindConflict, kindOf(err))
	_, err = PlanRecordPayment(billWith(models.BillPaid, ""), today, nil)
	assert.Equal(t, utils.KindConflict, kindOf(err))
}

func TestCheckTenantMarkPaid(t *testing.T) {
	err := CheckTenantMarkPaid(billWith(models.BillPending, ""))
	assert.Equal(t, utils.KindValidation, kindOf(err))

	assert.NoError(t, CheckTenantMarkPaid(billWith(models.BillPendingApproval, "x.png")))

	err = CheckTenantMarkPaid(billWith(models.BillPaid, "x.png"))
	assert.Equal(t, utils.KindConflict, kindOf(err))
}

func TestPlanGatewayPayment(t *testing.T) {
	tr, err := PlanGatewayPayment(billWith(models.BillPending, ""), today, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, "gateway_auto_verified", tr.Updates["payment_screenshot"])
	assert.Equal(t, "txn-1", tr.Updates["payment_reference"])

	tr, err = PlanGatewayPayment(billWith(models.BillPendingApproval, "x.png"), today, "txn-2")
	require.NoError(t, err)
	assert.NotContains(t, tr.Updates, "payment_screenshot")

	_, err = PlanGatewayPayment(billWith(models.BillPaid, "x.png"), today, "txn-3")
	assert.Equal(t, utils.KindConflict, kindOf(err))
}
