package services

import (
	"context"
	"testing"

	"github.com/muhammedanshif/rentEase/bills/repositories"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/internal/testutil"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustDate(t *testing.T, s string) models.DateOnly {
	t.Helper()
	d, err := models.ParseDateOnly(s)
	require.NoError(t, err)
	return d
}

var admin = AdminAs(uuid.New())

func tenantActor(tenant *models.Tenant) Actor {
	return TenantAs(tenant.UserID, tenant.ID)
}

func newService(t *testing.T, db *gorm.DB) *BillService {
	svc := NewBillService(repositories.NewBillRepository(db))
	svc.Today = func() models.DateOnly { return mustDate(t, "2024-06-10") }
	return svc
}

func TestRentGenerationIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	gen := NewRentGenerator(db, repositories.NewBillRepository(db), 6)

	b := testutil.CreateBuilding(t, db, "Sunrise")
	r101 := testutil.CreateRoom(t, db, b.ID, "101", 10000)
	r102 := testutil.CreateRoom(t, db, b.ID, "102", 8000)
	testutil.CreateRoom(t, db, b.ID, "103", 7000)
	testutil.CreateTenant(t, db, "Asha", &r101.ID)
	testutil.CreateTenant(t, db, "Ravi", &r102.ID)
	testutil.CreateTenant(t, db, "Meera", nil)

	first, err := gen.Generate(context.Background(), "2024-06")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 0, first.Skipped)
	for _, bill := range first.Bills {
		assert.Equal(t, "2024-06-06", bill.DueDate.String())
		assert.Equal(t, models.BillPending, bill.Status)
	}

	second, err := gen.Generate(context.Background(), "2024-06")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)

	var count int64
	require.NoError(t, db.Model(&models.Bill{}).Where("billing_month = ?", "2024-06").Count(&count).Error)
	assert.Equal(t, int64(2), count)

	_, err = gen.Generate(context.Background(), "June")
	assert.Equal(t, utils.KindValidation, utils.AsAppError(err).Kind)
}

func TestRentDueDayClampsToMonth(t *testing.T) {
	db := testutil.NewTestDB(t)
	gen := NewRentGenerator(db, repositories.NewBillRepository(db), 40)
	assert.Equal(t, DefaultRentDueDay, gen.DueDay)
}

func TestTenantCannotTouchOthersBill(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(t, db)

	asha, _ := testutil.CreateTenant(t, db, "Asha", nil)
	ravi, _ := testutil.CreateTenant(t, db, "Ravi", nil)
	bill := testutil.CreateBill(t, db, asha.ID, models.BillPending, 500)

	_, err := svc.UploadScreenshot(context.Background(), bill.ID, tenantActor(ravi), "payment_screenshots/x.png")
	assert.Equal(t, utils.KindForbidden, utils.AsAppError(err).Kind)

	_, err = svc.Verify(context.Background(), bill.ID, tenantActor(asha))
	assert.Equal(t, utils.KindForbidden, utils.AsAppError(err).Kind)

	_, err = svc.Load(uuid.New(), admin)
	assert.Equal(t, utils.KindNotFound, utils.AsAppError(err).Kind)
}

func TestVerifyFlow(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(t, db)
	asha, _ := testutil.CreateTenant(t, db, "Asha", nil)
	bill := testutil.CreateBill(t, db, asha.ID, models.BillPending, 500)
	tenant := tenantActor(asha)

	updated, err := svc.UploadScreenshot(context.Background(), bill.ID, tenant, "payment_screenshots/x.png")
	require.NoError(t, err)
	assert.Equal(t, models.BillPendingApproval, updated.Status)

	same, err := svc.MarkPaidByTenant(context.Background(), bill.ID, tenant)
	require.NoError(t, err)
	assert.Equal(t, models.BillPendingApproval, same.Status)

	paid, err := svc.Verify(context.Background(), bill.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, "2024-06-10", paid.PaidDate.String())

	_, err = svc.Verify(context.Background(), bill.ID, admin)
	assert.Equal(t, utils.KindConflict, utils.AsAppError(err).Kind)
}

func TestStaleTransitionConflicts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewBillRepository(db)
	asha, _ := testutil.CreateTenant(t, db, "Asha", nil)
	bill := testutil.CreateBill(t, db, asha.ID, models.BillPendingApproval, 500)

	tr, err := PlanVerify(bill, mustDate(t, "2024-06-10"))
	require.NoError(t, err)

	// Someone records a cash payment first.
	require.NoError(t, db.Model(&models.Bill{}).Where("id = ?", bill.ID).Update("status", models.BillPaid).Error)

	ok, err := repo.ApplyTransition(context.Background(), bill.ID, tr.From, tr.Updates)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReceiptIsStable(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(t, db)

	b := testutil.CreateBuilding(t, db, "Sunrise")
	room := testutil.CreateRoom(t, db, b.ID, "101", 10000)
	asha, _ := testutil.CreateTenant(t, db, "Asha", &room.ID)
	bill := testutil.CreateBill(t, db, asha.ID, models.BillPending, 1250)

	_, err := svc.Receipt(context.Background(), bill.ID, admin)
	assert.Equal(t, utils.KindConflict, utils.AsAppError(err).Kind)

	ref := "CASH-7"
	_, err = svc.RecordPayment(context.Background(), bill.ID, admin, &ref)
	require.NoError(t, err)

	first, err := svc.Receipt(context.Background(), bill.ID, tenantActor(asha))
	require.NoError(t, err)
	second, err := svc.Receipt(context.Background(), bill.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, bill.ReceiptNumber(), first.ReceiptNumber)
	assert.Equal(t, "1250.00", first.Amount)
	assert.Equal(t, "Electricity", first.BillTypeLabel)
	assert.Equal(t, "Sunrise", first.BuildingName)
	assert.Equal(t, "CASH-7", first.PaymentReference)
	assert.True(t, decimal.RequireFromString(first.Amount).Equal(decimal.NewFromInt(1250)))

	html, err := RenderReceiptHTML(first)
	require.NoError(t, err)
	assert.Contains(t, html, first.ReceiptNumber)
	assert.Contains(t, html, "Asha")
}

func TestActorsWithoutRoleAreForbidden(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(t, db)
	asha, _ := testutil.CreateTenant(t, db, "Asha", nil)
	bill := testutil.CreateBill(t, db, asha.ID, models.BillPendingApproval, 500)

	_, err := svc.Load(bill.ID, Actor{})
	assert.Equal(t, utils.KindForbidden, kindOf(err))
	_, err = svc.Verify(context.Background(), bill.ID, Actor{UserID: asha.UserID})
	assert.Equal(t, utils.KindForbidden, kindOf(err))

	// A tenant token whose profile was not resolved gets no rights at all.
	assert.Equal(t, Actor{UserID: asha.UserID}, ActorFor(string(models.TenantRole), asha.UserID, nil))
	assert.True(t, ActorFor(string(models.AdminRole), uuid.New(), nil).IsAdmin())

	_, err = svc.Verify(context.Background(), bill.ID, System())
	assert.Equal(t, utils.KindForbidden, kindOf(err))
	loaded, err := svc.Load(bill.ID, System())
	require.NoError(t, err)
	assert.Equal(t, bill.ID, loaded.ID)
}

func TestReceiptSurvivesRoomChanges(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(t, db)

	sunrise := testutil.CreateBuilding(t, db, "Sunrise")
	r101 := testutil.CreateRoom(t, db, sunrise.ID, "101", 10000)
	harbour := testutil.CreateBuilding(t, db, "Harbour")
	r202 := testutil.CreateRoom(t, db, harbour.ID, "202", 9000)
	asha, _ := testutil.CreateTenant(t, db, "Asha", &r101.ID)
	bill := testutil.CreateBill(t, db, asha.ID, models.BillPendingApproval, 10000)

	_, err := svc.Verify(context.Background(), bill.ID, admin)
	require.NoError(t, err)
	before, err := svc.Receipt(context.Background(), bill.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "101", before.RoomNumber)
	assert.Equal(t, "Sunrise", before.BuildingName)

	require.NoError(t, db.Model(&models.Tenant{}).Where("id = ?", asha.ID).Update("room_id", r202.ID).Error)
	require.NoError(t, db.Delete(&models.Room{}, "id = ?", r101.ID).Error)
	require.NoError(t, db.Delete(&models.Building{}, "id = ?", sunrise.ID).Error)

	after, err := svc.Receipt(context.Background(), bill.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestConfirmGatewayPaymentChecksOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(t, db)
	asha, _ := testutil.CreateTenant(t, db, "Asha", nil)
	rent := testutil.CreateBill(t, db, asha.ID, models.BillPending, 10000)
	water := testutil.CreateBill(t, db, asha.ID, models.BillPending, 50)
	ctx := context.Background()

	payment := GatewayPayment{OrderID: "ORDER-A", TransactionID: "TXN-A", Amount: decimal.NewFromInt(50)}

	// No order attached yet.
	_, err := svc.ConfirmGatewayPayment(ctx, water.ID, admin, payment)
	assert.Equal(t, utils.KindValidation, kindOf(err))

	require.NoError(t, svc.AttachOrder(ctx, water.ID, tenantActor(asha), "ORDER-A"))
	paid, err := svc.ConfirmGatewayPayment(ctx, water.ID, System(), payment)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, paid.Status)

	found, err := svc.FindByOrder(ctx, "ORDER-A")
	require.NoError(t, err)
	assert.Equal(t, water.ID, found.ID)
	_, err = svc.FindByOrder(ctx, "ORDER-X")
	assert.Equal(t, utils.KindNotFound, kindOf(err))

	// The same order cannot settle a different bill.
	_, err = svc.ConfirmGatewayPayment(ctx, rent.ID, admin, payment)
	assert.Equal(t, utils.KindValidation, kindOf(err))

	require.NoError(t, svc.AttachOrder(ctx, rent.ID, admin, "ORDER-B"))
	_, err = svc.ConfirmGatewayPayment(ctx, rent.ID, admin, GatewayPayment{
		OrderID: "ORDER-B", TransactionID: "TXN-B", Amount: decimal.NewFromInt(50),
	})
	assert.Equal(t, utils.KindValidation, kindOf(err))

	_, err = svc.ConfirmGatewayPayment(ctx, rent.ID, admin, GatewayPayment{
		OrderID: "ORDER-B", TransactionID: "TXN-A", Amount: decimal.NewFromInt(10000),
	})
	assert.Equal(t, utils.KindConflict, kindOf(err))

	reloaded, err := svc.Load(rent.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.BillPending, reloaded.Status)

	err = svc.AttachOrder(ctx, water.ID, admin, "ORDER-C")
	assert.Equal(t, utils.KindConflict, kindOf(err))
}

func TestAmountSettles(t *testing.T) {
	assert.True(t, AmountSettles(decimal.RequireFromString("10000.00"), decimal.NewFromInt(10000)))
	assert.True(t, AmountSettles(decimal.RequireFromString("1250.40"), decimal.NewFromInt(1250)))
	assert.False(t, AmountSettles(decimal.NewFromInt(10000), decimal.NewFromInt(50)))
}
