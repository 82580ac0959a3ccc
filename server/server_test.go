package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	bleveServices "github.com/muhammedanshif/rentEase/bleve/services"
	"github.com/muhammedanshif/rentEase/client"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/internal/testutil"
	payment_services "github.com/muhammedanshif/rentEase/payments/services"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	srv *Server
	url string
	db  *gorm.DB
	dir string
}

func startServer(t *testing.T, opts ...func(*Deps)) *harness {
	t.Helper()
	db := testutil.NewTestDB(t)
	rdb, _ := testutil.NewTestRedis(t)
	dir := t.TempDir()

	deps := Deps{
		DB:            db,
		RedisClient:   rdb,
		TokenMaker:    testutil.NewMaker(t),
		TokenDuration: time.Hour,
		Storage:       utils.NewLocalFileStorage(filepath.Join(dir, "uploads")),
		Indexer:       bleveServices.NewIndexingService(zap.NewNop(), ""),
		RentDueDay:    6,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	srv := NewApp(deps)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.App.Listener(ln)
	t.Cleanup(func() { _ = srv.App.Shutdown() })

	testutil.CreateUser(t, db, "admin", models.AdminRole)
	return &harness{srv: srv, url: "http://" + ln.Addr().String(), db: db, dir: dir}
}

func (h *harness) login(t *testing.T, name, username, password string) (*client.APIClient, client.Identity) {
	t.Helper()
	api := client.NewAPIClient(h.url, client.NewSession(filepath.Join(h.dir, name+".json")))
	identity, err := client.Login(context.Background(), api, username, password)
	require.NoError(t, err)
	return api, identity
}

type fixture struct {
	building models.Building
	room     models.Room
	tenant   models.Tenant
}

// seed creates the Sunrise / 101 / Asha household through the API.
func (h *harness) seed(t *testing.T, admin *client.APIClient) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture

	_, err := admin.Post(ctx, "/buildings", client.Fields{
		"name":          "Sunrise",
		"address":       "12 Lake Road",
		"building_type": "residential",
	}, &f.building)
	require.NoError(t, err)

	_, err = admin.Post(ctx, "/rooms", client.Fields{
		"building_id": f.building.ID.String(),
		"room_number": "101",
		"room_type":   "1BHK",
		"rent_amount": 10000,
	}, &f.room)
	require.NoError(t, err)

	_, err = admin.Post(ctx, "/tenants", client.Fields{
		"full_name": "Asha",
		"email":     "asha@example.com",
		"username":  "asha",
		"password":  "asha-pass",
		"room_id":   f.room.ID.String(),
	}, &f.tenant)
	require.NoError(t, err)
	return f
}

func TestRentCycleEndToEnd(t *testing.T) {
	h := startServer(t)
	ctx := context.Background()

	admin, adminIdentity := h.login(t, "admin", "admin", "secret123")
	assert.Equal(t, client.AdminDashboardView, client.Route(adminIdentity))
	f := h.seed(t, admin)

	adminBills := client.NewBillsManager(admin, nil)
	result, err := adminBills.GenerateRent(ctx, "2024-06")
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)
	bill := result.Bills[0]
	assert.True(t, bill.Amount.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, "2024-06-06", bill.DueDate.String())
	assert.Equal(t, f.tenant.ID, bill.TenantID)

	again, err := adminBills.GenerateRent(ctx, "2024-06")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 1, again.Skipped)

	tenantAPI, tenantIdentity := h.login(t, "asha", "asha", "asha-pass")
	require.Equal(t, client.TenantDashboardView, client.Route(tenantIdentity))
	assert.Equal(t, f.tenant.ID.String(), tenantIdentity.(client.TenantSession).TenantID)

	tenantBills := client.NewBillsManager(tenantAPI, nil)
	require.NoError(t, tenantBills.List(ctx))
	require.Len(t, tenantBills.Items(), 1)
	assert.Equal(t, models.BillOverdue, tenantBills.Items()[0].Status)

	id := bill.ID.String()
	err = tenantBills.MarkPaid(ctx, id)
	assert.Equal(t, client.KindValidation, client.KindOf(err))

	require.NoError(t, tenantBills.UploadScreenshot(ctx, id, client.File{
		Name:   "proof.png",
		Reader: bytes.NewReader([]byte("not really a png")),
	}))
	require.Len(t, tenantBills.Items(), 1)
	assert.Equal(t, models.BillPendingApproval, tenantBills.Items()[0].Status)
	require.NoError(t, tenantBills.MarkPaid(ctx, id))

	err = tenantBills.Verify(ctx, id)
	assert.Equal(t, client.KindForbidden, client.KindOf(err))

	require.NoError(t, adminBills.Verify(ctx, id))
	err = adminBills.Verify(ctx, id)
	assert.Equal(t, client.KindConflict, client.KindOf(err))

	first, err := tenantBills.Receipt(ctx, id)
	require.NoError(t, err)
	second, err := adminBills.Receipt(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "Asha", first.TenantName)
	assert.Equal(t, "101", first.RoomNumber)
	assert.Equal(t, "Sunrise", first.BuildingName)
	assert.Equal(t, "10000.00", first.Amount)
	assert.Equal(t, "paid", first.Status)

	// Moving Asha to another room later leaves the June receipt alone.
	var r202 models.Room
	_, err = admin.Post(ctx, "/rooms", client.Fields{
		"building_id": f.building.ID.String(),
		"room_number": "202",
		"room_type":   "2BHK",
		"rent_amount": 14000,
	}, &r202)
	require.NoError(t, err)
	_, err = admin.Put(ctx, "/tenants/"+f.tenant.ID.String(), client.Fields{
		"full_name": "Asha",
		"email":     "asha@example.com",
		"room_id":   r202.ID.String(),
	}, nil)
	require.NoError(t, err)

	later, err := adminBills.Receipt(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, later)
}

func TestTenantCannotSeeAnotherTenantsBill(t *testing.T) {
	h := startServer(t)
	ctx := context.Background()
	admin, _ := h.login(t, "admin", "admin", "secret123")
	h.seed(t, admin)

	result, err := client.NewBillsManager(admin, nil).GenerateRent(ctx, "2024-07")
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	var other models.Tenant
	_, err = admin.Post(ctx, "/tenants", client.Fields{
		"full_name": "Ravi",
		"email":     "ravi@example.com",
		"username":  "ravi",
		"password":  "ravi-pass",
	}, &other)
	require.NoError(t, err)

	ravi, _ := h.login(t, "ravi", "ravi", "ravi-pass")
	bills := client.NewBillsManager(ravi, nil)
	require.NoError(t, bills.List(ctx))
	assert.Empty(t, bills.Items())

	_, err = bills.Receipt(ctx, result.Bills[0].ID.String())
	assert.Equal(t, client.KindForbidden, client.KindOf(err))
}

func TestOnlinePaymentWithMockGateway(t *testing.T) {
	h := startServer(t)
	ctx := context.Background()
	admin, _ := h.login(t, "admin", "admin", "secret123")
	h.seed(t, admin)

	result, err := client.NewBillsManager(admin, nil).GenerateRent(ctx, "2024-08")
	require.NoError(t, err)
	id := result.Bills[0].ID.String()

	tenantAPI, _ := h.login(t, "asha", "asha", "asha-pass")
	bills := client.NewBillsManager(tenantAPI, nil)

	order, err := bills.PayOnline(ctx, id)
	require.NoError(t, err)
	assert.True(t, order.Mock)
	assert.Contains(t, order.OrderID, "order_mock_")

	err = bills.ConfirmOnline(ctx, id, order.OrderID, "real-looking-txn")
	assert.Equal(t, client.KindValidation, client.KindOf(err))

	require.NoError(t, bills.ConfirmOnline(ctx, id, order.OrderID, "mock_txn_1"))
	require.Len(t, bills.Items(), 1)
	paid := bills.Items()[0]
	assert.Equal(t, models.BillPaid, paid.Status)
	require.NotNil(t, paid.PaymentReference)
	assert.Equal(t, "mock_txn_1", *paid.PaymentReference)

	_, err = bills.PayOnline(ctx, id)
	assert.Equal(t, client.KindConflict, client.KindOf(err))
}

// scriptedGateway remembers the orders it opened and settles any of them with
// whatever transaction id the caller names. Callbacks signed "valid" pass.
type scriptedGateway struct {
	mu     sync.Mutex
	next   int
	orders map[string]decimal.Decimal
}

func newScriptedGateway() *scriptedGateway {
	return &scriptedGateway{orders: make(map[string]decimal.Decimal)}
}

func (g *scriptedGateway) IsMock() bool { return false }

func (g *scriptedGateway) CreateOrder(_ context.Context, bill *models.Bill, _ payment_services.Customer) (*payment_services.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	id := fmt.Sprintf("ORDER-%d", g.next)
	g.orders[id] = bill.Amount
	return &payment_services.Order{OrderID: id, Amount: bill.Amount, Currency: payment_services.Currency}, nil
}

func (g *scriptedGateway) VerifyPayment(_ context.Context, orderID, transactionID string) (*payment_services.Verification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	amount, ok := g.orders[orderID]
	return &payment_services.Verification{
		Paid:          ok,
		OrderID:       orderID,
		TransactionID: transactionID,
		GrossAmount:   amount,
		Status:        "settlement",
	}, nil
}

func (g *scriptedGateway) VerifyNotification(n payment_services.Notification) bool {
	return n.SignatureKey == "valid"
}

func withGateway(g payment_services.Gateway) func(*Deps) {
	return func(d *Deps) { d.Gateway = g }
}

func (h *harness) createBill(t *testing.T, admin *client.APIClient, tenantID uuid.UUID, billType string, amount int64) models.Bill {
	t.Helper()
	var bill models.Bill
	_, err := admin.Post(context.Background(), "/bills", client.Fields{
		"tenant_id":     tenantID.String(),
		"bill_type":     billType,
		"amount":        amount,
		"billing_month": "2024-09",
		"due_date":      "2024-09-06",
	}, &bill)
	require.NoError(t, err)
	return bill
}

func TestGatewayOrderOnlySettlesItsOwnBill(t *testing.T) {
	h := startServer(t, withGateway(newScriptedGateway()))
	ctx := context.Background()
	admin, _ := h.login(t, "admin", "admin", "secret123")
	f := h.seed(t, admin)

	water := h.createBill(t, admin, f.tenant.ID, "water", 50)
	rent := h.createBill(t, admin, f.tenant.ID, "rent", 10000)

	tenantAPI, _ := h.login(t, "asha", "asha", "asha-pass")
	bills := client.NewBillsManager(tenantAPI, nil)

	waterOrder, err := bills.PayOnline(ctx, water.ID.String())
	require.NoError(t, err)
	require.NoError(t, bills.ConfirmOnline(ctx, water.ID.String(), waterOrder.OrderID, "TXN-A"))

	// The water order cannot pay the rent, with or without a rent order open.
	err = bills.ConfirmOnline(ctx, rent.ID.String(), waterOrder.OrderID, "TXN-A")
	assert.Equal(t, client.KindValidation, client.KindOf(err))

	rentOrder, err := bills.PayOnline(ctx, rent.ID.String())
	require.NoError(t, err)
	err = bills.ConfirmOnline(ctx, rent.ID.String(), waterOrder.OrderID, "TXN-B")
	assert.Equal(t, client.KindValidation, client.KindOf(err))

	// Nor can the water transaction be replayed against the rent order.
	err = bills.ConfirmOnline(ctx, rent.ID.String(), rentOrder.OrderID, "TXN-A")
	assert.Equal(t, client.KindConflict, client.KindOf(err))

	var stored models.Bill
	require.NoError(t, h.db.First(&stored, "id = ?", rent.ID).Error)
	assert.Equal(t, models.BillPending, stored.Status)
	assert.Nil(t, stored.PaymentReference)

	require.NoError(t, bills.ConfirmOnline(ctx, rent.ID.String(), rentOrder.OrderID, "TXN-B"))
	require.NoError(t, h.db.First(&stored, "id = ?", rent.ID).Error)
	assert.Equal(t, models.BillPaid, stored.Status)
	require.NotNil(t, stored.PaymentReference)
	assert.Equal(t, "TXN-B", *stored.PaymentReference)
}

func TestGatewayRejectsShortPayment(t *testing.T) {
	gw := newScriptedGateway()
	h := startServer(t, withGateway(gw))
	ctx := context.Background()
	admin, _ := h.login(t, "admin", "admin", "secret123")
	f := h.seed(t, admin)
	rent := h.createBill(t, admin, f.tenant.ID, "rent", 10000)

	tenantAPI, _ := h.login(t, "asha", "asha", "asha-pass")
	bills := client.NewBillsManager(tenantAPI, nil)
	order, err := bills.PayOnline(ctx, rent.ID.String())
	require.NoError(t, err)

	gw.mu.Lock()
	gw.orders[order.OrderID] = decimal.NewFromInt(50)
	gw.mu.Unlock()

	err = bills.ConfirmOnline(ctx, rent.ID.String(), order.OrderID, "TXN-SHORT")
	assert.Equal(t, client.KindValidation, client.KindOf(err))
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (h *harness) notify(t *testing.T, n payment_services.Notification) (int, envelope) {
	t.Helper()
	body, err := json.Marshal(n)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", APIPrefix+"/payment/notification", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.srv.App.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestGatewayNotifications(t *testing.T) {
	h := startServer(t, withGateway(newScriptedGateway()))
	ctx := context.Background()
	admin, _ := h.login(t, "admin", "admin", "secret123")
	f := h.seed(t, admin)
	rent := h.createBill(t, admin, f.tenant.ID, "rent", 10000)

	tenantAPI, _ := h.login(t, "asha", "asha", "asha-pass")
	order, err := client.NewBillsManager(tenantAPI, nil).PayOnline(ctx, rent.ID.String())
	require.NoError(t, err)

	settlement := payment_services.Notification{
		OrderID:           order.OrderID,
		StatusCode:        "200",
		GrossAmount:       "10000.00",
		TransactionStatus: "settlement",
		TransactionID:     "TXN-HOOK-1",
		SignatureKey:      "valid",
	}

	forged := settlement
	forged.SignatureKey = "forged"
	status, _ := h.notify(t, forged)
	assert.Equal(t, 401, status)

	unknown := settlement
	unknown.OrderID = "ORDER-404"
	status, env := h.notify(t, unknown)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Notification ignored", env.Message)
	assert.Contains(t, string(env.Data), "unknown order")

	pending := settlement
	pending.TransactionStatus = "pending"
	status, env = h.notify(t, pending)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Notification ignored", env.Message)

	status, env = h.notify(t, settlement)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Notification processed", env.Message)

	var stored models.Bill
	require.NoError(t, h.db.First(&stored, "id = ?", rent.ID).Error)
	assert.Equal(t, models.BillPaid, stored.Status)
	require.NotNil(t, stored.PaymentReference)
	assert.Equal(t, "TXN-HOOK-1", *stored.PaymentReference)

	status, env = h.notify(t, settlement)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Notification ignored", env.Message)
	assert.Contains(t, string(env.Data), "already settled")
}

func TestComplaintRoundTrip(t *testing.T) {
	h := startServer(t)
	ctx := context.Background()
	admin, _ := h.login(t, "admin", "admin", "secret123")
	h.seed(t, admin)
	tenantAPI, _ := h.login(t, "asha", "asha", "asha-pass")

	mine := client.NewComplaintsManager(tenantAPI, nil)
	require.NoError(t, mine.Submit(ctx, client.Fields{
		"subject":     "Leaking tap",
		"description": "Kitchen tap drips all night",
		"category":    "plumbing",
	}))
	require.Len(t, mine.Items(), 1)
	complaint := mine.Items()[0]
	assert.Equal(t, models.ComplaintOpen, complaint.Status)

	err := mine.Reply(ctx, complaint.ID.String(), "fixed", models.ComplaintResolved)
	assert.Equal(t, client.KindForbidden, client.KindOf(err))

	all := client.NewComplaintsManager(admin, nil)
	require.NoError(t, all.Reply(ctx, complaint.ID.String(), "Plumber visits tomorrow", ""))
	require.Len(t, all.Items(), 1)
	assert.Equal(t, models.ComplaintInProgress, all.Items()[0].Status)
	require.NotNil(t, all.Items()[0].AdminReply)

	require.NoError(t, mine.Close(ctx, complaint.ID.String()))
	err = all.Close(ctx, complaint.ID.String())
	assert.Equal(t, client.KindConflict, client.KindOf(err))
}

func TestDashboardStatsAreCached(t *testing.T) {
	h := startServer(t)
	admin, _ := h.login(t, "admin", "admin", "secret123")
	h.seed(t, admin)

	stats, err := client.FetchStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalBuildings)
	assert.Equal(t, int64(1), stats.TotalRooms)
	assert.Equal(t, int64(1), stats.OccupiedRooms)
	assert.Equal(t, int64(0), stats.VacantRooms)
	assert.Equal(t, int64(1), stats.TotalTenants)

	req := httptest.NewRequest("GET", APIPrefix+"/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+admin.Session().Token())
	resp, err := h.srv.App.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
}

func TestAdminRoutesRejectTenants(t *testing.T) {
	h := startServer(t)
	admin, _ := h.login(t, "admin", "admin", "secret123")
	h.seed(t, admin)
	tenantAPI, _ := h.login(t, "asha", "asha", "asha-pass")
	ctx := context.Background()

	_, err := client.FetchStats(ctx, tenantAPI)
	assert.Equal(t, client.KindForbidden, client.KindOf(err))

	tenants := client.NewTenantsManager(tenantAPI, nil)
	err = tenants.List(ctx)
	assert.Equal(t, client.KindForbidden, client.KindOf(err))

	profile, err := tenants.MyProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.FullName)
	require.NotNil(t, profile.RoomNumber)
	assert.Equal(t, "101", *profile.RoomNumber)
}

func TestDeletingOccupiedRoomNamesTenant(t *testing.T) {
	h := startServer(t)
	admin, _ := h.login(t, "admin", "admin", "secret123")
	f := h.seed(t, admin)

	_, err := admin.Delete(context.Background(), "/rooms/"+f.room.ID.String(), nil)
	assert.Equal(t, client.KindConflict, client.KindOf(err))
	assert.Equal(t, "Room 101 is occupied by Asha. Remove the tenant first.", client.UserMessage(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	h := startServer(t)
	admin, _ := h.login(t, "admin", "admin", "secret123")
	token := admin.Session().Token()

	require.NoError(t, client.Logout(context.Background(), admin))
	assert.Nil(t, admin.Session().Current())

	req := httptest.NewRequest("GET", APIPrefix+"/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.srv.App.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestNoticeBoardContactsAndPaymentSettings(t *testing.T) {
	h := startServer(t)
	ctx := context.Background()
	admin, _ := h.login(t, "admin", "admin", "secret123")
	h.seed(t, admin)
	tenantAPI, _ := h.login(t, "asha", "asha", "asha-pass")

	notices := client.NewAnnouncementsManager(admin, nil)
	require.NoError(t, notices.Create(ctx, client.Fields{"title": "Water cut", "message": "Tuesday 10 to 12", "priority": "high"}))
	require.NoError(t, notices.Create(ctx, client.Fields{"title": "Lift service", "message": "Friday"}))
	require.Len(t, notices.Items(), 2)
	assert.Equal(t, "Lift service", notices.Items()[0].Title)
	assert.Equal(t, models.NormalPriority, notices.Items()[0].Priority)

	tenantNotices := client.NewAnnouncementsManager(tenantAPI, nil)
	require.NoError(t, tenantNotices.List(ctx))
	assert.Len(t, tenantNotices.Items(), 2)
	err := tenantNotices.Create(ctx, client.Fields{"title": "Party", "message": "Tonight"})
	assert.Equal(t, client.KindForbidden, client.KindOf(err))

	contacts := client.NewEmergencyContactsManager(admin, nil)
	require.NoError(t, contacts.Create(ctx, client.Fields{"service_type": "Plumber", "phone_number": "9000000001"}))
	require.Len(t, contacts.Items(), 1)
	assert.True(t, contacts.Items()[0].Available24x7)

	settings := client.NewPaymentSettingsManager(tenantAPI, nil)
	require.NoError(t, settings.Load(ctx))
	assert.Nil(t, settings.Settings().UpiID)
	assert.Empty(t, settings.QRCodeURL())

	adminSettings := client.NewPaymentSettingsManager(admin, nil)
	require.NoError(t, adminSettings.SetUpiID(ctx, "rentease@upi"))
	require.NoError(t, adminSettings.SetQRCode(ctx, client.File{Name: "qr.png", Reader: bytes.NewReader([]byte("png"))}))

	require.NoError(t, settings.Load(ctx))
	require.NotNil(t, settings.Settings().UpiID)
	assert.Equal(t, "rentease@upi", *settings.Settings().UpiID)
	assert.Contains(t, settings.QRCodeURL(), "/uploads/upi_qr/")

	err = settings.SetUpiID(ctx, "tenant@upi")
	assert.Equal(t, client.KindForbidden, client.KindOf(err))
}
