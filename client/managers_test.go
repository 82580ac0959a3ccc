package client

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDropsStaleList(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-release
			writeEnvelope(w, http.StatusOK, "ok", []map[string]string{{"name": "Old"}})
			return
		}
		writeEnvelope(w, http.StatusOK, "ok", []map[string]string{{"name": "New"}})
	})
	m := NewBuildingsManager(api, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, m.List(context.Background()))
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.List(context.Background()))
	close(release)
	wg.Wait()

	require.Len(t, m.Items(), 1)
	assert.Equal(t, "New", m.Items()[0].Name)
}

func TestManagerChecksRequiredFieldsLocally(t *testing.T) {
	var hits int32
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeEnvelope(w, http.StatusOK, "ok", nil)
	})
	notifier, _ := newTestNotifier(t)
	m := NewBuildingsManager(api, notifier)

	err := m.Create(context.Background(), Fields{"name": "Sunrise", "address": "   "})
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "address", valErr.Field)
	assert.Equal(t, "Please fill in address", valErr.Message)

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	require.Len(t, notifier.Items(), 1)
	assert.Equal(t, NotifyError, notifier.Items()[0].Kind)
}

func TestManagerCreateNotifiesAndReloads(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method)
		mu.Unlock()
		if r.Method == http.MethodPost {
			writeEnvelope(w, http.StatusCreated, "Announcement created successfully", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "ok", []map[string]string{{"title": "Water cut"}})
	})
	notifier, _ := newTestNotifier(t)
	m := NewAnnouncementsManager(api, notifier)

	require.NoError(t, m.Create(context.Background(), Fields{"title": "Water cut", "message": "Tuesday 10-12"}))
	mu.Lock()
	assert.Equal(t, []string{http.MethodPost, http.MethodGet}, seen)
	mu.Unlock()
	require.Len(t, m.Items(), 1)
	require.Len(t, notifier.Items(), 1)
	assert.Equal(t, "Announcement created successfully", notifier.Items()[0].Message)
	assert.Equal(t, NotifySuccess, notifier.Items()[0].Kind)
}

func TestManagerDeleteNeedsConfirmation(t *testing.T) {
	var deletes int32
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			atomic.AddInt32(&deletes, 1)
		}
		writeEnvelope(w, http.StatusOK, "ok", []interface{}{})
	})
	m := NewEmergencyContactsManager(api, nil)

	var prompt string
	err := m.Delete(context.Background(), "c1", ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Contains(t, prompt, "emergency contact")
	assert.ErrorIs(t, m.Delete(context.Background(), "c1", nil), ErrCancelled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&deletes))

	require.NoError(t, m.Delete(context.Background(), "c1", ConfirmFunc(func(string) bool { return true })))
	assert.Equal(t, int32(1), atomic.LoadInt32(&deletes))
}

func TestRoomsManagerBlocksOccupiedDelete(t *testing.T) {
	occupied, vacant := uuid.New(), uuid.New()
	var deletes int32
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			atomic.AddInt32(&deletes, 1)
			writeEnvelope(w, http.StatusOK, "Room deleted successfully", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "ok", []map[string]interface{}{
			{"id": occupied, "room_number": "101", "status": "occupied", "rent_amount": "10000"},
			{"id": vacant, "room_number": "102", "status": "vacant", "rent_amount": "9000"},
		})
	})
	m := NewRoomsManager(api, nil)
	require.NoError(t, m.List(context.Background()))
	yes := ConfirmFunc(func(string) bool { return true })

	err := m.Delete(context.Background(), occupied.String(), yes)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&deletes))

	require.NoError(t, m.Delete(context.Background(), vacant.String(), yes))
	assert.Equal(t, int32(1), atomic.LoadInt32(&deletes))
}

func TestBillsManagerResyncsOnConflict(t *testing.T) {
	billID := uuid.New()
	var lists int32
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			writeEnvelope(w, http.StatusConflict, "Only bills awaiting approval can be verified", nil)
		default:
			atomic.AddInt32(&lists, 1)
			writeEnvelope(w, http.StatusOK, "ok", []map[string]interface{}{
				{"id": billID, "status": "paid", "amount": "10000", "billing_month": "2024-06", "due_date": "2024-06-06"},
			})
		}
	})
	m := NewBillsManager(api, nil)

	err := m.Verify(context.Background(), billID.String())
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&lists))
	require.Len(t, m.Items(), 1)
	assert.Equal(t, models.BillPaid, m.Items()[0].Status)
}

func TestBillsManagerMarkPaidNeedsScreenshot(t *testing.T) {
	billID := uuid.New()
	var puts int32
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			atomic.AddInt32(&puts, 1)
		}
		writeEnvelope(w, http.StatusOK, "ok", []map[string]interface{}{
			{"id": billID, "status": "pending", "amount": "500", "billing_month": "2024-06", "due_date": "2024-06-06"},
		})
	})
	m := NewBillsManager(api, nil)
	require.NoError(t, m.List(context.Background()))

	err := m.MarkPaid(context.Background(), billID.String())
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "screenshot", valErr.Field)
	assert.Equal(t, int32(0), atomic.LoadInt32(&puts))
}

func TestBillsManagerRefusesUpdate(t *testing.T) {
	var hits int32
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeEnvelope(w, http.StatusOK, "ok", nil)
	})
	notifier, _ := newTestNotifier(t)
	m := NewBillsManager(api, notifier)

	err := m.Update(context.Background(), uuid.NewString(), Fields{"amount": 900})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	require.Len(t, notifier.Items(), 1)
	assert.Equal(t, NotifyError, notifier.Items()[0].Kind)
}

func TestBillsManagerFiltersGoIntoQuery(t *testing.T) {
	var mu sync.Mutex
	var query string
	lastQuery := func() string {
		mu.Lock()
		defer mu.Unlock()
		return query
	}
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		query = r.URL.RawQuery
		mu.Unlock()
		writeEnvelope(w, http.StatusOK, "ok", []interface{}{})
	})
	m := NewBillsManager(api, nil)
	m.SetStatusFilter(models.BillPendingApproval)
	m.SetMonthFilter("2024-06")
	require.NoError(t, m.List(context.Background()))
	assert.Equal(t, "billing_month=2024-06&status=pending_approval", lastQuery())

	m.SetStatusFilter("")
	require.NoError(t, m.List(context.Background()))
	assert.Equal(t, "billing_month=2024-06", lastQuery())
}

func TestPaymentSettingsQRCodeURL(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "ok", map[string]interface{}{
			"upi_id":      "rentease@upi",
			"upi_qr_code": "upi_qr/code.png",
		})
	})
	m := NewPaymentSettingsManager(api, nil)
	assert.Nil(t, m.Settings())
	assert.Empty(t, m.QRCodeURL())

	require.NoError(t, m.Load(context.Background()))
	require.NotNil(t, m.Settings().UpiID)
	assert.Equal(t, "rentease@upi", *m.Settings().UpiID)
	assert.Contains(t, m.QRCodeURL(), "/uploads/upi_qr/code.png")
}
