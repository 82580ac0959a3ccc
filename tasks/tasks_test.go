package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	bill_repositories "github.com/muhammedanshif/rentEase/bills/repositories"
	bill_services "github.com/muhammedanshif/rentEase/bills/services"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/internal/testutil"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	failures int
	tasks    []*asynq.Task
}

func (f *fakeQueue) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("redis down")
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type sentMail struct {
	to, subject string
}

func TestEnqueueMonthlyRentRetries(t *testing.T) {
	retryDelay = time.Millisecond
	testutil.FixedClock(t, &utils.Now, time.Date(2024, 7, 1, 0, 5, 0, 0, time.UTC))

	q := &fakeQueue{failures: 2}
	require.True(t, EnqueueMonthlyRent(q))
	require.Len(t, q.tasks, 1)

	var p GenerateRentPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &p))
	assert.Equal(t, "2024-07", p.BillingMonth)
}

func TestEnqueueMonthlyRentGivesUp(t *testing.T) {
	retryDelay = time.Millisecond
	q := &fakeQueue{failures: maxRetries}
	assert.False(t, EnqueueMonthlyRent(q))
	assert.Empty(t, q.tasks)
}

func TestEnqueueHelpersTolerateNilQueue(t *testing.T) {
	EnqueuePaymentReceived(nil, uuid.New())
	EnqueueComplaintUpdate(nil, uuid.New())
}

func TestHandlePaymentReceivedEmailsTenantAndAdmins(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, "admin", models.AdminRole)
	tenant, _ := testutil.CreateTenant(t, db, "Asha", nil)
	bill := testutil.CreateBill(t, db, tenant.ID, models.BillPaid, 750)

	var sent []sentMail
	h := &TaskHandlers{DB: db, Mail: func(to, subject, plain, html string) error {
		sent = append(sent, sentMail{to: to, subject: subject})
		assert.Contains(t, plain, "750.00")
		assert.Contains(t, plain, bill.ReceiptNumber())
		return nil
	}}

	task, err := NewPaymentReceivedTask(bill.ID)
	require.NoError(t, err)
	require.NoError(t, h.HandlePaymentReceived(context.Background(), task))

	require.Len(t, sent, 2)
	assert.Equal(t, tenant.Email, sent[0].to)
	assert.Equal(t, "admin@example.com", sent[1].to)
	assert.Equal(t, "Payment received: Electricity 2024-06", sent[0].subject)
}

func TestHandlePaymentReceivedIgnoresDeletedBill(t *testing.T) {
	db := testutil.NewTestDB(t)
	h := &TaskHandlers{DB: db, Mail: func(string, string, string, string) error {
		t.Fatal("no mail expected")
		return nil
	}}
	task, err := NewPaymentReceivedTask(uuid.New())
	require.NoError(t, err)
	assert.NoError(t, h.HandlePaymentReceived(context.Background(), task))
}

func TestHandleComplaintUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	tenant, _ := testutil.CreateTenant(t, db, "Asha", nil)
	reply := "Plumber visits tomorrow"
	complaint := models.Complaint{
		TenantID:    tenant.ID,
		Subject:     "Leaking tap",
		Description: "Kitchen tap leaks",
		Status:      models.ComplaintInProgress,
		AdminReply:  &reply,
	}
	require.NoError(t, db.Create(&complaint).Error)

	var body string
	h := &TaskHandlers{DB: db, Mail: func(to, subject, plain, html string) error {
		body = plain
		assert.Equal(t, tenant.Email, to)
		return nil
	}}
	task, err := NewComplaintUpdateTask(complaint.ID)
	require.NoError(t, err)
	require.NoError(t, h.HandleComplaintUpdate(context.Background(), task))
	assert.Contains(t, body, "in_progress")
	assert.Contains(t, body, reply)
}

func TestHandleGenerateRent(t *testing.T) {
	db := testutil.NewTestDB(t)
	building := testutil.CreateBuilding(t, db, "Sunrise")
	room := testutil.CreateRoom(t, db, building.ID, "101", 10000)
	testutil.CreateTenant(t, db, "Asha", &room.ID)

	h := &TaskHandlers{
		DB:        db,
		Generator: bill_services.NewRentGenerator(db, bill_repositories.NewBillRepository(db), 6),
	}
	task, err := NewGenerateRentTask("2024-06")
	require.NoError(t, err)
	require.NoError(t, h.HandleGenerateRent(context.Background(), task))
	require.NoError(t, h.HandleGenerateRent(context.Background(), task))

	var count int64
	require.NoError(t, db.Model(&models.Bill{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHandlersRejectBadPayload(t *testing.T) {
	h := &TaskHandlers{}
	err := h.HandleGenerateRent(context.Background(), asynq.NewTask(TypeGenerateRent, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
