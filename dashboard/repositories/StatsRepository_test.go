package repositories

import (
	"testing"

	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func rentBill(t *testing.T, db *gorm.DB, tenantID uuid.UUID, status models.BillStatus, amount int64) {
	t.Helper()
	due, err := models.ParseDateOnly("2024-06-06")
	require.NoError(t, err)
	bill := &models.Bill{
		TenantID:     tenantID,
		BillType:     models.RentBill,
		Amount:       decimal.NewFromInt(amount),
		BillingMonth: "2024-06",
		DueDate:      due,
		Status:       status,
	}
	require.NoError(t, db.Create(bill).Error)
}

func TestGetStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewStatsRepository(db)

	b := testutil.CreateBuilding(t, db, "Sunrise")
	r101 := testutil.CreateRoom(t, db, b.ID, "101", 10000)
	r102 := testutil.CreateRoom(t, db, b.ID, "102", 8000)
	testutil.CreateRoom(t, db, b.ID, "103", 7000)
	asha, _ := testutil.CreateTenant(t, db, "Asha", &r101.ID)
	ravi, _ := testutil.CreateTenant(t, db, "Ravi", &r102.ID)
	testutil.CreateTenant(t, db, "Meera", nil)

	rentBill(t, db, asha.ID, models.BillPaid, 10000)
	rentBill(t, db, ravi.ID, models.BillPending, 8000)
	testutil.CreateBill(t, db, asha.ID, models.BillPendingApproval, 450)
	require.NoError(t, db.Create(&models.Complaint{TenantID: ravi.ID, Subject: "Fan", Description: "Broken", Status: models.ComplaintOpen}).Error)
	require.NoError(t, db.Create(&models.Complaint{TenantID: ravi.ID, Subject: "Door", Description: "Squeaks", Status: models.ComplaintClosed}).Error)

	before, err := models.ParseDateOnly("2024-06-01")
	require.NoError(t, err)
	stats, err := repo.GetStats(before, "2024-06")
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalBuildings)
	assert.Equal(t, int64(3), stats.TotalRooms)
	assert.Equal(t, int64(2), stats.OccupiedRooms)
	assert.Equal(t, int64(1), stats.VacantRooms)
	assert.Equal(t, int64(3), stats.TotalTenants)
	assert.Equal(t, int64(1), stats.PendingBills)
	assert.Equal(t, int64(0), stats.OverdueBills)
	assert.Equal(t, int64(1), stats.PendingApproval)
	assert.Equal(t, int64(1), stats.OpenComplaints)
	assert.True(t, stats.MonthlyRevenue.Equal(decimal.NewFromInt(18000)), stats.MonthlyRevenue.String())
	assert.True(t, stats.CollectedRevenue.Equal(decimal.NewFromInt(10000)), stats.CollectedRevenue.String())

	after, err := models.ParseDateOnly("2024-06-20")
	require.NoError(t, err)
	stats, err = repo.GetStats(after, "2024-06")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.PendingBills)
	assert.Equal(t, int64(1), stats.OverdueBills)

	empty, err := repo.GetStats(after, "2030-01")
	require.NoError(t, err)
	assert.True(t, empty.MonthlyRevenue.IsZero())
}
