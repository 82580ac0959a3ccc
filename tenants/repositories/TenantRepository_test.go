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

func TestEnsureRoomAvailable(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTenantRepository(db)

	b := testutil.CreateBuilding(t, db, "Sunrise")
	room := testutil.CreateRoom(t, db, b.ID, "101", 10000)

	require.NoError(t, repo.EnsureRoomAvailable(db, room.ID, nil))

	asha, _ := testutil.CreateTenant(t, db, "Asha", &room.ID)
	assert.ErrorIs(t, repo.EnsureRoomAvailable(db, room.ID, nil), ErrRoomOccupied)
	assert.NoError(t, repo.EnsureRoomAvailable(db, room.ID, &asha.ID))
	assert.ErrorIs(t, repo.EnsureRoomAvailable(db, uuid.New(), nil), ErrRoomNotFound)
}

func TestGetTenantDecoratesRoom(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTenantRepository(db)

	b := testutil.CreateBuilding(t, db, "Sunrise")
	room := testutil.CreateRoom(t, db, b.ID, "101", 10000)
	asha, user := testutil.CreateTenant(t, db, "Asha", &room.ID)

	got, err := repo.GetTenantByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, asha.ID, got.ID)
	require.NotNil(t, got.RoomNumber)
	assert.Equal(t, "101", *got.RoomNumber)
	require.NotNil(t, got.BuildingName)
	assert.Equal(t, "Sunrise", *got.BuildingName)
	require.NotNil(t, got.RentAmount)
	assert.True(t, got.RentAmount.Equal(decimal.NewFromInt(10000)))
}

func TestDeleteTenantCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTenantRepository(db)

	b := testutil.CreateBuilding(t, db, "Sunrise")
	room := testutil.CreateRoom(t, db, b.ID, "101", 10000)
	asha, user := testutil.CreateTenant(t, db, "Asha", &room.ID)
	testutil.CreateBill(t, db, asha.ID, models.BillPending, 500)
	require.NoError(t, db.Create(&models.Complaint{TenantID: asha.ID, Subject: "Tap", Description: "Leaks"}).Error)

	deleted, err := repo.DeleteTenant(asha.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, deleted.UserID)

	var bills, complaints, users int64
	db.Model(&models.Bill{}).Where("tenant_id = ?", asha.ID).Count(&bills)
	db.Model(&models.Complaint{}).Where("tenant_id = ?", asha.ID).Count(&complaints)
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&users)
	assert.Zero(t, bills)
	assert.Zero(t, complaints)
	assert.Zero(t, users)

	_, err = repo.DeleteTenant(asha.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, repo.EnsureRoomAvailable(db, room.ID, nil))
}
