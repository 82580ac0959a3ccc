package repositories

import (
	"testing"

	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuildingsCountsRooms(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBuildingRepository(db)

	sunrise := testutil.CreateBuilding(t, db, "Sunrise")
	r101 := testutil.CreateRoom(t, db, sunrise.ID, "101", 10000)
	testutil.CreateRoom(t, db, sunrise.ID, "102", 9000)
	testutil.CreateTenant(t, db, "Asha", &r101.ID)
	testutil.CreateBuilding(t, db, "Empty Plaza")

	buildings, err := repo.GetBuildings()
	require.NoError(t, err)
	require.Len(t, buildings, 2)

	byName := map[string]models.Building{}
	for _, b := range buildings {
		byName[b.Name] = b
	}
	assert.Equal(t, int64(2), byName["Sunrise"].RoomCount)
	assert.Equal(t, int64(1), byName["Sunrise"].OccupiedCount)
	assert.Equal(t, int64(0), byName["Empty Plaza"].RoomCount)
}

func TestDeleteBuildingUnassignsTenants(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBuildingRepository(db)

	sunrise := testutil.CreateBuilding(t, db, "Sunrise")
	room := testutil.CreateRoom(t, db, sunrise.ID, "101", 10000)
	tenant, _ := testutil.CreateTenant(t, db, "Asha", &room.ID)

	unassigned, err := repo.DeleteBuilding(sunrise.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unassigned)

	var rooms int64
	require.NoError(t, db.Model(&models.Room{}).Where("building_id = ?", sunrise.ID).Count(&rooms).Error)
	assert.Zero(t, rooms)

	var kept models.Tenant
	require.NoError(t, db.First(&kept, "id = ?", tenant.ID).Error)
	assert.Nil(t, kept.RoomID)

	_, err = repo.DeleteBuilding(sunrise.ID)
	assert.Error(t, err)
}
