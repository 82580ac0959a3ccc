package repositories

import (
	"testing"

	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRoomStatusFollowsOccupancy(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoomRepository(db)

	b := testutil.CreateBuilding(t, db, "Sunrise")
	r101 := testutil.CreateRoom(t, db, b.ID, "101", 10000)
	testutil.CreateRoom(t, db, b.ID, "102", 9000)
	testutil.CreateTenant(t, db, "Asha", &r101.ID)

	rooms, err := repo.GetRooms(&b.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].RoomNumber)
	assert.Equal(t, models.RoomOccupied, rooms[0].Status)
	require.NotNil(t, rooms[0].TenantName)
	assert.Equal(t, "Asha", *rooms[0].TenantName)
	assert.Equal(t, models.RoomVacant, rooms[1].Status)
	assert.Nil(t, rooms[1].TenantName)
}

func TestDeleteRoomRefusesOccupied(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoomRepository(db)

	b := testutil.CreateBuilding(t, db, "Sunrise")
	occupied := testutil.CreateRoom(t, db, b.ID, "101", 10000)
	vacant := testutil.CreateRoom(t, db, b.ID, "102", 9000)
	testutil.CreateTenant(t, db, "Asha", &occupied.ID)

	assert.ErrorIs(t, repo.DeleteRoom(occupied.ID), ErrRoomOccupied)
	require.NoError(t, repo.DeleteRoom(vacant.ID))
	assert.ErrorIs(t, repo.DeleteRoom(vacant.ID), gorm.ErrRecordNotFound)
}

func TestRoomNumberTaken(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRoomRepository(db)

	b := testutil.CreateBuilding(t, db, "Sunrise")
	other := testutil.CreateBuilding(t, db, "Moonrise")
	room := testutil.CreateRoom(t, db, b.ID, "101", 10000)

	taken, err := repo.RoomNumberTaken(b.ID, "101", nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.RoomNumberTaken(b.ID, "101", &room.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.RoomNumberTaken(other.ID, "101", nil)
	require.NoError(t, err)
	assert.False(t, taken)
}
