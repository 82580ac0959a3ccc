package repositories

import (
	"errors"
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrRoomOccupied is returned when deleting a room that still has a tenant.
var ErrRoomOccupied = errors.New("room is occupied")

type RoomRepository interface {
	CreateRoom(room *models.Room) (*models.Room, error)
	GetRooms(buildingID *uuid.UUID) ([]models.Room, error)
	GetRoomByID(id uuid.UUID) (*models.Room, error)
	UpdateRoom(id uuid.UUID, updates map[string]interface{}) (*models.Room, error)
	AppendPhotos(id uuid.UUID, paths []string) (*models.Room, error)
	DeleteRoom(id uuid.UUID) error
	RoomNumberTaken(buildingID uuid.UUID, roomNumber string, exclude *uuid.UUID) (bool, error)
	OccupantOf(roomID uuid.UUID) (*models.Tenant, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) CreateRoom(room *models.Room) (*models.Room, error) {
	if room.Photos == nil {
		room.Photos = datatypes.JSONSlice[string]{}
	}
	if err := r.db.Create(room).Error; err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return r.GetRoomByID(room.ID)
}

func (r *roomRepository) GetRooms(buildingID *uuid.UUID) ([]models.Room, error) {
	query := r.db.Model(&models.Room{})
	if buildingID != nil {
		query = query.Where("building_id = ?", *buildingID)
	}

	var rooms []models.Room
	if err := query.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	if err := r.decorate(rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) GetRoomByID(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := r.db.First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	rooms := []models.Room{room}
	if err := r.decorate(rooms); err != nil {
		return nil, err
	}
	return &rooms[0], nil
}

// decorate fills the derived status, tenant and building names. Status is
// entirely a function of whether a tenant references the room.
func (r *roomRepository) decorate(rooms []models.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	roomIDs := make([]uuid.UUID, len(rooms))
	buildingIDs := make([]uuid.UUID, 0, len(rooms))
	for i, room := range rooms {
		roomIDs[i] = room.ID
		buildingIDs = append(buildingIDs, room.BuildingID)
	}

	var tenants []models.Tenant
	if err := r.db.Select("id", "room_id", "full_name").Where("room_id IN ?", roomIDs).Find(&tenants).Error; err != nil {
		return fmt.Errorf("failed to load room occupants: %w", err)
	}
	occupant := make(map[uuid.UUID]string, len(tenants))
	for _, t := range tenants {
		if t.RoomID != nil {
			occupant[*t.RoomID] = t.FullName
		}
	}

	var buildings []models.Building
	if err := r.db.Select("id", "name").Where("id IN ?", buildingIDs).Find(&buildings).Error; err != nil {
		return fmt.Errorf("failed to load room buildings: %w", err)
	}
	names := make(map[uuid.UUID]string, len(buildings))
	for _, b := range buildings {
		names[b.ID] = b.Name
	}

	for i := range rooms {
		rooms[i].BuildingName = names[rooms[i].BuildingID]
		if name, ok := occupant[rooms[i].ID]; ok {
			n := name
			rooms[i].Status = models.RoomOccupied
			rooms[i].TenantName = &n
		} else {
			rooms[i].Status = models.RoomVacant
			rooms[i].TenantName = nil
		}
	}
	return nil
}

func (r *roomRepository) UpdateRoom(id uuid.UUID, updates map[string]interface{}) (*models.Room, error) {
	result := r.db.Model(&models.Room{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetRoomByID(id)
}

func (r *roomRepository) AppendPhotos(id uuid.UUID, paths []string) (*models.Room, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, "id = ?", id).Error; err != nil {
			return err
		}
		photos := append(datatypes.JSONSlice[string]{}, room.Photos...)
		photos = append(photos, paths...)
		return tx.Model(&room).Update("photos", photos).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetRoomByID(id)
}

// DeleteRoom refuses while a tenant still lives in the room.
func (r *roomRepository) DeleteRoom(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var occupied int64
		if err := tx.Model(&models.Tenant{}).Where("room_id = ?", id).Count(&occupied).Error; err != nil {
			return fmt.Errorf("failed to check room occupancy: %w", err)
		}
		if occupied > 0 {
			return ErrRoomOccupied
		}
		result := tx.Delete(&models.Room{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete room: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *roomRepository) RoomNumberTaken(buildingID uuid.UUID, roomNumber string, exclude *uuid.UUID) (bool, error) {
	query := r.db.Model(&models.Room{}).Where("building_id = ? AND room_number = ?", buildingID, roomNumber)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check room number: %w", err)
	}
	return count > 0, nil
}

// OccupantOf returns nil when the room is vacant.
func (r *roomRepository) OccupantOf(roomID uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.Where("room_id = ?", roomID).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load room occupant: %w", err)
	}
	return &tenant, nil
}
