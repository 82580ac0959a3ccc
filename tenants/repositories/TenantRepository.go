package repositories

import (
	"errors"
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrRoomOccupied = errors.New("room is already occupied")
	ErrRoomNotFound = errors.New("room not found")
)

type TenantRepository interface {
	CreateTenant(tx *gorm.DB, tenant *models.Tenant) error
	GetTenants() ([]models.Tenant, error)
	GetTenantsByBuilding(buildingID uuid.UUID) ([]models.Tenant, error)
	GetTenantByID(id uuid.UUID) (*models.Tenant, error)
	GetTenantByUserID(userID uuid.UUID) (*models.Tenant, error)
	UpdateTenant(id uuid.UUID, updates map[string]interface{}) (*models.Tenant, error)
	SetPhoto(id uuid.UUID, path string) (*models.Tenant, error)
	AppendDocuments(id uuid.UUID, paths []string) (*models.Tenant, error)
	DeleteTenant(id uuid.UUID) (*models.Tenant, error)
	EnsureRoomAvailable(tx *gorm.DB, roomID uuid.UUID, exclude *uuid.UUID) error
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

// EnsureRoomAvailable fails unless the room exists and nobody but exclude lives there.
func (r *tenantRepository) EnsureRoomAvailable(tx *gorm.DB, roomID uuid.UUID, exclude *uuid.UUID) error {
	var room models.Room
	if err := tx.Select("id").First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to load room: %w", err)
	}

	query := tx.Model(&models.Tenant{}).Where("room_id = ?", roomID)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check room occupancy: %w", err)
	}
	if count > 0 {
		return ErrRoomOccupied
	}
	return nil
}

func (r *tenantRepository) CreateTenant(tx *gorm.DB, tenant *models.Tenant) error {
	if tenant.RoomID != nil {
		if err := r.EnsureRoomAvailable(tx, *tenant.RoomID, nil); err != nil {
			return err
		}
	}
	if tenant.Documents == nil {
		tenant.Documents = datatypes.JSONSlice[string]{}
	}
	if err := tx.Create(tenant).Error; err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *tenantRepository) GetTenants() ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := r.db.Order("created_at DESC").Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, r.decorate(tenants)
}

func (r *tenantRepository) GetTenantsByBuilding(buildingID uuid.UUID) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Model(&models.Tenant{}).
		Select("tenants.*").
		Joins("JOIN rooms ON rooms.id = tenants.room_id").
		Where("rooms.building_id = ?", buildingID).
		Find(&tenants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list building tenants: %w", err)
	}
	return tenants, r.decorate(tenants)
}

func (r *tenantRepository) GetTenantByID(id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	tenants := []models.Tenant{tenant}
	if err := r.decorate(tenants); err != nil {
		return nil, err
	}
	return &tenants[0], nil
}

func (r *tenantRepository) GetTenantByUserID(userID uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.Select("id").Where("user_id = ?", userID).First(&tenant).Error; err != nil {
		return nil, err
	}
	return r.GetTenantByID(tenant.ID)
}

// decorate fills username, room number, rent and building name.
func (r *tenantRepository) decorate(tenants []models.Tenant) error {
	if len(tenants) == 0 {
		return nil
	}
	userIDs := make([]uuid.UUID, 0, len(tenants))
	roomIDs := make([]uuid.UUID, 0, len(tenants))
	for _, t := range tenants {
		userIDs = append(userIDs, t.UserID)
		if t.RoomID != nil {
			roomIDs = append(roomIDs, *t.RoomID)
		}
	}

	var users []models.User
	if err := r.db.Select("id", "username").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return fmt.Errorf("failed to load tenant users: %w", err)
	}
	usernames := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	rooms := make(map[uuid.UUID]models.Room)
	buildings := make(map[uuid.UUID]string)
	if len(roomIDs) > 0 {
		var roomRows []models.Room
		if err := r.db.Select("id", "building_id", "room_number", "rent_amount").Where("id IN ?", roomIDs).Find(&roomRows).Error; err != nil {
			return fmt.Errorf("failed to load tenant rooms: %w", err)
		}
		buildingIDs := make([]uuid.UUID, 0, len(roomRows))
		for _, room := range roomRows {
			rooms[room.ID] = room
			buildingIDs = append(buildingIDs, room.BuildingID)
		}
		var buildingRows []models.Building
		if err := r.db.Select("id", "name").Where("id IN ?", buildingIDs).Find(&buildingRows).Error; err != nil {
			return fmt.Errorf("failed to load tenant buildings: %w", err)
		}
		for _, b := range buildingRows {
			buildings[b.ID] = b.Name
		}
	}

	for i := range tenants {
		t := &tenants[i]
		t.Username = usernames[t.UserID]
		t.RoomNumber, t.BuildingName, t.RentAmount = nil, nil, nil
		if t.RoomID == nil {
			continue
		}
		room, ok := rooms[*t.RoomID]
		if !ok {
			continue
		}
		number := room.RoomNumber
		rent := room.RentAmount
		t.RoomNumber = &number
		t.RentAmount = &rent
		if name, ok := buildings[room.BuildingID]; ok {
			t.BuildingName = &name
		}
	}
	return nil
}

// UpdateTenant applies updates. A "room_id" update is checked for vacancy in
// the same transaction.
func (r *tenantRepository) UpdateTenant(id uuid.UUID, updates map[string]interface{}) (*models.Tenant, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Tenant
		if err := tx.Select("id").First(&existing, "id = ?", id).Error; err != nil {
			return err
		}
		if roomID, ok := updates["room_id"].(*uuid.UUID); ok && roomID != nil {
			if err := r.EnsureRoomAvailable(tx, *roomID, &id); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Tenant{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update tenant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetTenantByID(id)
}

func (r *tenantRepository) SetPhoto(id uuid.UUID, path string) (*models.Tenant, error) {
	result := r.db.Model(&models.Tenant{}).Where("id = ?", id).Update("photo_path", path)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save tenant photo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetTenantByID(id)
}

// AppendDocuments adds to, never replaces, the tenant's documents.
func (r *tenantRepository) AppendDocuments(id uuid.UUID, paths []string) (*models.Tenant, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.Select("id", "documents").First(&tenant, "id = ?", id).Error; err != nil {
			return err
		}
		docs := append(datatypes.JSONSlice[string]{}, tenant.Documents...)
		docs = append(docs, paths...)
		return tx.Model(&models.Tenant{}).Where("id = ?", id).Update("documents", docs).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetTenantByID(id)
}

// DeleteTenant removes the tenant with their bills, complaints and login.
// The deleted row is returned so callers can clean up stored files.
func (r *tenantRepository) DeleteTenant(id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tenant, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&models.Bill{}).Error; err != nil {
			return fmt.Errorf("failed to delete tenant bills: %w", err)
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&models.Complaint{}).Error; err != nil {
			return fmt.Errorf("failed to delete tenant complaints: %w", err)
		}
		if err := tx.Delete(&models.Tenant{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete tenant: %w", err)
		}
		if err := tx.Delete(&models.User{}, "id = ?", tenant.UserID).Error; err != nil {
			return fmt.Errorf("failed to delete tenant user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}
