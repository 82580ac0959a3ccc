package repositories

import (
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BuildingRepository interface {
	CreateBuilding(building *models.Building) (*models.Building, error)
	GetBuildings() ([]models.Building, error)
	GetBuildingByID(id uuid.UUID) (*models.Building, error)
	UpdateBuilding(id uuid.UUID, updates map[string]interface{}) (*models.Building, error)
	DeleteBuilding(id uuid.UUID) (int64, error)
}

type buildingRepository struct {
	db *gorm.DB
}

func NewBuildingRepository(db *gorm.DB) BuildingRepository {
	return &buildingRepository{db: db}
}

const buildingWithCounts = `buildings.*,
	(SELECT COUNT(*) FROM rooms WHERE rooms.building_id = buildings.id) AS room_count,
	(SELECT COUNT(*) FROM rooms JOIN tenants ON tenants.room_id = rooms.id WHERE rooms.building_id = buildings.id) AS occupied_count`

func (r *buildingRepository) CreateBuilding(building *models.Building) (*models.Building, error) {
	if err := r.db.Create(building).Error; err != nil {
		return nil, fmt.Errorf("failed to create building: %w", err)
	}
	return building, nil
}

func (r *buildingRepository) GetBuildings() ([]models.Building, error) {
	var buildings []models.Building
	err := r.db.Model(&models.Building{}).
		Select(buildingWithCounts).
		Order("buildings.created_at DESC").
		Find(&buildings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return buildings, nil
}

func (r *buildingRepository) GetBuildingByID(id uuid.UUID) (*models.Building, error) {
	var building models.Building
	err := r.db.Model(&models.Building{}).
		Select(buildingWithCounts).
		Where("buildings.id = ?", id).
		First(&building).Error
	if err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *buildingRepository) UpdateBuilding(id uuid.UUID, updates map[string]interface{}) (*models.Building, error) {
	result := r.db.Model(&models.Building{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update building: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetBuildingByID(id)
}

// DeleteBuilding removes the building and its rooms. Tenants living there keep
// their profile but lose the room assignment. It returns how many tenants were
// unassigned.
func (r *buildingRepository) DeleteBuilding(id uuid.UUID) (int64, error) {
	var unassigned int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var building models.Building
		if err := tx.Select("id").First(&building, "id = ?", id).Error; err != nil {
			return err
		}

		roomIDs := tx.Model(&models.Room{}).Select("id").Where("building_id = ?", id)
		result := tx.Model(&models.Tenant{}).Where("room_id IN (?)", roomIDs).Update("room_id", nil)
		if result.Error != nil {
			return fmt.Errorf("failed to unassign tenants: %w", result.Error)
		}
		unassigned = result.RowsAffected

		if err := tx.Where("building_id = ?", id).Delete(&models.Room{}).Error; err != nil {
			return fmt.Errorf("failed to delete rooms: %w", err)
		}
		if err := tx.Delete(&models.Building{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete building: %w", err)
		}
		return nil
	})
	return unassigned, err
}
