package controllers

import (
	"errors"

	indexing_repository "github.com/muhammedanshif/rentEase/bleve/repositories"
	"github.com/muhammedanshif/rentEase/buildings/repositories"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	room_repositories "github.com/muhammedanshif/rentEase/rooms/repositories"
	tenant_repositories "github.com/muhammedanshif/rentEase/tenants/repositories"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BuildingController struct {
	BuildingRepo repositories.BuildingRepository
	RoomRepo     room_repositories.RoomRepository
	TenantRepo   tenant_repositories.TenantRepository
	DB           *gorm.DB
	RedisClient  *redis.Client
	BleveRepo    indexing_repository.BleveRepositoryInterface
}

type BuildingRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Address      string `json:"address" validate:"required"`
	BuildingType string `json:"building_type" validate:"omitempty,oneof=residential commercial mixed"`
	TotalFloors  *int   `json:"total_floors" validate:"omitempty,min=0"`
}

func (bc *BuildingController) CreateBuildingController(c *fiber.Ctx) error {
	var req BuildingRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	building := models.Building{
		Name:         req.Name,
		Address:      req.Address,
		BuildingType: models.BuildingType(req.BuildingType),
		TotalFloors:  req.TotalFloors,
	}
	if building.BuildingType == "" {
		building.BuildingType = models.ResidentialBuilding
	}

	created, err := bc.BuildingRepo.CreateBuilding(&building)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create building", err))
	}

	config.Logger.Info("Building created", zap.String("building_id", created.ID.String()))
	utils.InvalidateCacheQuietly(c.UserContext(), bc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusCreated, "Building created successfully", created)
}

func (bc *BuildingController) GetBuildingsController(c *fiber.Ctx) error {
	buildings, err := bc.BuildingRepo.GetBuildings()
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch buildings", err))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Buildings retrieved successfully", buildings)
}

func (bc *BuildingController) GetBuildingController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "building id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	building, err := bc.BuildingRepo.GetBuildingByID(id)
	if err != nil {
		return utils.RespondError(c, notFoundOr(err, "Failed to fetch building"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Building retrieved successfully", building)
}

func (bc *BuildingController) UpdateBuildingController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "building id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var req BuildingRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"address":      req.Address,
		"total_floors": req.TotalFloors,
	}
	if req.BuildingType != "" {
		updates["building_type"] = req.BuildingType
	}

	building, err := bc.BuildingRepo.UpdateBuilding(id, updates)
	if err != nil {
		return utils.RespondError(c, notFoundOr(err, "Failed to update building"))
	}

	// Tenant search documents carry the building name.
	bc.reindexTenants(id)
	return utils.RespondOK(c, fiber.StatusOK, "Building updated successfully", building)
}

func (bc *BuildingController) DeleteBuildingController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "building id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	// Collect occupants first so their search documents can be refreshed.
	tenants, err := bc.TenantRepo.GetTenantsByBuilding(id)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to load building tenants", err))
	}

	unassigned, err := bc.BuildingRepo.DeleteBuilding(id)
	if err != nil {
		return utils.RespondError(c, notFoundOr(err, "Failed to delete building"))
	}

	if bc.BleveRepo != nil {
		for _, t := range tenants {
			t.RoomID, t.RoomNumber, t.BuildingName, t.RentAmount = nil, nil, nil, nil
			if err := bc.BleveRepo.IndexSingleTenant(t); err != nil {
				config.Logger.Warn("Failed to reindex tenant", zap.String("tenant_id", t.ID.String()), zap.Error(err))
			}
		}
	}

	config.Logger.Info("Building deleted",
		zap.String("building_id", id.String()),
		zap.Int64("tenants_unassigned", unassigned),
	)
	utils.InvalidateCacheQuietly(c.UserContext(), bc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusOK, "Building deleted successfully", fiber.Map{
		"tenants_unassigned": unassigned,
	})
}

func (bc *BuildingController) GetBuildingRoomsController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "building id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if _, err := bc.BuildingRepo.GetBuildingByID(id); err != nil {
		return utils.RespondError(c, notFoundOr(err, "Failed to fetch building"))
	}

	rooms, err := bc.RoomRepo.GetRooms(&id)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch rooms", err))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Rooms retrieved successfully", rooms)
}

func (bc *BuildingController) reindexTenants(buildingID uuid.UUID) {
	if bc.BleveRepo == nil {
		return
	}
	tenants, err := bc.TenantRepo.GetTenantsByBuilding(buildingID)
	if err != nil {
		config.Logger.Warn("Failed to load tenants for reindex", zap.Error(err))
		return
	}
	if err := bc.BleveRepo.IndexExistingTenants(tenants); err != nil {
		config.Logger.Warn("Failed to reindex tenants", zap.Error(err))
	}
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("Building")
	}
	return utils.InternalError(message, err)
}
