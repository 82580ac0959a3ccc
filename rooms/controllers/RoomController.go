package controllers

import (
	"errors"
	"strings"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/rooms/repositories"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const roomPhotoFolder = "room_photos"

type RoomController struct {
	RoomRepo    repositories.RoomRepository
	DB          *gorm.DB
	Storage     utils.FileStorage
	RedisClient *redis.Client
}

type RoomRequest struct {
	BuildingID  string           `json:"building_id" validate:"required,uuid"`
	RoomNumber  string           `json:"room_number" validate:"required,max=20"`
	RoomType    string           `json:"room_type" validate:"required"`
	FloorNumber *int             `json:"floor_number"`
	AreaSqft    *decimal.Decimal `json:"area_sqft"`
	RentAmount  decimal.Decimal  `json:"rent_amount"`
	Category    string           `json:"category" validate:"omitempty,oneof=residential commercial"`
	Description *string          `json:"description"`
}

func (req *RoomRequest) check() (uuid.UUID, error) {
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	if !models.IsValidRoomType(req.RoomType) {
		return uuid.Nil, utils.ValidationError("room_type must be one of: %s", strings.Join(models.RoomTypes, ", "))
	}
	if !req.RentAmount.IsPositive() {
		return uuid.Nil, utils.ValidationError("rent_amount must be greater than zero")
	}
	if req.AreaSqft != nil && req.AreaSqft.IsNegative() {
		return uuid.Nil, utils.ValidationError("area_sqft must not be negative")
	}
	if req.Category == "" {
		req.Category = string(models.ResidentialRoom)
	}
	return utils.ParseID(req.BuildingID, "building_id")
}

func (rc *RoomController) buildingExists(id uuid.UUID) error {
	var building models.Building
	err := rc.DB.Select("id").First(&building, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("Building")
	}
	if err != nil {
		return utils.InternalError("Failed to load building", err)
	}
	return nil
}

func (rc *RoomController) CreateRoomController(c *fiber.Ctx) error {
	var req RoomRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	buildingID, err := req.check()
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := rc.buildingExists(buildingID); err != nil {
		return utils.RespondError(c, err)
	}

	taken, err := rc.RoomRepo.RoomNumberTaken(buildingID, req.RoomNumber, nil)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create room", err))
	}
	if taken {
		return utils.RespondError(c, utils.ConflictError("Room %s already exists in this building", req.RoomNumber))
	}

	room, err := rc.RoomRepo.CreateRoom(&models.Room{
		BuildingID:  buildingID,
		RoomNumber:  req.RoomNumber,
		RoomType:    req.RoomType,
		FloorNumber: req.FloorNumber,
		AreaSqft:    req.AreaSqft,
		RentAmount:  req.RentAmount,
		Category:    models.RoomCategory(req.Category),
		Description: utils.OptionalString(req.Description),
	})
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create room", err))
	}

	config.Logger.Info("Room created", zap.String("room_id", room.ID.String()), zap.String("room_number", room.RoomNumber))
	utils.InvalidateCacheQuietly(c.UserContext(), rc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusCreated, "Room created successfully", room)
}

func (rc *RoomController) GetRoomsController(c *fiber.Ctx) error {
	var buildingID *uuid.UUID
	if raw := c.Query("building_id"); raw != "" {
		id, err := utils.ParseID(raw, "building_id")
		if err != nil {
			return utils.RespondError(c, err)
		}
		buildingID = &id
	}

	rooms, err := rc.RoomRepo.GetRooms(buildingID)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch rooms", err))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Rooms retrieved successfully", rooms)
}

func (rc *RoomController) GetRoomController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "room id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	room, err := rc.RoomRepo.GetRoomByID(id)
	if err != nil {
		return utils.RespondError(c, roomError(err, "Failed to fetch room"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Room retrieved successfully", room)
}

func (rc *RoomController) UpdateRoomController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "room id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var req RoomRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	buildingID, err := req.check()
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := rc.buildingExists(buildingID); err != nil {
		return utils.RespondError(c, err)
	}

	taken, err := rc.RoomRepo.RoomNumberTaken(buildingID, req.RoomNumber, &id)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update room", err))
	}
	if taken {
		return utils.RespondError(c, utils.ConflictError("Room %s already exists in this building", req.RoomNumber))
	}

	room, err := rc.RoomRepo.UpdateRoom(id, map[string]interface{}{
		"building_id":  buildingID,
		"room_number":  req.RoomNumber,
		"room_type":    req.RoomType,
		"floor_number": req.FloorNumber,
		"area_sqft":    req.AreaSqft,
		"rent_amount":  req.RentAmount,
		"category":     req.Category,
		"description":  utils.OptionalString(req.Description),
	})
	if err != nil {
		return utils.RespondError(c, roomError(err, "Failed to update room"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Room updated successfully", room)
}

func (rc *RoomController) DeleteRoomController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "room id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	room, err := rc.RoomRepo.GetRoomByID(id)
	if err != nil {
		return utils.RespondError(c, roomError(err, "Failed to delete room"))
	}
	if err := rc.RoomRepo.DeleteRoom(id); err != nil {
		if errors.Is(err, repositories.ErrRoomOccupied) {
			if occupant, lookupErr := rc.RoomRepo.OccupantOf(id); lookupErr == nil && occupant != nil {
				return utils.RespondError(c, utils.ConflictError("Room %s is occupied by %s. Remove the tenant first.", room.RoomNumber, occupant.FullName))
			}
		}
		return utils.RespondError(c, roomError(err, "Failed to delete room"))
	}

	for _, photo := range room.Photos {
		if err := rc.Storage.DeleteFile(photo); err != nil {
			config.Logger.Warn("Failed to remove room photo", zap.String("path", photo), zap.Error(err))
		}
	}

	config.Logger.Info("Room deleted", zap.String("room_id", id.String()))
	utils.InvalidateCacheQuietly(c.UserContext(), rc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusOK, "Room deleted successfully", nil)
}

// UploadRoomPhotosController accepts one or more "photos" files and appends them.
func (rc *RoomController) UploadRoomPhotosController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "room id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if _, err := rc.RoomRepo.GetRoomByID(id); err != nil {
		return utils.RespondError(c, roomError(err, "Failed to load room"))
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["photos"]) == 0 {
		return utils.RespondError(c, utils.ValidationError("At least one photo is required"))
	}

	paths := make([]string, 0, len(form.File["photos"]))
	for _, fh := range form.File["photos"] {
		path, err := utils.SavePhoto(rc.Storage, fh, roomPhotoFolder)
		if err != nil {
			for _, p := range paths {
				_ = rc.Storage.DeleteFile(p)
			}
			return utils.RespondError(c, err)
		}
		paths = append(paths, path)
	}

	room, err := rc.RoomRepo.AppendPhotos(id, paths)
	if err != nil {
		return utils.RespondError(c, roomError(err, "Failed to save room photos"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Room photos uploaded successfully", room)
}

func roomError(err error, message string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NotFoundError("Room")
	case errors.Is(err, repositories.ErrRoomOccupied):
		return utils.ConflictError("Cannot delete an occupied room. Remove the tenant first.")
	default:
		return utils.InternalError(message, err)
	}
}
