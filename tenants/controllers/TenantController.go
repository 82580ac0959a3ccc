package controllers

import (
	"errors"
	"strings"

	indexing_repository "github.com/muhammedanshif/rentEase/bleve/repositories"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/tenants/repositories"
	user_repositories "github.com/muhammedanshif/rentEase/users/repositories"
	user_services "github.com/muhammedanshif/rentEase/users/services"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TenantController struct {
	TenantRepo  repositories.TenantRepository
	UserRepo    user_repositories.UserRepository
	DB          *gorm.DB
	Storage     utils.FileStorage
	RedisClient *redis.Client
	BleveRepo   indexing_repository.BleveRepositoryInterface
}

// TenantProfileRequest holds the fields an admin may edit at any time.
type TenantProfileRequest struct {
	FullName              string           `json:"full_name" validate:"required,max=100"`
	Email                 string           `json:"email" validate:"required,email"`
	Phone                 *string          `json:"phone"`
	RoomID                *string          `json:"room_id"`
	LeaseStartDate        *models.DateOnly `json:"lease_start_date"`
	LeaseEndDate          *models.DateOnly `json:"lease_end_date"`
	DepositAmount         *decimal.Decimal `json:"deposit_amount"`
	IDProofType           *string          `json:"id_proof_type"`
	IDProofNumber         *string          `json:"id_proof_number"`
	EmergencyContactName  *string          `json:"emergency_contact_name"`
	EmergencyContactPhone *string          `json:"emergency_contact_phone"`
}

// CreateTenantRequest adds the login credentials, which are only set once.
type CreateTenantRequest struct {
	TenantProfileRequest
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *TenantProfileRequest) check() (*uuid.UUID, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.DepositAmount != nil && req.DepositAmount.IsNegative() {
		return nil, utils.ValidationError("deposit_amount must not be negative")
	}
	if req.LeaseStartDate != nil && req.LeaseStartDate.IsZero() {
		req.LeaseStartDate = nil
	}
	if req.LeaseEndDate != nil && req.LeaseEndDate.IsZero() {
		req.LeaseEndDate = nil
	}
	if req.LeaseStartDate != nil && req.LeaseEndDate != nil && req.LeaseEndDate.Before(*req.LeaseStartDate) {
		return nil, utils.ValidationError("lease_end_date must not be before lease_start_date")
	}

	raw := utils.OptionalString(req.RoomID)
	if raw == nil {
		return nil, nil
	}
	id, err := utils.ParseID(*raw, "room_id")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (tc *TenantController) index(tenant *models.Tenant) {
	if tc.BleveRepo == nil {
		config.Logger.Warn("Search index is nil, skipping tenant indexing", zap.String("tenant_id", tenant.ID.String()))
		return
	}
	if err := tc.BleveRepo.IndexSingleTenant(*tenant); err != nil {
		config.Logger.Error("Error indexing tenant", zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
	}
}

func (tc *TenantController) CreateTenantController(c *fiber.Ctx) error {
	var req CreateTenantRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	req.Username = strings.TrimSpace(req.Username)
	if msg := user_services.ValidateUsername(req.Username); msg != "" {
		return utils.RespondError(c, utils.ValidationError("%s", msg))
	}
	if msg := user_services.ValidatePassword(req.Password); msg != "" {
		return utils.RespondError(c, utils.ValidationError("%s", msg))
	}
	roomID, err := req.check()
	if err != nil {
		return utils.RespondError(c, err)
	}

	taken, err := tc.UserRepo.UsernameOrEmailTaken(req.Username, req.Email)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create tenant", err))
	}
	if taken {
		return utils.RespondError(c, utils.ConflictError("Username or email already exists"))
	}

	tenant := models.Tenant{
		RoomID:                roomID,
		FullName:              req.FullName,
		Email:                 strings.ToLower(req.Email),
		Phone:                 utils.OptionalString(req.Phone),
		LeaseStartDate:        req.LeaseStartDate,
		LeaseEndDate:          req.LeaseEndDate,
		DepositAmount:         req.DepositAmount,
		IDProofType:           utils.OptionalString(req.IDProofType),
		IDProofNumber:         utils.OptionalString(req.IDProofNumber),
		EmergencyContactName:  utils.OptionalString(req.EmergencyContactName),
		EmergencyContactPhone: utils.OptionalString(req.EmergencyContactPhone),
	}

	tx := tc.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			config.Logger.Error("Panic during tenant creation", zap.Any("panic", r))
		}
	}()

	user, err := tc.UserRepo.CreateUser(tx, &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.TenantRole,
	})
	if err != nil {
		tx.Rollback()
		return utils.RespondError(c, utils.InternalError("Failed to create tenant login", err))
	}

	tenant.UserID = user.ID
	if err := tc.TenantRepo.CreateTenant(tx, &tenant); err != nil {
		tx.Rollback()
		return utils.RespondError(c, tenantError(err, "Failed to create tenant"))
	}

	if err := tx.Commit().Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to commit tenant", err))
	}

	created, err := tc.TenantRepo.GetTenantByID(tenant.ID)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to reload tenant", err))
	}

	config.Logger.Info("Tenant created",
		zap.String("tenant_id", created.ID.String()),
		zap.String("username", user.Username),
	)
	tc.index(created)
	utils.InvalidateCacheQuietly(c.UserContext(), tc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusCreated, "Tenant created successfully", created)
}

func (tc *TenantController) GetTenantsController(c *fiber.Ctx) error {
	tenants, err := tc.TenantRepo.GetTenants()
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch tenants", err))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Tenants retrieved successfully", tenants)
}

func (tc *TenantController) GetTenantController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "tenant id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	tenant, err := tc.TenantRepo.GetTenantByID(id)
	if err != nil {
		return utils.RespondError(c, tenantError(err, "Failed to fetch tenant"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Tenant retrieved successfully", tenant)
}

func (tc *TenantController) UpdateTenantController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "tenant id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var req TenantProfileRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	roomID, err := req.check()
	if err != nil {
		return utils.RespondError(c, err)
	}

	tenant, err := tc.TenantRepo.UpdateTenant(id, map[string]interface{}{
		"full_name":               req.FullName,
		"email":                   strings.ToLower(req.Email),
		"phone":                   utils.OptionalString(req.Phone),
		"room_id":                 roomID,
		"lease_start_date":        req.LeaseStartDate,
		"lease_end_date":          req.LeaseEndDate,
		"deposit_amount":          req.DepositAmount,
		"id_proof_type":           utils.OptionalString(req.IDProofType),
		"id_proof_number":         utils.OptionalString(req.IDProofNumber),
		"emergency_contact_name":  utils.OptionalString(req.EmergencyContactName),
		"emergency_contact_phone": utils.OptionalString(req.EmergencyContactPhone),
	})
	if err != nil {
		return utils.RespondError(c, tenantError(err, "Failed to update tenant"))
	}

	tc.index(tenant)
	utils.InvalidateCacheQuietly(c.UserContext(), tc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusOK, "Tenant updated successfully", tenant)
}

// DeleteTenantController removes the tenant, their bills, complaints, login and files.
func (tc *TenantController) DeleteTenantController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "tenant id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	tenant, err := tc.TenantRepo.DeleteTenant(id)
	if err != nil {
		return utils.RespondError(c, tenantError(err, "Failed to delete tenant"))
	}

	files := append([]string{}, tenant.Documents...)
	if tenant.PhotoPath != nil {
		files = append(files, *tenant.PhotoPath)
	}
	for _, f := range files {
		if err := tc.Storage.DeleteFile(f); err != nil {
			config.Logger.Warn("Failed to remove tenant file", zap.String("path", f), zap.Error(err))
		}
	}

	if tc.BleveRepo != nil {
		if err := tc.BleveRepo.DeleteTenant(id.String()); err != nil {
			config.Logger.Error("Failed to remove tenant from index", zap.String("tenant_id", id.String()), zap.Error(err))
		}
	}

	config.Logger.Info("Tenant deleted", zap.String("tenant_id", id.String()))
	utils.InvalidateCacheQuietly(c.UserContext(), tc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusOK, "Tenant deleted successfully", nil)
}

func tenantError(err error, message string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NotFoundError("Tenant")
	case errors.Is(err, repositories.ErrRoomNotFound):
		return utils.NotFoundError("Room")
	case errors.Is(err, repositories.ErrRoomOccupied):
		return utils.ConflictError("Room is already occupied")
	default:
		return utils.InternalError(message, err)
	}
}
