package middleware

import (
	"errors"

	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tenantLocalsKey = "tenant_id"

// ResolveTenant looks up the tenant profile behind a tenant login so handlers
// can scope queries to it. Admin requests pass through untouched. It must run
// after ProtectedRoute.
func ResolveTenant(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := CurrentUser(c)
		if payload == nil || payload.Role != string(models.TenantRole) {
			return c.Next()
		}

		var tenant models.Tenant
		err := ctx.DB.WithContext(c.UserContext()).
			Select("id").
			Where("user_id = ?", payload.UserID).
			First(&tenant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, utils.ForbiddenError("Tenant profile not found"))
		}
		if err != nil {
			return utils.RespondError(c, utils.InternalError("Failed to resolve tenant", err))
		}

		c.Locals(tenantLocalsKey, tenant.ID)
		return c.Next()
	}
}

// CurrentTenantID is nil for admins and public routes.
func CurrentTenantID(c *fiber.Ctx) *uuid.UUID {
	id, ok := c.Locals(tenantLocalsKey).(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
