package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/token"
	"github.com/muhammedanshif/rentEase/users/repositories"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LoginController struct {
	UserRepo      repositories.UserRepository
	PasetoMaker   token.Maker
	RedisClient   *redis.Client
	TokenDuration time.Duration
}

// SessionUser is the identity handed to the client after login.
type SessionUser struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	TenantID *uuid.UUID  `json:"tenant_id,omitempty"`
	FullName string      `json:"full_name,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lc *LoginController) sessionUser(user *models.User) (*SessionUser, error) {
	su := &SessionUser{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role}
	if user.Role != models.TenantRole {
		return su, nil
	}

	tenant, err := lc.UserRepo.GetTenantByUserID(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ForbiddenError("Tenant profile not found")
		}
		return nil, utils.InternalError("Failed to load tenant profile", err)
	}
	su.TenantID = &tenant.ID
	su.FullName = tenant.FullName
	return su, nil
}

func (lc *LoginController) LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	user, err := lc.UserRepo.GetUserByLogin(req.Username)
	if err != nil || !repositories.CheckPasswordHash(req.Password, user.Password) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, utils.InternalError("Login failed", err))
		}
		config.Logger.Warn("Login attempt failed", zap.String("username", strings.TrimSpace(req.Username)))
		return utils.RespondError(c, utils.AuthError("Invalid username or password"))
	}

	su, err := lc.sessionUser(user)
	if err != nil {
		return utils.RespondError(c, err)
	}

	accessToken, payload, err := lc.PasetoMaker.CreateToken(user.ID, user.Username, string(user.Role), lc.TokenDuration)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create token", err))
	}

	config.Logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("client_ip", c.IP()),
	)

	return utils.RespondOK(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token":      accessToken,
		"expires_at": payload.ExpiredAt,
		"user":       su,
	})
}

// CurrentUserController returns the identity behind the bearer token.
func (lc *LoginController) CurrentUserController(c *fiber.Ctx) error {
	payload := currentPayload(c)
	if payload == nil {
		return utils.RespondError(c, utils.AuthError("Authentication required"))
	}

	user, err := lc.UserRepo.GetUserByID(payload.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RespondError(c, utils.AuthError("User no longer exists"))
		}
		return utils.RespondError(c, utils.InternalError("Failed to load user", err))
	}

	su, err := lc.sessionUser(user)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.RespondOK(c, fiber.StatusOK, "User retrieved", su)
}
