package controllers

import (
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/token"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func currentPayload(c *fiber.Ctx) *token.Payload {
	return middleware.CurrentUser(c)
}

// LogoutUser revokes the token id until the token would have expired anyway.
func (lc *LoginController) LogoutUser(c *fiber.Ctx) error {
	payload := currentPayload(c)
	if payload == nil {
		return utils.RespondError(c, utils.AuthError("Authentication required"))
	}

	if lc.RedisClient != nil {
		ttl := payload.RemainingTTL()
		if ttl > 0 {
			err := lc.RedisClient.Set(c.UserContext(), middleware.RevokedTokenKey(payload.ID.String()), payload.UserID.String(), ttl).Err()
			if err != nil {
				config.Logger.Error("Failed to revoke token during logout", zap.Error(err))
				return utils.RespondError(c, utils.InternalError("Failed to log out", err))
			}
		}
	}

	config.Logger.Info("User logged out successfully",
		zap.String("user_id", payload.UserID.String()),
		zap.String("client_ip", c.IP()),
	)
	return utils.RespondOK(c, fiber.StatusOK, "Logged out successfully", nil)
}
