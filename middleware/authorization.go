package middleware

import (
	"errors"
	"strings"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/token"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const userLocalsKey = "user"

// RevokedTokenKey is the redis key marking a token id as logged out.
func RevokedTokenKey(id string) string {
	return "revoked_token:" + id
}

// BearerToken pulls the token out of "Authorization: Bearer <token>".
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ProtectedRoute verifies the bearer token and rejects revoked ones.
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := BearerToken(c)
		if raw == "" {
			return utils.RespondError(c, utils.AuthError("Authentication required"))
		}

		payload, err := ctx.PasetoMaker.VerifyToken(raw)
		if err != nil {
			config.Logger.Debug("Invalid access token encountered", zap.Error(err))
			if errors.Is(err, token.ErrExpired) {
				return utils.RespondError(c, utils.AuthError("Session expired. Please log in again."))
			}
			return utils.RespondError(c, utils.AuthError("Invalid token"))
		}

		if ctx.RedisClient != nil {
			_, err = ctx.RedisClient.Get(c.UserContext(), RevokedTokenKey(payload.ID.String())).Result()
			if err == nil {
				return utils.RespondError(c, utils.AuthError("Session has been logged out"))
			}
			if err != redis.Nil {
				config.Logger.Error("Error checking token revocation",
					zap.String("token_id", payload.ID.String()),
					zap.Error(err),
				)
				return utils.RespondError(c, utils.InternalError("Something went wrong", err))
			}
		}

		c.Locals(userLocalsKey, payload)
		return c.Next()
	}
}

// AdminOnly must run after ProtectedRoute.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := CurrentUser(c)
		if payload == nil || payload.Role != string(models.AdminRole) {
			return utils.RespondError(c, utils.ForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// TenantOnly must run after ProtectedRoute.
func TenantOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := CurrentUser(c)
		if payload == nil || payload.Role != string(models.TenantRole) {
			return utils.RespondError(c, utils.ForbiddenError("Tenant access required"))
		}
		return c.Next()
	}
}

// CurrentUser returns the verified token payload, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *token.Payload {
	payload, _ := c.Locals(userLocalsKey).(*token.Payload)
	return payload
}

func IsAdmin(c *fiber.Ctx) bool {
	payload := CurrentUser(c)
	return payload != nil && payload.Role == string(models.AdminRole)
}
