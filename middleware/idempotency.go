package middleware

import (
	"encoding/json"
	"time"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 10 * time.Minute
)

type idempotencyRecord struct {
	State       string `json:"state"`
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency replays the stored response when a mutation is retried with the
// same Idempotency-Key, and answers 409 while the first attempt is still running.
// Requests without the header pass straight through.
func Idempotency(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(IdempotencyHeader)
		if key == "" || ctx.RedisClient == nil {
			return c.Next()
		}
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		default:
			return c.Next()
		}

		owner := "anonymous"
		if payload := CurrentUser(c); payload != nil {
			owner = payload.UserID.String()
		}
		redisKey := "idempotency:" + owner + ":" + key
		fingerprint := utils.HashBytes(append([]byte(c.Method()+" "+c.Path()+"\n"), c.Body()...))

		pending, _ := json.Marshal(idempotencyRecord{State: "pending", Fingerprint: fingerprint})
		acquired, err := ctx.RedisClient.SetNX(c.UserContext(), redisKey, pending, idempotencyTTL).Result()
		if err != nil {
			config.Logger.Error("Idempotency store unavailable", zap.Error(err))
			return c.Next()
		}

		if !acquired {
			return replayIdempotent(c, ctx.RedisClient, redisKey, fingerprint)
		}

		if err := c.Next(); err != nil {
			ctx.RedisClient.Del(c.UserContext(), redisKey)
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			// Let the caller retry server failures.
			ctx.RedisClient.Del(c.UserContext(), redisKey)
			return nil
		}

		done, _ := json.Marshal(idempotencyRecord{
			State:       "done",
			Fingerprint: fingerprint,
			Status:      status,
			Body:        append([]byte(nil), c.Response().Body()...),
		})
		if err := ctx.RedisClient.Set(c.UserContext(), redisKey, done, idempotencyTTL).Err(); err != nil {
			config.Logger.Warn("Failed to store idempotent response", zap.String("key", redisKey), zap.Error(err))
		}
		return nil
	}
}

func replayIdempotent(c *fiber.Ctx, rdb *redis.Client, redisKey, fingerprint string) error {
	raw, err := rdb.Get(c.UserContext(), redisKey).Bytes()
	if err != nil {
		return utils.RespondError(c, utils.ConflictError("Request is already being processed"))
	}

	var record idempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return utils.RespondError(c, utils.InternalError("Corrupt idempotency record", err))
	}

	if record.Fingerprint != fingerprint {
		return utils.RespondError(c, utils.ValidationError("Idempotency-Key was already used for a different request"))
	}
	if record.State != "done" {
		return utils.RespondError(c, utils.ConflictError("Request is already being processed"))
	}

	c.Set("Idempotent-Replayed", "true")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(record.Status).Send(record.Body)
}
