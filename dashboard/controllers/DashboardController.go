package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/dashboard/repositories"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const statsCacheTTL = 60 * time.Second

type DashboardController struct {
	StatsRepo   repositories.StatsRepository
	DB          *gorm.DB
	RedisClient *redis.Client
}

// GetStatsController serves cached stats; every mutation that changes a
// counter clears the "dashboard:" keys.
func (dc *DashboardController) GetStatsController(c *fiber.Ctx) error {
	month := utils.CurrentBillingMonth()
	today := utils.Today()
	cacheKey := utils.GenerateHash(utils.DashboardCache, map[string]string{
		"month": month,
		"today": today.String(),
	})

	if dc.RedisClient != nil {
		if cached, err := dc.RedisClient.Get(c.UserContext(), cacheKey).Bytes(); err == nil {
			var stats repositories.DashboardStats
			if json.Unmarshal(cached, &stats) == nil {
				c.Set("X-Cache", "HIT")
				return utils.RespondOK(c, fiber.StatusOK, "Dashboard stats retrieved successfully", stats)
			}
		} else if !errors.Is(err, redis.Nil) {
			config.Logger.Warn("Dashboard cache read failed", zap.Error(err))
		}
	}

	stats, err := dc.StatsRepo.GetStats(today, month)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to compute dashboard stats", err))
	}

	if dc.RedisClient != nil {
		if encoded, err := json.Marshal(stats); err == nil {
			if err := dc.RedisClient.Set(c.UserContext(), cacheKey, encoded, statsCacheTTL).Err(); err != nil {
				config.Logger.Warn("Dashboard cache write failed", zap.Error(err))
			}
		}
	}
	c.Set("X-Cache", "MISS")
	return utils.RespondOK(c, fiber.StatusOK, "Dashboard stats retrieved successfully", stats)
}
