package utils

import (
	"context"
	"fmt"

	"github.com/muhammedanshif/rentEase/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InvalidateCache deletes every key under "<resourceType>:".
func InvalidateCache(ctx context.Context, rdb *redis.Client, resourceType string) error {
	if rdb == nil {
		return nil
	}
	pattern := fmt.Sprintf("%s:*", resourceType)
	iter := rdb.Scan(ctx, 0, pattern, 0).Iterator()

	for iter.Next(ctx) {
		key := iter.Val()
		if err := rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("error during SCAN iteration: %w", err)
	}
	return nil
}

// InvalidateCacheQuietly logs instead of failing; a stale cache entry expires on its own.
func InvalidateCacheQuietly(ctx context.Context, rdb *redis.Client, resourceTypes ...string) {
	for _, rt := range resourceTypes {
		if err := InvalidateCache(ctx, rdb, rt); err != nil {
			config.Logger.Warn("Cache invalidation failed",
				zap.String("resource_type", rt),
				zap.Error(err),
			)
		}
	}
}

// DashboardCache is the resource type holding the admin dashboard stats.
const DashboardCache = "dashboard"
