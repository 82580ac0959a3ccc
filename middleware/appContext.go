package middleware

import (
	"context"

	"github.com/muhammedanshif/rentEase/token"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AppContext bundles all dependencies
type AppContext struct {
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
	DB          *gorm.DB
}
