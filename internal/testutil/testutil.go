// Package testutil builds throwaway databases, redis servers and fixtures for
// package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TokenKey is a valid 32 byte symmetric key for tests.
const TokenKey = "12345678901234567890123456789012"

// NewTestDB opens a private in-memory sqlite database with every model migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.UseLogger(zap.NewNop())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// The in-memory database lives as long as one connection stays open.
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.MigrateModels(db))
	return db
}

// NewTestRedis starts a miniredis server that is torn down with the test.
func NewTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func NewMaker(t *testing.T) token.Maker {
	t.Helper()
	maker, err := token.NewPasetoMaker(TokenKey)
	require.NoError(t, err)
	return maker
}

// CreateUser inserts a user whose password is "secret123".
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// TokenFor issues an hour long token for user.
func TokenFor(t *testing.T, maker token.Maker, user *models.User) string {
	t.Helper()
	tok, _, err := maker.CreateToken(user.ID, user.Username, string(user.Role), time.Hour)
	require.NoError(t, err)
	return tok
}

func CreateBuilding(t *testing.T, db *gorm.DB, name string) *models.Building {
	t.Helper()
	b := &models.Building{Name: name, Address: name + " Road", BuildingType: models.ResidentialBuilding}
	require.NoError(t, db.Create(b).Error)
	return b
}

func CreateRoom(t *testing.T, db *gorm.DB, buildingID uuid.UUID, number string, rent int64) *models.Room {
	t.Helper()
	r := &models.Room{
		BuildingID: buildingID,
		RoomNumber: number,
		RoomType:   "1BHK",
		RentAmount: decimal.NewFromInt(rent),
		Category:   models.ResidentialRoom,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateTenant inserts a tenant with its own login, optionally placed in a room.
func CreateTenant(t *testing.T, db *gorm.DB, fullName string, roomID *uuid.UUID) (*models.Tenant, *models.User) {
	t.Helper()
	user := CreateUser(t, db, "user_"+uuid.NewString()[:8], models.TenantRole)
	phone := "9000000000"
	tenant := &models.Tenant{
		UserID:   user.ID,
		RoomID:   roomID,
		FullName: fullName,
		Email:    user.Email,
		Phone:    &phone,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant, user
}

func CreateBill(t *testing.T, db *gorm.DB, tenantID uuid.UUID, status models.BillStatus, amount int64) *models.Bill {
	t.Helper()
	due, err := models.ParseDateOnly("2024-06-06")
	require.NoError(t, err)
	bill := &models.Bill{
		TenantID:     tenantID,
		BillType:     models.ElectricityBill,
		Amount:       decimal.NewFromInt(amount),
		BillingMonth: "2024-06",
		DueDate:      due,
		Status:       status,
	}
	if status != models.BillPending {
		shot := "payment_screenshots/proof.png"
		bill.PaymentScreenshot = &shot
	}
	require.NoError(t, db.Create(bill).Error)
	return bill
}

// FixedClock pins utils.Now style clocks for the duration of a test.
func FixedClock(t *testing.T, now *func() time.Time, at time.Time) {
	t.Helper()
	prev := *now
	*now = func() time.Time { return at }
	t.Cleanup(func() { *now = prev })
}
