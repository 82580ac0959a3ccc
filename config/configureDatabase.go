package config

import (
	"fmt"
	"log"
	"time"

	"github.com/muhammedanshif/rentEase/db/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// allModels defines all models that should be migrated.
// Order matters for foreign keys: parents first.
var allModels = []interface{}{
	&models.User{},
	&models.Building{},
	&models.Room{},
	&models.Tenant{},
	&models.Bill{},
	&models.Complaint{},
	&models.Announcement{},
	&models.EmergencyContact{},
	&models.PaymentSettings{},
}

func ConfigureDatabase() *gorm.DB {
	host := GetEnvDefault("DB_HOST", "localhost")
	user := GetEnv("POSTGRES_USER")
	password := GetEnv("POSTGRES_PASSWORD")
	dbname := GetEnv("POSTGRES_DB")
	port := GetEnvDefault("DB_PORT", "5432")
	timezone := GetEnvDefault("DB_TIMEZONE", "Asia/Kolkata")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		host, user, password, dbname, port, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[DB-CONNECT] Failed to connect to database: %v", err)
	}

	if err := MigrateModels(db); err != nil {
		log.Fatalf("failed to migrate tables: %v", err)
	}
	log.Println("Tables migrated successfully")

	// Connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[DB-POOL] Failed to get underlying DB connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	log.Println("[DB-POOL] Connection pool configured")
	log.Println("[DB-STATUS] Database setup complete")
	return db
}

// MigrateModels runs AutoMigrate for every model. Tests call it against sqlite.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(allModels...)
}
