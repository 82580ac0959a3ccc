package config

import (
	"errors"
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultEmergencyContacts = []models.EmergencyContact{
	{ServiceType: "Police", PhoneNumber: "100", Available24x7: true},
	{ServiceType: "Fire", PhoneNumber: "101", Available24x7: true},
	{ServiceType: "Ambulance", PhoneNumber: "102", Available24x7: true},
	{ServiceType: "Electrician", ContactName: stringPtr("Local Electrician"), PhoneNumber: "9876543210", Available24x7: false},
	{ServiceType: "Plumber", ContactName: stringPtr("Local Plumber"), PhoneNumber: "9876543211", Available24x7: false},
}

// SeedInitialData creates the admin account, default emergency contacts and the
// payment settings row. Each step is skipped when data already exists.
func SeedInitialData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedAdmin(tx); err != nil {
			return err
		}

		var contacts int64
		if err := tx.Model(&models.EmergencyContact{}).Count(&contacts).Error; err != nil {
			return fmt.Errorf("failed to count emergency contacts: %w", err)
		}
		if contacts == 0 {
			seed := make([]models.EmergencyContact, len(defaultEmergencyContacts))
			copy(seed, defaultEmergencyContacts)
			if err := tx.Create(&seed).Error; err != nil {
				return fmt.Errorf("failed to seed emergency contacts: %w", err)
			}
			Logger.Info("Seeded default emergency contacts", zap.Int("count", len(seed)))
		}

		var settings models.PaymentSettings
		err := tx.First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := tx.Create(&models.PaymentSettings{}).Error; err != nil {
				return fmt.Errorf("failed to seed payment settings: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to load payment settings: %w", err)
		}
		return nil
	})
}

func seedAdmin(tx *gorm.DB) error {
	username := GetEnvDefault("ADMIN_USERNAME", "admin")

	var existing models.User
	err := tx.Where("username = ?", username).First(&existing).Error
	if err == nil {
		Logger.Debug("Admin user already exists", zap.String("username", username))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("error checking for existing admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(GetEnvDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.User{
		Username: username,
		Email:    GetEnvDefault("ADMIN_EMAIL", "admin@rentease.com"),
		Password: string(hashed),
		Role:     models.AdminRole,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	Logger.Info("Admin user created", zap.String("username", admin.Username))
	return nil
}

func stringPtr(s string) *string {
	return &s
}
