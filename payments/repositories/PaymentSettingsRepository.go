package repositories

import (
	"errors"
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"gorm.io/gorm"
)

// PaymentSettingsRepository manages the single payment settings row.
type PaymentSettingsRepository interface {
	GetSettings() (*models.PaymentSettings, error)
	SetUpiID(upiID *string) (*models.PaymentSettings, error)
	// SetQRCode returns the previous QR code path so the caller can remove it.
	SetQRCode(path string) (*models.PaymentSettings, *string, error)
}

type paymentSettingsRepository struct {
	db *gorm.DB
}

func NewPaymentSettingsRepository(db *gorm.DB) PaymentSettingsRepository {
	return &paymentSettingsRepository{db: db}
}

// GetSettings returns an empty row when nothing has been configured yet.
func (r *paymentSettingsRepository) GetSettings() (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	err := r.db.Order("updated_at ASC").First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.PaymentSettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment settings: %w", err)
	}
	return &settings, nil
}

func (r *paymentSettingsRepository) SetUpiID(upiID *string) (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	err := r.db.Transaction(func(tx *gorm.DB) error {
		row, err := firstOrCreate(tx)
		if err != nil {
			return err
		}
		if err := tx.Model(row).Update("upi_id", upiID).Error; err != nil {
			return err
		}
		return tx.First(&settings, "id = ?", row.ID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save payment settings: %w", err)
	}
	return &settings, nil
}

func (r *paymentSettingsRepository) SetQRCode(path string) (*models.PaymentSettings, *string, error) {
	var (
		settings models.PaymentSettings
		previous *string
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		row, err := firstOrCreate(tx)
		if err != nil {
			return err
		}
		previous = row.UpiQRCode
		if err := tx.Model(row).Update("upi_qr_code", path).Error; err != nil {
			return err
		}
		return tx.First(&settings, "id = ?", row.ID).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save QR code: %w", err)
	}
	return &settings, previous, nil
}

func firstOrCreate(tx *gorm.DB) (*models.PaymentSettings, error) {
	var row models.PaymentSettings
	err := tx.Order("updated_at ASC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.PaymentSettings{}
		if err := tx.Create(&row).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
