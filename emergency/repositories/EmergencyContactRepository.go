package repositories

import (
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmergencyContactRepository interface {
	CreateContact(contact *models.EmergencyContact) (*models.EmergencyContact, error)
	GetContacts() ([]models.EmergencyContact, error)
	UpdateContact(id uuid.UUID, updates map[string]interface{}) (*models.EmergencyContact, error)
	DeleteContact(id uuid.UUID) error
}

type emergencyContactRepository struct {
	db *gorm.DB
}

func NewEmergencyContactRepository(db *gorm.DB) EmergencyContactRepository {
	return &emergencyContactRepository{db: db}
}

func (r *emergencyContactRepository) CreateContact(contact *models.EmergencyContact) (*models.EmergencyContact, error) {
	if err := r.db.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create emergency contact: %w", err)
	}
	return contact, nil
}

func (r *emergencyContactRepository) GetContacts() ([]models.EmergencyContact, error) {
	var contacts []models.EmergencyContact
	if err := r.db.Order("service_type ASC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list emergency contacts: %w", err)
	}
	return contacts, nil
}

func (r *emergencyContactRepository) UpdateContact(id uuid.UUID, updates map[string]interface{}) (*models.EmergencyContact, error) {
	result := r.db.Model(&models.EmergencyContact{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update emergency contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var contact models.EmergencyContact
	if err := r.db.First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *emergencyContactRepository) DeleteContact(id uuid.UUID) error {
	result := r.db.Delete(&models.EmergencyContact{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete emergency contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
