package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmergencyContact struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ServiceType    string    `gorm:"not null" json:"service_type"`
	ContactName    *string   `json:"contact_name"`
	PhoneNumber    string    `gorm:"not null" json:"phone_number"`
	AlternatePhone *string   `json:"alternate_phone"`
	Available24x7  bool      `gorm:"column:available_24x7;not null" json:"available_24x7"`
}

func (e *EmergencyContact) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
