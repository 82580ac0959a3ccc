package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tenant is the occupancy record. The unique room index keeps one tenant per room.
type Tenant struct {
	ID                    uuid.UUID                   `gorm:"type:uuid;primary_key;" json:"id"`
	UserID                uuid.UUID                   `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User                  *User                       `gorm:"foreignKey:UserID" json:"-"`
	RoomID                *uuid.UUID                  `gorm:"type:uuid;uniqueIndex" json:"room_id"`
	Room                  *Room                       `gorm:"foreignKey:RoomID" json:"-"`
	FullName              string                      `gorm:"not null" json:"full_name"`
	Email                 string                      `json:"email"`
	Phone                 *string                     `json:"phone"`
	LeaseStartDate        *DateOnly                   `gorm:"type:date" json:"lease_start_date"`
	LeaseEndDate          *DateOnly                   `gorm:"type:date" json:"lease_end_date"`
	DepositAmount         *decimal.Decimal            `gorm:"type:decimal(12,2)" json:"deposit_amount"`
	IDProofType           *string                     `json:"id_proof_type"`
	IDProofNumber         *string                     `json:"id_proof_number"`
	EmergencyContactName  *string                     `json:"emergency_contact_name"`
	EmergencyContactPhone *string                     `json:"emergency_contact_phone"`
	PhotoPath             *string                     `json:"photo_path"`
	Documents             datatypes.JSONSlice[string] `json:"documents"`
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`

	Username     string           `gorm:"-" json:"username,omitempty"`
	RoomNumber   *string          `gorm:"-" json:"room_number"`
	BuildingName *string          `gorm:"-" json:"building_name"`
	RentAmount   *decimal.Decimal `gorm:"-" json:"rent_amount"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
