package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BuildingType string

const (
	ResidentialBuilding BuildingType = "residential"
	CommercialBuilding  BuildingType = "commercial"
	MixedBuilding       BuildingType = "mixed"
)

type Building struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Address      string       `gorm:"type:text;not null" json:"address"`
	BuildingType BuildingType `gorm:"type:varchar(20);default:'residential'" json:"building_type"`
	TotalFloors  *int         `json:"total_floors"`
	Rooms        []Room       `gorm:"foreignKey:BuildingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Derived on read.
	RoomCount     int64 `gorm:"->;-:migration" json:"room_count"`
	OccupiedCount int64 `gorm:"->;-:migration" json:"occupied_count"`
}

func (b *Building) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func IsValidBuildingType(t BuildingType) bool {
	switch t {
	case ResidentialBuilding, CommercialBuilding, MixedBuilding:
		return true
	}
	return false
}
