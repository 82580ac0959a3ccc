package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomVacant   RoomStatus = "vacant"
	RoomOccupied RoomStatus = "occupied"
)

type RoomCategory string

const (
	ResidentialRoom RoomCategory = "residential"
	CommercialRoom  RoomCategory = "commercial"
)

var RoomTypes = []string{"1RK", "1BHK", "2BHK", "3BHK", "4BHK", "Studio", "Shop", "Office", "Warehouse", "Other"}

// Room status is never stored: it follows from whether a tenant references the room.
type Room struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key;" json:"id"`
	BuildingID  uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_building_room_number" json:"building_id"`
	RoomNumber  string                      `gorm:"not null;uniqueIndex:idx_building_room_number" json:"room_number"`
	RoomType    string                      `gorm:"type:varchar(20);not null" json:"room_type"`
	FloorNumber *int                        `json:"floor_number"`
	AreaSqft    *decimal.Decimal            `gorm:"type:decimal(10,2)" json:"area_sqft"`
	RentAmount  decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"rent_amount"`
	Category    RoomCategory                `gorm:"type:varchar(20);default:'residential'" json:"category"`
	Description *string                     `gorm:"type:text" json:"description"`
	Photos      datatypes.JSONSlice[string] `json:"photos"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`

	Status       RoomStatus `gorm:"-" json:"status"`
	TenantName   *string    `gorm:"-" json:"tenant_name"`
	BuildingName string     `gorm:"-" json:"building_name,omitempty"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func IsValidRoomType(t string) bool {
	for _, rt := range RoomTypes {
		if rt == t {
			return true
		}
	}
	return false
}
