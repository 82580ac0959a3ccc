package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentSettings is a singleton row describing how tenants pay.
type PaymentSettings struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	UpiID     *string   `json:"upi_id"`
	UpiQRCode *string   `gorm:"column:upi_qr_code" json:"upi_qr_code"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PaymentSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
