package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	ComplaintOpen       ComplaintStatus = "open"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
	ComplaintClosed     ComplaintStatus = "closed"
)

var ComplaintCategories = []string{"maintenance", "plumbing", "electrical", "cleaning", "security", "noise", "other"}

type Complaint struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Tenant      *Tenant         `gorm:"foreignKey:TenantID" json:"-"`
	Subject     string          `gorm:"not null" json:"subject"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    string          `gorm:"type:varchar(20);default:'other'" json:"category"`
	Status      ComplaintStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`
	AdminReply  *string         `gorm:"type:text" json:"admin_reply"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	TenantName *string `gorm:"-" json:"tenant_name"`
	RoomNumber *string `gorm:"-" json:"room_number"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func IsValidComplaintStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintOpen, ComplaintInProgress, ComplaintResolved, ComplaintClosed:
		return true
	}
	return false
}
