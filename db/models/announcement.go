package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementPriority string

const (
	LowPriority    AnnouncementPriority = "low"
	NormalPriority AnnouncementPriority = "normal"
	HighPriority   AnnouncementPriority = "high"
	UrgentPriority AnnouncementPriority = "urgent"
)

type Announcement struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key;" json:"id"`
	Title     string               `gorm:"not null" json:"title"`
	Message   string               `gorm:"type:text;not null" json:"message"`
	Priority  AnnouncementPriority `gorm:"type:varchar(10);default:'normal'" json:"priority"`
	CreatedAt time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Priority == "" {
		a.Priority = NormalPriority
	}
	return nil
}
