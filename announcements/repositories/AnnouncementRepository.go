package repositories

import (
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	CreateAnnouncement(announcement *models.Announcement) (*models.Announcement, error)
	GetAnnouncements(limit int) ([]models.Announcement, error)
	GetAnnouncementByID(id uuid.UUID) (*models.Announcement, error)
	UpdateAnnouncement(id uuid.UUID, updates map[string]interface{}) (*models.Announcement, error)
	DeleteAnnouncement(id uuid.UUID) error
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) CreateAnnouncement(announcement *models.Announcement) (*models.Announcement, error) {
	if err := r.db.Create(announcement).Error; err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	return announcement, nil
}

func (r *announcementRepository) GetAnnouncements(limit int) ([]models.Announcement, error) {
	var announcements []models.Announcement
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}

func (r *announcementRepository) GetAnnouncementByID(id uuid.UUID) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.First(&announcement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) UpdateAnnouncement(id uuid.UUID, updates map[string]interface{}) (*models.Announcement, error) {
	result := r.db.Model(&models.Announcement{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetAnnouncementByID(id)
}

func (r *announcementRepository) DeleteAnnouncement(id uuid.UUID) error {
	result := r.db.Delete(&models.Announcement{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete announcement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
