package repositories

import (
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintRepository interface {
	CreateComplaint(complaint *models.Complaint) (*models.Complaint, error)
	GetComplaints(tenantID *uuid.UUID, status models.ComplaintStatus) ([]models.Complaint, error)
	GetComplaintByID(id uuid.UUID) (*models.Complaint, error)
	UpdateComplaint(id uuid.UUID, updates map[string]interface{}) (*models.Complaint, error)
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) CreateComplaint(complaint *models.Complaint) (*models.Complaint, error) {
	if err := r.db.Create(complaint).Error; err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}
	return r.GetComplaintByID(complaint.ID)
}

// GetComplaints lists newest first.
func (r *complaintRepository) GetComplaints(tenantID *uuid.UUID, status models.ComplaintStatus) ([]models.Complaint, error) {
	query := r.db.Preload("Tenant").Preload("Tenant.Room")
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var complaints []models.Complaint
	if err := query.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	for i := range complaints {
		decorate(&complaints[i])
	}
	return complaints, nil
}

func (r *complaintRepository) GetComplaintByID(id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.Preload("Tenant").Preload("Tenant.Room").First(&complaint, "id = ?", id).Error; err != nil {
		return nil, err
	}
	decorate(&complaint)
	return &complaint, nil
}

func (r *complaintRepository) UpdateComplaint(id uuid.UUID, updates map[string]interface{}) (*models.Complaint, error) {
	result := r.db.Model(&models.Complaint{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetComplaintByID(id)
}

func decorate(c *models.Complaint) {
	if c.Tenant == nil {
		return
	}
	name := c.Tenant.FullName
	c.TenantName = &name
	if c.Tenant.Room != nil {
		number := c.Tenant.Room.RoomNumber
		c.RoomNumber = &number
	}
}
