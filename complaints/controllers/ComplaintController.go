package controllers

import (
	"errors"
	"strings"

	"github.com/muhammedanshif/rentEase/complaints/repositories"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/tasks"
	"github.com/muhammedanshif/rentEase/utils"
	"github.com/muhammedanshif/rentEase/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ComplaintController struct {
	ComplaintRepo repositories.ComplaintRepository
	DB            *gorm.DB
	Queue         tasks.Enqueuer
	Hub           websocket.Publisher
	RedisClient   *redis.Client
}

type CreateComplaintRequest struct {
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"omitempty,oneof=maintenance plumbing electrical cleaning security noise other"`
}

type ReplyComplaintRequest struct {
	Reply  string `json:"reply" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
}

func (cc *ComplaintController) notify(complaint *models.Complaint) {
	tasks.EnqueueComplaintUpdate(cc.Queue, complaint.ID)
	if cc.Hub == nil || complaint.Tenant == nil {
		return
	}
	cc.Hub.SendToUser(complaint.Tenant.UserID, websocket.NewMessage(websocket.MessageTypeComplaint, fiber.Map{
		"complaint_id": complaint.ID,
		"status":       complaint.Status,
	}))
}

// SubmitComplaintController is the tenant side: the complaint is filed against
// the caller's own tenancy.
func (cc *ComplaintController) SubmitComplaintController(c *fiber.Ctx) error {
	tenantID := middleware.CurrentTenantID(c)
	if tenantID == nil {
		return utils.RespondError(c, utils.ForbiddenError("Only tenants can submit complaints"))
	}
	var req CreateComplaintRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	if req.Category == "" {
		req.Category = "other"
	}

	complaint, err := cc.ComplaintRepo.CreateComplaint(&models.Complaint{
		TenantID:    *tenantID,
		Subject:     strings.TrimSpace(req.Subject),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Status:      models.ComplaintOpen,
	})
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to submit complaint", err))
	}

	if cc.Hub != nil {
		cc.Hub.SendToRole(string(models.AdminRole), websocket.NewMessage(websocket.MessageTypeComplaint, fiber.Map{
			"complaint_id": complaint.ID,
			"status":       complaint.Status,
			"subject":      complaint.Subject,
		}))
	}
	config.Logger.Info("Complaint submitted", zap.String("complaint_id", complaint.ID.String()))
	utils.InvalidateCacheQuietly(c.UserContext(), cc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusCreated, "Complaint submitted successfully", complaint)
}

func (cc *ComplaintController) GetComplaintsController(c *fiber.Ctx) error {
	status := models.ComplaintStatus(c.Query("status"))
	if status != "" && !models.IsValidComplaintStatus(status) {
		return utils.RespondError(c, utils.ValidationError("Unknown complaint status %q", status))
	}

	var tenantID *uuid.UUID
	if scoped := middleware.CurrentTenantID(c); scoped != nil {
		tenantID = scoped
	} else if raw := c.Query("tenant_id"); raw != "" {
		id, err := utils.ParseID(raw, "tenant_id")
		if err != nil {
			return utils.RespondError(c, err)
		}
		tenantID = &id
	}

	complaints, err := cc.ComplaintRepo.GetComplaints(tenantID, status)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch complaints", err))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Complaints retrieved successfully", complaints)
}

// ReplyComplaintController stores the admin reply. Status defaults to in_progress.
func (cc *ComplaintController) ReplyComplaintController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "complaint id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var req ReplyComplaintRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	if req.Status == "" {
		req.Status = string(models.ComplaintInProgress)
	}

	existing, err := cc.ComplaintRepo.GetComplaintByID(id)
	if err != nil {
		return utils.RespondError(c, complaintError(err, "Failed to load complaint"))
	}
	if existing.Status == models.ComplaintClosed {
		return utils.RespondError(c, utils.ConflictError("Complaint is already closed"))
	}

	complaint, err := cc.ComplaintRepo.UpdateComplaint(id, map[string]interface{}{
		"admin_reply": strings.TrimSpace(req.Reply),
		"status":      req.Status,
	})
	if err != nil {
		return utils.RespondError(c, complaintError(err, "Failed to reply to complaint"))
	}

	cc.notify(complaint)
	utils.InvalidateCacheQuietly(c.UserContext(), cc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusOK, "Reply sent successfully", complaint)
}

// CloseComplaintController is open to admins and to the tenant who filed it.
func (cc *ComplaintController) CloseComplaintController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "complaint id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	existing, err := cc.ComplaintRepo.GetComplaintByID(id)
	if err != nil {
		return utils.RespondError(c, complaintError(err, "Failed to load complaint"))
	}
	if tenantID := middleware.CurrentTenantID(c); tenantID != nil && existing.TenantID != *tenantID {
		return utils.RespondError(c, utils.ForbiddenError("You can only close your own complaints"))
	}
	if existing.Status == models.ComplaintClosed {
		return utils.RespondError(c, utils.ConflictError("Complaint is already closed"))
	}

	complaint, err := cc.ComplaintRepo.UpdateComplaint(id, map[string]interface{}{"status": models.ComplaintClosed})
	if err != nil {
		return utils.RespondError(c, complaintError(err, "Failed to close complaint"))
	}

	if middleware.IsAdmin(c) {
		cc.notify(complaint)
	}
	utils.InvalidateCacheQuietly(c.UserContext(), cc.RedisClient, utils.DashboardCache)
	return utils.RespondOK(c, fiber.StatusOK, "Complaint closed successfully", complaint)
}

func complaintError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("Complaint")
	}
	return utils.InternalError(message, err)
}
