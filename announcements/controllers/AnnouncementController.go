package controllers

import (
	"errors"
	"strings"

	"github.com/muhammedanshif/rentEase/announcements/repositories"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"
	"github.com/muhammedanshif/rentEase/websocket"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FeedLimit caps how many announcements the board shows.
const FeedLimit = 20

type AnnouncementController struct {
	AnnouncementRepo repositories.AnnouncementRepository
	DB               *gorm.DB
	Hub              websocket.Publisher
}

type AnnouncementRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

func (ac *AnnouncementController) CreateAnnouncementController(c *fiber.Ctx) error {
	var req AnnouncementRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	announcement, err := ac.AnnouncementRepo.CreateAnnouncement(&models.Announcement{
		Title:    strings.TrimSpace(req.Title),
		Message:  strings.TrimSpace(req.Message),
		Priority: models.AnnouncementPriority(req.Priority),
	})
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create announcement", err))
	}

	if ac.Hub != nil {
		ac.Hub.Broadcast(websocket.NewMessage(websocket.MessageTypeAnnouncement, announcement))
	}
	config.Logger.Info("Announcement posted",
		zap.String("announcement_id", announcement.ID.String()),
		zap.String("priority", string(announcement.Priority)))
	return utils.RespondOK(c, fiber.StatusCreated, "Announcement created successfully", announcement)
}

func (ac *AnnouncementController) GetAnnouncementsController(c *fiber.Ctx) error {
	announcements, err := ac.AnnouncementRepo.GetAnnouncements(FeedLimit)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch announcements", err))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Announcements retrieved successfully", announcements)
}

func (ac *AnnouncementController) UpdateAnnouncementController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "announcement id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var req AnnouncementRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	if req.Priority == "" {
		req.Priority = string(models.NormalPriority)
	}

	announcement, err := ac.AnnouncementRepo.UpdateAnnouncement(id, map[string]interface{}{
		"title":    strings.TrimSpace(req.Title),
		"message":  strings.TrimSpace(req.Message),
		"priority": req.Priority,
	})
	if err != nil {
		return utils.RespondError(c, announcementError(err, "Failed to update announcement"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Announcement updated successfully", announcement)
}

func (ac *AnnouncementController) DeleteAnnouncementController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "announcement id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := ac.AnnouncementRepo.DeleteAnnouncement(id); err != nil {
		return utils.RespondError(c, announcementError(err, "Failed to delete announcement"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Announcement deleted successfully", nil)
}

func announcementError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("Announcement")
	}
	return utils.InternalError(message, err)
}
