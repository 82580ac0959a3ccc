package controllers

import (
	"context"

	"github.com/muhammedanshif/rentEase/bills/repositories"
	"github.com/muhammedanshif/rentEase/bills/services"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/tasks"
	"github.com/muhammedanshif/rentEase/utils"
	"github.com/muhammedanshif/rentEase/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BillController struct {
	BillRepo    repositories.BillRepository
	DB          *gorm.DB
	Service     *services.BillService
	Generator   *services.RentGenerator
	Storage     utils.FileStorage
	Queue       tasks.Enqueuer
	Hub         websocket.Publisher
	RedisClient *redis.Client
	// RenderPDF defaults to utils.RenderPDF.
	RenderPDF func(ctx context.Context, html string) ([]byte, error)
}

func actorFrom(c *fiber.Ctx) services.Actor {
	payload := middleware.CurrentUser(c)
	if payload == nil {
		return services.Actor{}
	}
	return services.ActorFor(payload.Role, payload.UserID, middleware.CurrentTenantID(c))
}

// present folds the derived overdue state into what the client sees.
func present(b *models.Bill, today models.DateOnly) {
	b.IsOverdue = b.Status == models.BillPending && b.DueDate.Before(today)
	b.Status = b.DisplayStatus(today)
}

func (bc *BillController) invalidateDashboard(c *fiber.Ctx) {
	utils.InvalidateCacheQuietly(c.UserContext(), bc.RedisClient, utils.DashboardCache)
}

// publishStatus tells the tenant (and admins) that a bill moved.
func (bc *BillController) publishStatus(bill *models.Bill) {
	if bc.Hub == nil {
		return
	}
	msg := websocketBillMessage(bill)

	var tenant models.Tenant
	if err := bc.DB.Select("id", "user_id").First(&tenant, "id = ?", bill.TenantID).Error; err != nil {
		config.Logger.Warn("Could not resolve tenant for bill event", zap.String("bill_id", bill.ID.String()), zap.Error(err))
	} else {
		bc.Hub.SendToUser(tenant.UserID, msg)
	}
	bc.Hub.SendToRole(string(models.AdminRole), msg)
}

// AfterPaid runs the side effects of a bill reaching paid. The payment
// gateway controller calls it too.
func (bc *BillController) AfterPaid(ctx context.Context, bill *models.Bill) {
	tasks.EnqueuePaymentReceived(bc.Queue, bill.ID)
	bc.publishStatus(bill)
	utils.InvalidateCacheQuietly(ctx, bc.RedisClient, utils.DashboardCache)
}

func websocketBillMessage(bill *models.Bill) websocket.WebSocketMessage {
	return websocket.NewMessage(websocket.MessageTypeBillStatus, fiber.Map{
		"bill_id":       bill.ID,
		"status":        bill.Status,
		"billing_month": bill.BillingMonth,
		"bill_type":     bill.BillType,
	})
}
