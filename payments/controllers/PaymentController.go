package controllers

import (
	"context"
	"errors"

	bill_services "github.com/muhammedanshif/rentEase/bills/services"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/middleware"
	"github.com/muhammedanshif/rentEase/payments/repositories"
	"github.com/muhammedanshif/rentEase/payments/services"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentController struct {
	SettingsRepo repositories.PaymentSettingsRepository
	Gateway      services.Gateway
	BillService  *bill_services.BillService
	DB           *gorm.DB
	Storage      utils.FileStorage
	// OnPaid runs the bill side effects (email task, websocket, cache).
	OnPaid func(ctx context.Context, bill *models.Bill)
}

func actorFrom(c *fiber.Ctx) bill_services.Actor {
	payload := middleware.CurrentUser(c)
	if payload == nil {
		return bill_services.Actor{}
	}
	return bill_services.ActorFor(payload.Role, payload.UserID, middleware.CurrentTenantID(c))
}

func (pc *PaymentController) settle(ctx context.Context, bill *models.Bill) {
	if pc.OnPaid != nil {
		pc.OnPaid(ctx, bill)
	}
}

func notFoundOr(err error, resource, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError(resource)
	}
	return utils.InternalError(message, err)
}
