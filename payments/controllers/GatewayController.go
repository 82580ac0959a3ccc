package controllers

import (
	"errors"

	bill_services "github.com/muhammedanshif/rentEase/bills/services"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/payments/services"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateOrderRequest struct {
	BillID string `json:"bill_id" validate:"required,uuid"`
}

type VerifyPaymentRequest struct {
	BillID        string `json:"bill_id" validate:"required,uuid"`
	OrderID       string `json:"order_id" validate:"required"`
	TransactionID string `json:"transaction_id" validate:"required"`
}

func (pc *PaymentController) CreateOrderController(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	billID := uuid.MustParse(req.BillID)

	bill, err := pc.BillService.Load(billID, actorFrom(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	if bill.Status == models.BillPaid {
		return utils.RespondError(c, utils.ConflictError("Bill is already paid"))
	}

	var tenant models.Tenant
	if err := pc.DB.First(&tenant, "id = ?", bill.TenantID).Error; err != nil {
		return utils.RespondError(c, notFoundOr(err, "Tenant", "Failed to load tenant"))
	}
	customer := services.Customer{
		Name:  tenant.FullName,
		Email: tenant.Email,
		Phone: utils.DerefString(tenant.Phone, ""),
	}

	order, err := pc.Gateway.CreateOrder(c.UserContext(), bill, customer)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := pc.BillService.AttachOrder(c.UserContext(), bill.ID, actorFrom(c), order.OrderID); err != nil {
		return utils.RespondError(c, err)
	}

	config.Logger.Info("Payment order created",
		zap.String("bill_id", bill.ID.String()),
		zap.String("order_id", order.OrderID),
		zap.Bool("mock", order.Mock))
	return utils.RespondOK(c, fiber.StatusOK, "Payment order created", order)
}

// VerifyPaymentController settles a bill once the gateway confirms the transaction.
func (pc *PaymentController) VerifyPaymentController(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	billID := uuid.MustParse(req.BillID)
	actor := actorFrom(c)

	bill, err := pc.BillService.Load(billID, actor)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if bill.PaymentOrderID == nil || *bill.PaymentOrderID != req.OrderID {
		return utils.RespondError(c, utils.ValidationError("Order does not belong to this bill"))
	}

	verification, err := pc.Gateway.VerifyPayment(c.UserContext(), req.OrderID, req.TransactionID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if !verification.Paid {
		config.Logger.Warn("Payment verification rejected",
			zap.String("bill_id", billID.String()),
			zap.String("order_id", req.OrderID),
			zap.String("gateway_status", verification.Status))
		return utils.RespondError(c, utils.ValidationError("Payment verification failed"))
	}

	bill, err = pc.BillService.ConfirmGatewayPayment(c.UserContext(), billID, actor, bill_services.GatewayPayment{
		OrderID:       req.OrderID,
		TransactionID: verification.TransactionID,
		Amount:        verification.GrossAmount,
	})
	if err != nil {
		return utils.RespondError(c, err)
	}

	pc.settle(c.UserContext(), bill)
	return utils.RespondOK(c, fiber.StatusOK, "Payment verified successfully", bill)
}

// NotificationController receives gateway callbacks. It answers 200 for
// anything it chooses to ignore so the gateway stops retrying.
func (pc *PaymentController) NotificationController(c *fiber.Ctx) error {
	var n services.Notification
	if err := c.BodyParser(&n); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid notification payload"))
	}
	if !pc.Gateway.VerifyNotification(n) {
		return utils.RespondError(c, utils.AuthError("Invalid signature"))
	}

	ignored := func(reason string) error {
		return utils.RespondOK(c, fiber.StatusOK, "Notification ignored", fiber.Map{"reason": reason})
	}
	if !n.Paid() {
		return ignored("transaction is " + n.TransactionStatus)
	}
	ordered, err := pc.BillService.FindByOrder(c.UserContext(), n.OrderID)
	if err != nil {
		if utils.AsAppError(err).Kind == utils.KindNotFound {
			return ignored("unknown order")
		}
		return utils.RespondError(c, err)
	}
	if ordered.Status == models.BillPaid {
		return ignored("bill already settled")
	}

	bill, err := pc.BillService.ConfirmGatewayPayment(c.UserContext(), ordered.ID, bill_services.System(), bill_services.GatewayPayment{
		OrderID:       n.OrderID,
		TransactionID: n.TransactionID,
		Amount:        n.Amount(),
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) && (appErr.Kind == utils.KindConflict || appErr.Kind == utils.KindValidation) {
			config.Logger.Warn("Gateway notification rejected",
				zap.String("order_id", n.OrderID),
				zap.String("reason", appErr.Message))
			return ignored(appErr.Message)
		}
		return utils.RespondError(c, err)
	}

	config.Logger.Info("Bill settled by gateway notification",
		zap.String("bill_id", bill.ID.String()),
		zap.String("order_id", n.OrderID))
	pc.settle(c.UserContext(), bill)
	return utils.RespondOK(c, fiber.StatusOK, "Notification processed", bill)
}
