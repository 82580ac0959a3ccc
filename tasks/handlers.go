package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	bill_services "github.com/muhammedanshif/rentEase/bills/services"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MailFunc matches utils.SendEmail.
type MailFunc func(to, subject, plainBody, htmlBody string) error

type TaskHandlers struct {
	DB        *gorm.DB
	Generator *bill_services.RentGenerator
	Mail      MailFunc
}

func (h *TaskHandlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePaymentReceivedEmail, h.HandlePaymentReceived)
	mux.HandleFunc(TypeComplaintUpdateEmail, h.HandleComplaintUpdate)
	mux.HandleFunc(TypeGenerateRent, h.HandleGenerateRent)
}

func (h *TaskHandlers) HandlePaymentReceived(ctx context.Context, t *asynq.Task) error {
	var p PaymentReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	var bill models.Bill
	if err := h.DB.WithContext(ctx).Preload("Tenant").First(&bill, "id = ?", p.BillID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Bill deleted before the worker got to it.
			return nil
		}
		return fmt.Errorf("failed to load bill: %w", err)
	}
	if bill.Tenant == nil {
		return nil
	}

	label := bill_services.BillTypeLabel(bill.BillType)
	subject := fmt.Sprintf("Payment received: %s %s", label, bill.BillingMonth)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour payment of %s for %s (%s) has been received.\nReceipt number: %s\n\nRentEase",
		bill.Tenant.FullName, bill.Amount.StringFixed(2), label, bill.BillingMonth, bill.ReceiptNumber(),
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your payment of <b>%s</b> for %s (%s) has been received.</p><p>Receipt number: %s</p>",
		bill.Tenant.FullName, bill.Amount.StringFixed(2), label, bill.BillingMonth, bill.ReceiptNumber(),
	)

	recipients := []string{bill.Tenant.Email}
	var admins []models.User
	if err := h.DB.WithContext(ctx).Where("role = ?", models.AdminRole).Find(&admins).Error; err != nil {
		return fmt.Errorf("failed to load admins: %w", err)
	}
	for _, a := range admins {
		recipients = append(recipients, a.Email)
	}

	return h.send(recipients, subject, plain, html)
}

func (h *TaskHandlers) HandleComplaintUpdate(ctx context.Context, t *asynq.Task) error {
	var p ComplaintUpdatePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	var complaint models.Complaint
	if err := h.DB.WithContext(ctx).Preload("Tenant").First(&complaint, "id = ?", p.ComplaintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load complaint: %w", err)
	}
	if complaint.Tenant == nil {
		return nil
	}

	reply := ""
	if complaint.AdminReply != nil {
		reply = *complaint.AdminReply
	}
	subject := fmt.Sprintf("Complaint update: %s", complaint.Subject)
	plain := fmt.Sprintf("Hello %s,\n\nYour complaint \"%s\" is now %s.\n\n%s\n\nRentEase",
		complaint.Tenant.FullName, complaint.Subject, complaint.Status, reply)
	html := fmt.Sprintf("<p>Hello %s,</p><p>Your complaint <b>%s</b> is now %s.</p><p>%s</p>",
		complaint.Tenant.FullName, complaint.Subject, complaint.Status, reply)

	return h.send([]string{complaint.Tenant.Email}, subject, plain, html)
}

func (h *TaskHandlers) HandleGenerateRent(ctx context.Context, t *asynq.Task) error {
	var p GenerateRentPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}
	result, err := h.Generator.Generate(ctx, p.BillingMonth)
	if err != nil {
		return err
	}
	config.Logger.Info("Scheduled rent generation finished",
		zap.String("billing_month", result.BillingMonth),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return nil
}

func (h *TaskHandlers) send(recipients []string, subject, plain, html string) error {
	if h.Mail == nil {
		config.Logger.Debug("Mailer not configured, skipping email", zap.String("subject", subject))
		return nil
	}
	var firstErr error
	for _, to := range recipients {
		if to == "" {
			continue
		}
		if err := h.Mail(to, subject, plain, html); err != nil {
			config.Logger.Error("Failed to send email", zap.String("to", to), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
