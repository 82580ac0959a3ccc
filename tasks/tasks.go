package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/muhammedanshif/rentEase/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypePaymentReceivedEmail = "email:payment_received"
	TypeComplaintUpdateEmail = "email:complaint_update"
	TypeGenerateRent         = "bills:generate_rent"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type PaymentReceivedPayload struct {
	BillID uuid.UUID `json:"bill_id"`
}

type ComplaintUpdatePayload struct {
	ComplaintID uuid.UUID `json:"complaint_id"`
}

type GenerateRentPayload struct {
	BillingMonth string `json:"billing_month"`
}

func NewPaymentReceivedTask(billID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(PaymentReceivedPayload{BillID: billID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment task: %w", err)
	}
	return asynq.NewTask(TypePaymentReceivedEmail, payload, asynq.MaxRetry(5)), nil
}

func NewComplaintUpdateTask(complaintID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(ComplaintUpdatePayload{ComplaintID: complaintID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode complaint task: %w", err)
	}
	return asynq.NewTask(TypeComplaintUpdateEmail, payload, asynq.MaxRetry(5)), nil
}

func NewGenerateRentTask(billingMonth string) (*asynq.Task, error) {
	payload, err := json.Marshal(GenerateRentPayload{BillingMonth: billingMonth})
	if err != nil {
		return nil, fmt.Errorf("failed to encode rent task: %w", err)
	}
	return asynq.NewTask(TypeGenerateRent, payload), nil
}

// EnqueuePaymentReceived is fire and forget. A nil queue is a no-op.
func EnqueuePaymentReceived(q Enqueuer, billID uuid.UUID) {
	if q == nil {
		return
	}
	task, err := NewPaymentReceivedTask(billID)
	if err == nil {
		_, err = q.Enqueue(task)
	}
	if err != nil {
		config.Logger.Error("Failed to enqueue payment email", zap.String("bill_id", billID.String()), zap.Error(err))
	}
}

func EnqueueComplaintUpdate(q Enqueuer, complaintID uuid.UUID) {
	if q == nil {
		return
	}
	task, err := NewComplaintUpdateTask(complaintID)
	if err == nil {
		_, err = q.Enqueue(task)
	}
	if err != nil {
		config.Logger.Error("Failed to enqueue complaint email", zap.String("complaint_id", complaintID.String()), zap.Error(err))
	}
}
