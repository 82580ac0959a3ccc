package services

import (
	"context"
	"errors"

	"github.com/muhammedanshif/rentEase/bills/repositories"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ActorKind string

const (
	AdminActor  ActorKind = "admin"
	TenantActor ActorKind = "tenant"
	// SystemActor is the payment gateway acting through a signed callback.
	SystemActor ActorKind = "system"
)

// Actor is who is acting on a bill. The zero value may do nothing.
type Actor struct {
	Kind     ActorKind
	UserID   uuid.UUID
	TenantID *uuid.UUID
}

func AdminAs(userID uuid.UUID) Actor {
	return Actor{Kind: AdminActor, UserID: userID}
}

func TenantAs(userID, tenantID uuid.UUID) Actor {
	return Actor{Kind: TenantActor, UserID: userID, TenantID: &tenantID}
}

func System() Actor {
	return Actor{Kind: SystemActor}
}

// ActorFor maps a verified token role onto an Actor. Tenants without a
// resolved profile get the zero Actor.
func ActorFor(role string, userID uuid.UUID, tenantID *uuid.UUID) Actor {
	switch models.Role(role) {
	case models.AdminRole:
		return AdminAs(userID)
	case models.TenantRole:
		if tenantID != nil {
			return TenantAs(userID, *tenantID)
		}
	}
	return Actor{UserID: userID}
}

func (a Actor) IsAdmin() bool { return a.Kind == AdminActor }

func (a Actor) IsSystem() bool { return a.Kind == SystemActor }

// owns reports whether the actor may touch a bill of tenantID.
func (a Actor) owns(tenantID uuid.UUID) bool {
	switch a.Kind {
	case AdminActor, SystemActor:
		return true
	case TenantActor:
		return a.TenantID != nil && *a.TenantID == tenantID
	}
	return false
}

// BillService is the only place bill statuses change.
type BillService struct {
	Repo  repositories.BillRepository
	Today func() models.DateOnly
}

func NewBillService(repo repositories.BillRepository) *BillService {
	return &BillService{Repo: repo, Today: utils.Today}
}

// Load fetches a bill and enforces that tenants only see their own.
func (s *BillService) Load(id uuid.UUID, actor Actor) (*models.Bill, error) {
	bill, err := s.Repo.GetBillByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Bill")
		}
		return nil, utils.InternalError("Failed to load bill", err)
	}
	if !actor.owns(bill.TenantID) {
		return nil, utils.ForbiddenError("You can only access your own bills")
	}
	return bill, nil
}

func (s *BillService) apply(ctx context.Context, bill *models.Bill, tr *Transition) (*models.Bill, error) {
	if tr.To == models.BillPaid {
		if err := s.snapshotPayee(ctx, bill.ID, tr); err != nil {
			return nil, err
		}
	}

	ok, err := s.Repo.ApplyTransition(ctx, bill.ID, tr.From, tr.Updates)
	if err != nil {
		return nil, utils.InternalError("Failed to update bill", err)
	}
	if !ok {
		// Someone else moved the bill between our read and write.
		return nil, utils.ConflictError("Bill status changed, please reload")
	}

	updated, err := s.Repo.GetBillByID(bill.ID)
	if err != nil {
		return nil, utils.InternalError("Failed to reload bill", err)
	}
	config.Logger.Info("Bill status changed",
		zap.String("bill_id", bill.ID.String()),
		zap.String("from", string(bill.Status)),
		zap.String("to", string(updated.Status)),
	)
	return updated, nil
}

// snapshotPayee freezes who was billed so later room moves or deletions do
// not rewrite the receipt.
func (s *BillService) snapshotPayee(ctx context.Context, id uuid.UUID, tr *Transition) error {
	payee, err := s.Repo.GetPayee(ctx, id)
	if err != nil {
		return utils.InternalError("Failed to load bill payee", err)
	}
	tr.Updates["paid_tenant_name"] = payee.TenantName
	tr.Updates["paid_room_number"] = payee.RoomNumber
	tr.Updates["paid_building_name"] = payee.BuildingName
	return nil
}

func (s *BillService) UploadScreenshot(ctx context.Context, id uuid.UUID, actor Actor, path string) (*models.Bill, error) {
	bill, err := s.Load(id, actor)
	if err != nil {
		return nil, err
	}
	tr, err := PlanScreenshotUpload(bill, path)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, bill, tr)
}

func (s *BillService) Verify(ctx context.Context, id uuid.UUID, actor Actor) (*models.Bill, error) {
	if !actor.IsAdmin() {
		return nil, utils.ForbiddenError("Admin access required")
	}
	bill, err := s.Load(id, actor)
	if err != nil {
		return nil, err
	}
	tr, err := PlanVerify(bill, s.Today())
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, bill, tr)
}

func (s *BillService) RecordPayment(ctx context.Context, id uuid.UUID, actor Actor, reference *string) (*models.Bill, error) {
	if !actor.IsAdmin() {
		return nil, utils.ForbiddenError("Admin access required")
	}
	bill, err := s.Load(id, actor)
	if err != nil {
		return nil, err
	}
	tr, err := PlanRecordPayment(bill, s.Today(), reference)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, bill, tr)
}

// MarkPaidByTenant confirms the tenant's payment request and leaves the bill
// awaiting admin approval.
func (s *BillService) MarkPaidByTenant(ctx context.Context, id uuid.UUID, actor Actor) (*models.Bill, error) {
	bill, err := s.Load(id, actor)
	if err != nil {
		return nil, err
	}
	if err := CheckTenantMarkPaid(bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// GatewayPayment is a settled transaction as reported by the payment gateway.
type GatewayPayment struct {
	OrderID       string
	TransactionID string
	Amount        decimal.Decimal
}

// AttachOrder ties a freshly created gateway order to the bill it pays.
func (s *BillService) AttachOrder(ctx context.Context, id uuid.UUID, actor Actor, orderID string) error {
	if _, err := s.Load(id, actor); err != nil {
		return err
	}
	ok, err := s.Repo.SetPaymentOrder(ctx, id, orderID)
	if err != nil {
		return utils.InternalError("Failed to record payment order", err)
	}
	if !ok {
		return utils.ConflictError("Bill is already paid")
	}
	return nil
}

// FindByOrder resolves the bill a gateway order was created for.
func (s *BillService) FindByOrder(ctx context.Context, orderID string) (*models.Bill, error) {
	bill, err := s.Repo.GetBillByPaymentOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Payment order")
		}
		return nil, utils.InternalError("Failed to load payment order", err)
	}
	return bill, nil
}

// ConfirmGatewayPayment settles a bill with a gateway transaction. The order
// must be the one created for this bill, the amount must match, and the
// transaction must not already settle another bill.
func (s *BillService) ConfirmGatewayPayment(ctx context.Context, id uuid.UUID, actor Actor, p GatewayPayment) (*models.Bill, error) {
	bill, err := s.Load(id, actor)
	if err != nil {
		return nil, err
	}
	if bill.Status == models.BillPaid {
		return nil, utils.ConflictError("Bill is already %s", bill.Status)
	}
	if bill.PaymentOrderID == nil || *bill.PaymentOrderID != p.OrderID {
		return nil, utils.ValidationError("Order does not belong to this bill")
	}
	if !AmountSettles(bill.Amount, p.Amount) {
		config.Logger.Warn("Gateway amount mismatch",
			zap.String("bill_id", bill.ID.String()),
			zap.String("bill_amount", bill.Amount.StringFixed(2)),
			zap.String("paid_amount", p.Amount.StringFixed(2)))
		return nil, utils.ValidationError("Paid amount does not match the bill")
	}
	taken, err := s.Repo.ReferenceTaken(ctx, p.TransactionID, bill.ID)
	if err != nil {
		return nil, utils.InternalError("Failed to check payment reference", err)
	}
	if taken {
		return nil, utils.ConflictError("Transaction already settled another bill")
	}

	tr, err := PlanGatewayPayment(bill, s.Today(), p.TransactionID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, bill, tr)
}

// AmountSettles compares in whole units since the gateway charges rounded amounts.
func AmountSettles(billed, paid decimal.Decimal) bool {
	return billed.Round(0).Equal(paid.Round(0))
}

func (s *BillService) Receipt(ctx context.Context, id uuid.UUID, actor Actor) (*Receipt, error) {
	bill, err := s.Load(id, actor)
	if err != nil {
		return nil, err
	}
	return BuildReceipt(bill)
}
