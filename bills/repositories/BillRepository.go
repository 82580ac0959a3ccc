package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillFilters narrows a bill listing. Zero values mean "any".
type BillFilters struct {
	TenantID     *uuid.UUID
	Status       models.BillStatus
	BillingMonth string
	BillType     models.BillType
	Today        models.DateOnly
}

// Payee is who a bill is for at the moment it gets paid. Blank fields mean
// the tenant had no room (or the room no building) at that time.
type Payee struct {
	TenantName   string
	RoomNumber   string
	BuildingName string
}

type BillRepository interface {
	CreateBill(tx *gorm.DB, bill *models.Bill) error
	CreateRentBillIfAbsent(tx *gorm.DB, bill *models.Bill) (bool, error)
	RentBillExists(tx *gorm.DB, tenantID uuid.UUID, billingMonth string) (bool, error)
	GetBillByID(id uuid.UUID) (*models.Bill, error)
	GetBills(filters BillFilters) ([]models.Bill, error)
	ApplyTransition(ctx context.Context, id uuid.UUID, from []models.BillStatus, updates map[string]interface{}) (bool, error)
	DeleteBill(id uuid.UUID) error
	GetPayee(ctx context.Context, id uuid.UUID) (*Payee, error)
	SetPaymentOrder(ctx context.Context, id uuid.UUID, orderID string) (bool, error)
	GetBillByPaymentOrder(ctx context.Context, orderID string) (*models.Bill, error)
	ReferenceTaken(ctx context.Context, reference string, exceptID uuid.UUID) (bool, error)
}

type billRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) CreateBill(tx *gorm.DB, bill *models.Bill) error {
	if err := tx.Create(bill).Error; err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// CreateRentBillIfAbsent inserts a rent bill unless its period key is taken.
// It reports whether a row was written.
func (r *billRepository) CreateRentBillIfAbsent(tx *gorm.DB, bill *models.Bill) (bool, error) {
	key := models.RentPeriodKeyFor(bill.TenantID, bill.BillingMonth)
	bill.RentPeriodKey = &key

	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rent_period_key"}},
		DoNothing: true,
	}).Create(bill)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create rent bill: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *billRepository) RentBillExists(tx *gorm.DB, tenantID uuid.UUID, billingMonth string) (bool, error) {
	var count int64
	err := tx.Model(&models.Bill{}).
		Where("tenant_id = ? AND bill_type = ? AND billing_month = ?", tenantID, models.RentBill, billingMonth).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check rent bill: %w", err)
	}
	return count > 0, nil
}

func (r *billRepository) GetBillByID(id uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	if err := r.db.First(&bill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) GetBills(filters BillFilters) ([]models.Bill, error) {
	query := r.db.Model(&models.Bill{})

	if filters.TenantID != nil {
		query = query.Where("tenant_id = ?", *filters.TenantID)
	}
	if filters.BillingMonth != "" {
		query = query.Where("billing_month = ?", filters.BillingMonth)
	}
	if filters.BillType != "" {
		query = query.Where("bill_type = ?", filters.BillType)
	}
	switch filters.Status {
	case "":
	case models.BillOverdue:
		query = query.Where("status = ? AND due_date < ?", models.BillPending, filters.Today)
	case models.BillPending:
		query = query.Where("status = ? AND due_date >= ?", models.BillPending, filters.Today)
	default:
		query = query.Where("status = ?", filters.Status)
	}

	var bills []models.Bill
	if err := query.Order("due_date DESC, created_at DESC").Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	if err := r.attachTenantNames(bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *billRepository) attachTenantNames(bills []models.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(bills))
	seen := make(map[uuid.UUID]bool)
	for _, b := range bills {
		if !seen[b.TenantID] {
			seen[b.TenantID] = true
			ids = append(ids, b.TenantID)
		}
	}

	var tenants []models.Tenant
	if err := r.db.Preload("Room").Where("id IN ?", ids).Find(&tenants).Error; err != nil {
		return fmt.Errorf("failed to load bill tenants: %w", err)
	}
	byID := make(map[uuid.UUID]models.Tenant, len(tenants))
	for _, t := range tenants {
		byID[t.ID] = t
	}

	for i := range bills {
		t, ok := byID[bills[i].TenantID]
		if !ok {
			continue
		}
		name := t.FullName
		bills[i].TenantName = &name
		if t.Room != nil {
			number := t.Room.RoomNumber
			bills[i].RoomNumber = &number
		}
	}
	return nil
}

// ApplyTransition is a compare-and-set on status so two racing requests cannot
// both move the same bill.
func (r *billRepository) ApplyTransition(ctx context.Context, id uuid.UUID, from []models.BillStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Bill{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update bill: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *billRepository) DeleteBill(id uuid.UUID) error {
	result := r.db.Delete(&models.Bill{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete bill: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *billRepository) GetPayee(ctx context.Context, id uuid.UUID) (*Payee, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Preload("Tenant").Preload("Tenant.Room").
		First(&bill, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	payee := &Payee{}
	if bill.Tenant == nil {
		return payee, nil
	}
	payee.TenantName = bill.Tenant.FullName
	if bill.Tenant.Room == nil {
		return payee, nil
	}
	payee.RoomNumber = bill.Tenant.Room.RoomNumber

	var building models.Building
	err = r.db.WithContext(ctx).Select("name").First(&building, "id = ?", bill.Tenant.Room.BuildingID).Error
	switch {
	case err == nil:
		payee.BuildingName = building.Name
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load building: %w", err)
	}
	return payee, nil
}

// SetPaymentOrder records the gateway order a bill is being paid with. A newer
// order replaces an older one; paid bills are left alone.
func (r *billRepository) SetPaymentOrder(ctx context.Context, id uuid.UUID, orderID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Bill{}).
		Where("id = ? AND status IN ?", id, []models.BillStatus{models.BillPending, models.BillPendingApproval}).
		Update("payment_order_id", orderID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to record payment order: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *billRepository) GetBillByPaymentOrder(ctx context.Context, orderID string) (*models.Bill, error) {
	var bill models.Bill
	if err := r.db.WithContext(ctx).First(&bill, "payment_order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

// ReferenceTaken reports whether another bill already carries reference.
func (r *billRepository) ReferenceTaken(ctx context.Context, reference string, exceptID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bill{}).
		Where("payment_reference = ? AND id <> ?", reference, exceptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check payment reference: %w", err)
	}
	return count > 0, nil
}
