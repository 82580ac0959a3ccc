package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillType string

const (
	RentBill        BillType = "rent"
	ElectricityBill BillType = "electricity"
	WaterBill       BillType = "water"
	MaintenanceBill BillType = "maintenance"
	OtherBill       BillType = "other"
)

// BillStatus is what gets stored. Overdue is derived on read and never persisted.
type BillStatus string

const (
	BillPending         BillStatus = "pending"
	BillPendingApproval BillStatus = "pending_approval"
	BillPaid            BillStatus = "paid"
	BillOverdue         BillStatus = "overdue"
)

type Bill struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	TenantID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Tenant            *Tenant         `gorm:"foreignKey:TenantID" json:"-"`
	BillType          BillType        `gorm:"type:varchar(20);not null" json:"bill_type"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	BillingMonth      string          `gorm:"type:varchar(7);not null;index" json:"billing_month"`
	DueDate           DateOnly        `gorm:"type:date;not null" json:"due_date"`
	Notes             *string         `gorm:"type:text" json:"notes"`
	Status            BillStatus      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentScreenshot *string         `json:"payment_screenshot"`
	PaymentReference  *string         `json:"payment_reference"`
	PaidDate          *DateOnly       `gorm:"type:date" json:"paid_date"`
	PaymentOrderID    *string         `gorm:"type:varchar(64);index" json:"payment_order_id"`
	RentPeriodKey     *string         `gorm:"uniqueIndex" json:"-"`

	// Taken when the bill is paid; receipts read only these.
	PaidTenantName   *string `gorm:"type:varchar(100)" json:"-"`
	PaidRoomNumber   *string `gorm:"type:varchar(20)" json:"-"`
	PaidBuildingName *string `gorm:"type:varchar(100)" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TenantName *string `gorm:"-" json:"tenant_name"`
	RoomNumber *string `gorm:"-" json:"room_number"`
	IsOverdue  bool    `gorm:"-" json:"is_overdue"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// RentPeriodKeyFor identifies the single rent bill a tenant may have per billing month.
func RentPeriodKeyFor(tenantID uuid.UUID, billingMonth string) string {
	return fmt.Sprintf("%s:%s", tenantID, billingMonth)
}

// DisplayStatus folds the derived overdue state into the stored status.
func (b *Bill) DisplayStatus(today DateOnly) BillStatus {
	if b.Status == BillPending && b.DueDate.Before(today) {
		return BillOverdue
	}
	return b.Status
}

func (b *Bill) ReceiptNumber() string {
	return "REC-" + strings.ToUpper(strings.ReplaceAll(b.ID.String(), "-", "")[:8])
}

func IsValidBillType(t BillType) bool {
	switch t {
	case RentBill, ElectricityBill, WaterBill, MaintenanceBill, OtherBill:
		return true
	}
	return false
}
