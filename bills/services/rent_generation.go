package services

import (
	"context"
	"fmt"

	"github.com/muhammedanshif/rentEase/bills/repositories"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultRentDueDay is the day of the month rent falls due.
const DefaultRentDueDay = 6

type RentGenerationResult struct {
	BillingMonth string        `json:"billing_month"`
	Created      int           `json:"created"`
	Skipped      int           `json:"skipped"`
	Bills        []models.Bill `json:"bills"`
}

type RentGenerator struct {
	DB       *gorm.DB
	BillRepo repositories.BillRepository
	DueDay   int
}

func NewRentGenerator(db *gorm.DB, billRepo repositories.BillRepository, dueDay int) *RentGenerator {
	if dueDay < 1 || dueDay > 28 {
		dueDay = DefaultRentDueDay
	}
	return &RentGenerator{DB: db, BillRepo: billRepo, DueDay: dueDay}
}

type occupiedRoom struct {
	TenantID   uuid.UUID
	RentAmount decimal.Decimal
}

// Generate creates one rent bill per occupied room for billingMonth. Running it
// again for the same month creates nothing new.
func (g *RentGenerator) Generate(ctx context.Context, billingMonth string) (*RentGenerationResult, error) {
	if billingMonth == "" {
		billingMonth = utils.CurrentBillingMonth()
	}
	period, err := utils.ParseBillingMonth(billingMonth)
	if err != nil {
		return nil, utils.ValidationError("Billing month must be formatted as YYYY-MM")
	}
	dueDate := utils.DueDateFor(period, g.DueDay)

	result := &RentGenerationResult{BillingMonth: billingMonth, Bills: []models.Bill{}}

	err = g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var occupied []occupiedRoom
		if err := tx.Table("tenants").
			Select("tenants.id AS tenant_id, rooms.rent_amount AS rent_amount").
			Joins("JOIN rooms ON rooms.id = tenants.room_id").
			Scan(&occupied).Error; err != nil {
			return fmt.Errorf("failed to load occupied rooms: %w", err)
		}

		for _, o := range occupied {
			exists, err := g.BillRepo.RentBillExists(tx, o.TenantID, billingMonth)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}

			bill := models.Bill{
				TenantID:     o.TenantID,
				BillType:     models.RentBill,
				Amount:       o.RentAmount,
				BillingMonth: billingMonth,
				DueDate:      dueDate,
				Status:       models.BillPending,
			}
			created, err := g.BillRepo.CreateRentBillIfAbsent(tx, &bill)
			if err != nil {
				return err
			}
			if !created {
				result.Skipped++
				continue
			}
			result.Created++
			result.Bills = append(result.Bills, bill)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Rent bills generated",
		zap.String("billing_month", billingMonth),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
