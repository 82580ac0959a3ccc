package repositories

import (
	"fmt"

	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalBuildings   int64           `json:"total_buildings"`
	TotalRooms       int64           `json:"total_rooms"`
	OccupiedRooms    int64           `json:"occupied_rooms"`
	VacantRooms      int64           `json:"vacant_rooms"`
	TotalTenants     int64           `json:"total_tenants"`
	PendingBills     int64           `json:"pending_bills"`
	PendingApproval  int64           `json:"pending_approval"`
	OverdueBills     int64           `json:"overdue_bills"`
	OpenComplaints   int64           `json:"open_complaints"`
	BillingMonth     string          `json:"billing_month"`
	MonthlyRevenue   decimal.Decimal `json:"monthly_revenue"`
	CollectedRevenue decimal.Decimal `json:"collected_revenue"`
}

type StatsRepository interface {
	GetStats(today models.DateOnly, billingMonth string) (*DashboardStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetStats(today models.DateOnly, billingMonth string) (*DashboardStats, error) {
	stats := &DashboardStats{BillingMonth: billingMonth}

	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&stats.TotalBuildings, r.db.Model(&models.Building{})},
		{&stats.TotalRooms, r.db.Model(&models.Room{})},
		{&stats.OccupiedRooms, r.db.Model(&models.Tenant{}).Where("room_id IS NOT NULL")},
		{&stats.TotalTenants, r.db.Model(&models.Tenant{})},
		{&stats.PendingBills, r.db.Model(&models.Bill{}).Where("status = ? AND due_date >= ?", models.BillPending, today)},
		{&stats.PendingApproval, r.db.Model(&models.Bill{}).Where("status = ?", models.BillPendingApproval)},
		{&stats.OverdueBills, r.db.Model(&models.Bill{}).Where("status = ? AND due_date < ?", models.BillPending, today)},
		{&stats.OpenComplaints, r.db.Model(&models.Complaint{}).Where("status = ?", models.ComplaintOpen)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("failed to count dashboard stats: %w", err)
		}
	}
	stats.VacantRooms = stats.TotalRooms - stats.OccupiedRooms

	rent := r.db.Model(&models.Bill{}).Where("billing_month = ? AND bill_type = ?", billingMonth, models.RentBill)
	if err := sumAmount(rent, &stats.MonthlyRevenue); err != nil {
		return nil, err
	}
	collected := r.db.Model(&models.Bill{}).Where("billing_month = ? AND bill_type = ? AND status = ?", billingMonth, models.RentBill, models.BillPaid)
	if err := sumAmount(collected, &stats.CollectedRevenue); err != nil {
		return nil, err
	}
	return stats, nil
}

func sumAmount(query *gorm.DB, target *decimal.Decimal) error {
	var total decimal.NullDecimal
	if err := query.Select("SUM(amount)").Row().Scan(&total); err != nil {
		return fmt.Errorf("failed to sum bill amounts: %w", err)
	}
	if total.Valid {
		*target = total.Decimal
	} else {
		*target = decimal.Zero
	}
	return nil
}
