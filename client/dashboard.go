package client

import "context"

type DashboardStats struct {
	TotalBuildings   int64  `json:"total_buildings"`
	TotalRooms       int64  `json:"total_rooms"`
	OccupiedRooms    int64  `json:"occupied_rooms"`
	VacantRooms      int64  `json:"vacant_rooms"`
	TotalTenants     int64  `json:"total_tenants"`
	PendingBills     int64  `json:"pending_bills"`
	PendingApproval  int64  `json:"pending_approval"`
	OverdueBills     int64  `json:"overdue_bills"`
	OpenComplaints   int64  `json:"open_complaints"`
	BillingMonth     string `json:"billing_month"`
	MonthlyRevenue   string `json:"monthly_revenue"`
	CollectedRevenue string `json:"collected_revenue"`
}

// FetchStats loads the admin overview numbers.
func FetchStats(ctx context.Context, api *APIClient) (*DashboardStats, error) {
	var stats DashboardStats
	if _, err := api.Get(ctx, "/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
