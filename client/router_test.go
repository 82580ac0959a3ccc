package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	tenantID := "c0ffee00-0000-0000-0000-000000000001"
	cases := []struct {
		name     string
		identity Identity
		want     View
	}{
		{"logged out", nil, LoginView},
		{"admin", AdminSession{User: User{Username: "admin", Role: RoleAdmin}}, AdminDashboardView},
		{"tenant", TenantSession{User: User{Username: "asha", Role: RoleTenant, TenantID: &tenantID}, TenantID: tenantID}, TenantDashboardView},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Route(tc.identity))
		})
	}
}

func TestViewSections(t *testing.T) {
	assert.Empty(t, LoginView.Sections())
	assert.Contains(t, AdminDashboardView.Sections(), "payment-settings")
	assert.Contains(t, TenantDashboardView.Sections(), "profile")
	assert.NotContains(t, TenantDashboardView.Sections(), "buildings")
	assert.Equal(t, "tenant-dashboard", TenantDashboardView.String())
}
