package client

type View int

const (
	LoginView View = iota
	AdminDashboardView
	TenantDashboardView
)

func (v View) String() string {
	switch v {
	case AdminDashboardView:
		return "admin-dashboard"
	case TenantDashboardView:
		return "tenant-dashboard"
	}
	return "login"
}

// Sections lists the dashboard sections a view offers.
func (v View) Sections() []string {
	switch v {
	case AdminDashboardView:
		return []string{"overview", "buildings", "rooms", "tenants", "bills", "complaints", "announcements", "emergency", "payment-settings"}
	case TenantDashboardView:
		return []string{"overview", "profile", "bills", "complaints", "announcements", "emergency"}
	}
	return nil
}

// Route picks the view for the current identity. A nil identity is logged out.
func Route(identity Identity) View {
	switch identity.(type) {
	case AdminSession:
		return AdminDashboardView
	case TenantSession:
		return TenantDashboardView
	default:
		return LoginView
	}
}
