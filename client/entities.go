package client

import (
	"context"
	"net/url"
	"sync"

	"github.com/muhammedanshif/rentEase/db/models"
)

func NewBuildingsManager(api *APIClient, notifier *Notifier) *Manager[models.Building] {
	return NewManager[models.Building](api, notifier, Resource{
		Path:     "/buildings",
		Label:    "Building",
		Required: []string{"name", "address"},
	})
}

func NewAnnouncementsManager(api *APIClient, notifier *Notifier) *Manager[models.Announcement] {
	return NewManager[models.Announcement](api, notifier, Resource{
		Path:     "/announcements",
		Label:    "Announcement",
		Required: []string{"title", "message"},
	})
}

func NewEmergencyContactsManager(api *APIClient, notifier *Notifier) *Manager[models.EmergencyContact] {
	return NewManager[models.EmergencyContact](api, notifier, Resource{
		Path:     "/emergency-contacts",
		Label:    "Emergency contact",
		Required: []string{"service_type", "phone_number"},
	})
}

// RoomsManager refuses to delete occupied rooms before asking the server.
type RoomsManager struct {
	*Manager[models.Room]
}

func NewRoomsManager(api *APIClient, notifier *Notifier) *RoomsManager {
	return &RoomsManager{NewManager[models.Room](api, notifier, Resource{
		Path:     "/rooms",
		Label:    "Room",
		Required: []string{"building_id", "room_number", "room_type", "rent_amount"},
	})}
}

// SetBuildingFilter narrows List to one building; "" shows every room.
func (m *RoomsManager) SetBuildingFilter(buildingID string) {
	m.SetQuery("building_id", buildingID)
}

func (m *RoomsManager) Delete(ctx context.Context, id string, confirm Confirmer) error {
	for _, room := range m.Items() {
		if room.ID.String() == id && room.Status == models.RoomOccupied {
			return m.fail(&ValidationError{Field: "room", Message: "Cannot delete an occupied room. Remove the tenant first."})
		}
	}
	return m.Manager.Delete(ctx, id, confirm)
}

func (m *RoomsManager) UploadPhotos(ctx context.Context, id string, photos []File) error {
	return m.mutation(ctx, func() (string, error) {
		return m.api.Upload(ctx, m.itemPath(id)+"/photos", "photos", photos, nil)
	})
}

type TenantSearchHit struct {
	ID           string  `json:"id"`
	Score        float64 `json:"score"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	RoomNumber   string  `json:"room_number"`
	BuildingName string  `json:"building_name"`
}

type TenantDocument struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type TenantDocuments struct {
	Photo     *TenantDocument  `json:"photo"`
	Documents []TenantDocument `json:"documents"`
}

type TenantsManager struct {
	*Manager[models.Tenant]
}

func NewTenantsManager(api *APIClient, notifier *Notifier) *TenantsManager {
	return &TenantsManager{NewManager[models.Tenant](api, notifier, Resource{
		Path:     "/tenants",
		Label:    "Tenant",
		Required: []string{"full_name", "email"},
	})}
}

// Create also needs the login credentials, which cannot be changed later.
func (m *TenantsManager) Create(ctx context.Context, fields Fields) error {
	if err := checkRequired(fields, []string{"username", "password"}); err != nil {
		return m.fail(err)
	}
	return m.Manager.Create(ctx, fields)
}

func (m *TenantsManager) AssignPhoto(ctx context.Context, id string, photo File) error {
	return m.mutation(ctx, func() (string, error) {
		return m.api.Upload(ctx, m.itemPath(id)+"/photo", "photo", []File{photo}, nil)
	})
}

// AssignDocuments adds to the tenant's existing documents.
func (m *TenantsManager) AssignDocuments(ctx context.Context, id string, documents []File) error {
	return m.mutation(ctx, func() (string, error) {
		return m.api.Upload(ctx, m.itemPath(id)+"/documents", "documents", documents, nil)
	})
}

func (m *TenantsManager) Search(ctx context.Context, q string) ([]TenantSearchHit, error) {
	if q == "" {
		return nil, m.fail(&ValidationError{Field: "q", Message: "Enter something to search for"})
	}
	var hits []TenantSearchHit
	if _, err := m.api.Get(ctx, "/tenants/search?q="+url.QueryEscape(q), &hits); err != nil {
		return nil, m.fail(err)
	}
	return hits, nil
}

// MyProfile is the tenant's own record.
func (m *TenantsManager) MyProfile(ctx context.Context) (*models.Tenant, error) {
	var tenant models.Tenant
	if _, err := m.api.Get(ctx, "/tenant/my-profile", &tenant); err != nil {
		return nil, m.fail(err)
	}
	return &tenant, nil
}

func (m *TenantsManager) MyDocuments(ctx context.Context) (*TenantDocuments, error) {
	var docs TenantDocuments
	if _, err := m.api.Get(ctx, "/tenant/my-documents", &docs); err != nil {
		return nil, m.fail(err)
	}
	return &docs, nil
}

type ComplaintsManager struct {
	*Manager[models.Complaint]
}

func NewComplaintsManager(api *APIClient, notifier *Notifier) *ComplaintsManager {
	return &ComplaintsManager{NewManager[models.Complaint](api, notifier, Resource{
		Path:     "/complaints",
		Label:    "Complaint",
		Required: []string{"subject", "description"},
	})}
}

// Submit files a complaint as the logged in tenant.
func (m *ComplaintsManager) Submit(ctx context.Context, fields Fields) error {
	return m.Manager.Create(ctx, fields)
}

// Reply sets the reply and the status together.
func (m *ComplaintsManager) Reply(ctx context.Context, id, reply string, status models.ComplaintStatus) error {
	if reply == "" {
		return m.fail(&ValidationError{Field: "reply", Message: "Please fill in reply"})
	}
	return m.mutation(ctx, func() (string, error) {
		return m.api.Put(ctx, m.itemPath(id)+"/reply", Fields{"reply": reply, "status": status}, nil)
	})
}

func (m *ComplaintsManager) Close(ctx context.Context, id string) error {
	return m.mutation(ctx, func() (string, error) {
		return m.api.Put(ctx, m.itemPath(id)+"/close", nil, nil)
	})
}

// PaymentSettingsManager holds the single settings row.
type PaymentSettingsManager struct {
	api      *APIClient
	notifier *Notifier

	mu       sync.Mutex
	settings *models.PaymentSettings
}

func NewPaymentSettingsManager(api *APIClient, notifier *Notifier) *PaymentSettingsManager {
	return &PaymentSettingsManager{api: api, notifier: notifier}
}

func (m *PaymentSettingsManager) Settings() *models.PaymentSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return nil
	}
	copied := *m.settings
	return &copied
}

// QRCodeURL is where the uploaded QR image can be fetched.
func (m *PaymentSettingsManager) QRCodeURL() string {
	s := m.Settings()
	if s == nil || s.UpiQRCode == nil {
		return ""
	}
	return m.api.UploadURL(*s.UpiQRCode)
}

func (m *PaymentSettingsManager) Load(ctx context.Context) error {
	var settings models.PaymentSettings
	if _, err := m.api.Get(ctx, "/payment-settings", &settings); err != nil {
		return m.fail(err)
	}
	m.mu.Lock()
	m.settings = &settings
	m.mu.Unlock()
	return nil
}

func (m *PaymentSettingsManager) SetUpiID(ctx context.Context, upiID string) error {
	message, err := m.api.Post(ctx, "/payment-settings", Fields{"upi_id": upiID}, nil)
	if err != nil {
		return m.fail(err)
	}
	m.notify(message)
	return m.Load(ctx)
}

func (m *PaymentSettingsManager) SetQRCode(ctx context.Context, image File) error {
	message, err := m.api.Upload(ctx, "/payment-settings/qr-code", "qr_code", []File{image}, nil)
	if err != nil {
		return m.fail(err)
	}
	m.notify(message)
	return m.Load(ctx)
}

func (m *PaymentSettingsManager) notify(message string) {
	if m.notifier != nil {
		m.notifier.Notify(message, NotifySuccess)
	}
}

func (m *PaymentSettingsManager) fail(err error) error {
	if m.notifier != nil {
		m.notifier.Notify(UserMessage(err), NotifyError)
	}
	return err
}
