package client

import (
	"context"

	"github.com/muhammedanshif/rentEase/db/models"
)

type RentGenerationResult struct {
	BillingMonth string        `json:"billing_month"`
	Created      int           `json:"created"`
	Skipped      int           `json:"skipped"`
	Bills        []models.Bill `json:"bills"`
}

type Receipt struct {
	ReceiptNumber    string `json:"receipt_number"`
	BillID           string `json:"bill_id"`
	TenantName       string `json:"tenant_name"`
	RoomNumber       string `json:"room_number"`
	BuildingName     string `json:"building_name"`
	BillType         string `json:"bill_type"`
	BillTypeLabel    string `json:"bill_type_label"`
	Amount           string `json:"amount"`
	BillingMonth     string `json:"billing_month"`
	DueDate          string `json:"due_date"`
	PaidDate         string `json:"paid_date"`
	Status           string `json:"status"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

type PaymentOrder struct {
	OrderID     string `json:"order_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Mock        bool   `json:"mock"`
}

// BillsManager drives the payment lifecycle from the client side. The server
// decides every transition; a 409 means our copy is stale, so the list is
// reloaded before the error is returned.
type BillsManager struct {
	*Manager[models.Bill]
}

func NewBillsManager(api *APIClient, notifier *Notifier) *BillsManager {
	return &BillsManager{NewManager[models.Bill](api, notifier, Resource{
		Path:     "/bills",
		Label:    "Bill",
		Required: []string{"tenant_id", "bill_type", "amount", "billing_month", "due_date"},
	})}
}

// Update is refused locally: bills change only through their lifecycle
// operations, and the server has no edit route for them.
func (m *BillsManager) Update(context.Context, string, Fields) error {
	return m.fail(&ValidationError{Message: "Bills cannot be edited. Delete and recreate the bill instead."})
}

func (m *BillsManager) SetStatusFilter(status models.BillStatus) {
	m.SetQuery("status", string(status))
}

func (m *BillsManager) SetMonthFilter(month string) {
	m.SetQuery("billing_month", month)
}

func (m *BillsManager) find(id string) (models.Bill, bool) {
	for _, b := range m.Items() {
		if b.ID.String() == id {
			return b, true
		}
	}
	return models.Bill{}, false
}

func (m *BillsManager) transition(ctx context.Context, call func() (string, error)) error {
	err := m.mutation(ctx, call)
	if err != nil && KindOf(err) == KindConflict {
		_ = m.List(ctx)
	}
	return err
}

// GenerateRent bills every occupied room once for month ("" is the current month).
func (m *BillsManager) GenerateRent(ctx context.Context, month string) (*RentGenerationResult, error) {
	var result RentGenerationResult
	err := m.mutation(ctx, func() (string, error) {
		body := Fields{}
		if month != "" {
			body["billing_month"] = month
		}
		return m.api.Post(ctx, "/bills/generate-rent", body, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (m *BillsManager) UploadScreenshot(ctx context.Context, id string, screenshot File) error {
	return m.transition(ctx, func() (string, error) {
		return m.api.Upload(ctx, m.itemPath(id)+"/upload-screenshot", "screenshot", []File{screenshot}, nil)
	})
}

// Verify is the admin approval of uploaded proof.
func (m *BillsManager) Verify(ctx context.Context, id string) error {
	return m.transition(ctx, func() (string, error) {
		return m.api.Put(ctx, m.itemPath(id)+"/pay", nil, nil)
	})
}

func (m *BillsManager) RecordPayment(ctx context.Context, id, reference string) error {
	var body Fields
	if reference != "" {
		body = Fields{"payment_reference": reference}
	}
	return m.transition(ctx, func() (string, error) {
		return m.api.Put(ctx, m.itemPath(id)+"/record-payment", body, nil)
	})
}

// MarkPaid asks the admin to confirm a payment. It needs an uploaded screenshot.
func (m *BillsManager) MarkPaid(ctx context.Context, id string) error {
	if bill, ok := m.find(id); ok && (bill.PaymentScreenshot == nil || *bill.PaymentScreenshot == "") {
		return m.fail(&ValidationError{Field: "screenshot", Message: "Upload a payment screenshot first"})
	}
	return m.transition(ctx, func() (string, error) {
		return m.api.Put(ctx, m.itemPath(id)+"/mark-paid", nil, nil)
	})
}

func (m *BillsManager) Receipt(ctx context.Context, id string) (*Receipt, error) {
	var receipt Receipt
	if _, err := m.api.Get(ctx, m.itemPath(id)+"/receipt", &receipt); err != nil {
		if KindOf(err) == KindConflict {
			_ = m.List(ctx)
		}
		return nil, m.fail(err)
	}
	return &receipt, nil
}

func (m *BillsManager) ReceiptPDF(ctx context.Context, id string) ([]byte, error) {
	pdf, err := m.api.Download(ctx, m.itemPath(id)+"/receipt/pdf")
	if err != nil {
		return nil, m.fail(err)
	}
	return pdf, nil
}

func (m *BillsManager) Export(ctx context.Context) ([]byte, error) {
	sheet, err := m.api.Download(ctx, "/bills/export?"+m.exportQuery())
	if err != nil {
		return nil, m.fail(err)
	}
	return sheet, nil
}

func (m *BillsManager) exportQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.query.Encode()
}

// PayOnline opens a gateway order for the bill.
func (m *BillsManager) PayOnline(ctx context.Context, id string) (*PaymentOrder, error) {
	var order PaymentOrder
	if _, err := m.api.Post(ctx, "/payment/create-order", Fields{"bill_id": id}, &order); err != nil {
		return nil, m.fail(err)
	}
	return &order, nil
}

// ConfirmOnline settles the bill once the gateway reports the transaction.
func (m *BillsManager) ConfirmOnline(ctx context.Context, id, orderID, transactionID string) error {
	return m.transition(ctx, func() (string, error) {
		return m.api.Post(ctx, "/payment/verify", Fields{
			"bill_id":        id,
			"order_id":       orderID,
			"transaction_id": transactionID,
		}, nil)
	})
}
