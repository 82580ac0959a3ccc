package services

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/shopspring/decimal"
)

const (
	Currency        = "INR"
	MockOrderPrefix = "order_mock_"
	MockTxnPrefix   = "mock_"
)

// Customer is who the gateway bills.
type Customer struct {
	Name  string
	Email string
	Phone string
}

type Order struct {
	OrderID     string          `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Token       string          `json:"token,omitempty"`
	RedirectURL string          `json:"redirect_url,omitempty"`
	Mock        bool            `json:"mock"`
}

// Verification is the gateway's answer about one transaction.
type Verification struct {
	Paid          bool
	OrderID       string
	TransactionID string
	GrossAmount   decimal.Decimal
	Status        string
}

// Notification is the asynchronous status callback the gateway posts to us.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	FraudStatus       string `json:"fraud_status"`
}

// Paid reports whether the callback settles the order.
func (n Notification) Paid() bool {
	return isSettled(n.TransactionStatus, n.FraudStatus)
}

// Amount parses gross_amount; an unparsable value reads as zero.
func (n Notification) Amount() decimal.Decimal {
	amount, err := decimal.NewFromString(n.GrossAmount)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

type Gateway interface {
	CreateOrder(ctx context.Context, bill *models.Bill, customer Customer) (*Order, error)
	VerifyPayment(ctx context.Context, orderID, transactionID string) (*Verification, error)
	VerifyNotification(n Notification) bool
	IsMock() bool
}

// MockGateway is used when no gateway key is configured. It remembers the
// orders it created and accepts any transaction id carrying the mock prefix.
type MockGateway struct {
	mu     sync.Mutex
	orders map[string]decimal.Decimal
}

func NewMockGateway() *MockGateway {
	return &MockGateway{orders: make(map[string]decimal.Decimal)}
}

func (*MockGateway) IsMock() bool { return true }

func (g *MockGateway) CreateOrder(_ context.Context, bill *models.Bill, _ Customer) (*Order, error) {
	suffix := make([]byte, 5)
	if _, err := rand.Read(suffix); err != nil {
		return nil, utils.InternalError("Failed to create payment order", err)
	}
	orderID := MockOrderPrefix + hex.EncodeToString(suffix)

	g.mu.Lock()
	g.orders[orderID] = bill.Amount
	g.mu.Unlock()

	return &Order{
		OrderID:  orderID,
		Amount:   bill.Amount,
		Currency: Currency,
		Mock:     true,
	}, nil
}

func (g *MockGateway) VerifyPayment(_ context.Context, orderID, transactionID string) (*Verification, error) {
	g.mu.Lock()
	amount, known := g.orders[orderID]
	g.mu.Unlock()

	v := &Verification{OrderID: orderID, TransactionID: transactionID, GrossAmount: amount}
	switch {
	case !known:
		v.Status = "not_found"
	case !strings.HasPrefix(transactionID, MockTxnPrefix):
		v.Status = "rejected"
	default:
		v.Paid = true
		v.Status = "settlement"
	}
	return v, nil
}

// VerifyNotification always fails: nothing posts callbacks in mock mode.
func (*MockGateway) VerifyNotification(Notification) bool { return false }

// NotificationSignature is SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
func NotificationSignature(n Notification, serverKey string) string {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func isSettled(transactionStatus, fraudStatus string) bool {
	switch transactionStatus {
	case "settlement":
		return true
	case "capture":
		return fraudStatus == "" || fraudStatus == "accept"
	}
	return false
}
