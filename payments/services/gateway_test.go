package services

import (
	"context"
	"strings"
	"testing"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewGatewayFallsBackToMock(t *testing.T) {
	config.UseLogger(zap.NewNop())

	assert.True(t, NewGateway("", false).IsMock())
	assert.False(t, NewGateway("SB-Mid-server-test", false).IsMock())
}

func TestMockGatewayOrders(t *testing.T) {
	g := NewMockGateway()
	bill := &models.Bill{Amount: decimal.NewFromInt(10000)}

	first, err := g.CreateOrder(context.Background(), bill, Customer{Name: "Asha"})
	require.NoError(t, err)
	second, err := g.CreateOrder(context.Background(), bill, Customer{Name: "Asha"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.OrderID, MockOrderPrefix))
	assert.Len(t, first.OrderID, len(MockOrderPrefix)+10)
	assert.NotEqual(t, first.OrderID, second.OrderID)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, Currency, first.Currency)
	assert.True(t, first.Mock)
}

func TestMockGatewayVerify(t *testing.T) {
	g := NewMockGateway()
	order, err := g.CreateOrder(context.Background(), &models.Bill{Amount: decimal.NewFromInt(750)}, Customer{})
	require.NoError(t, err)

	v, err := g.VerifyPayment(context.Background(), order.OrderID, "mock_abc")
	require.NoError(t, err)
	assert.True(t, v.Paid)
	assert.Equal(t, "mock_abc", v.TransactionID)
	assert.Equal(t, order.OrderID, v.OrderID)
	assert.True(t, v.GrossAmount.Equal(decimal.NewFromInt(750)))

	v, err = g.VerifyPayment(context.Background(), order.OrderID, "pay_123")
	require.NoError(t, err)
	assert.False(t, v.Paid)

	v, err = g.VerifyPayment(context.Background(), "order_mock_unknown", "mock_abc")
	require.NoError(t, err)
	assert.False(t, v.Paid)
	assert.Equal(t, "not_found", v.Status)

	assert.False(t, g.VerifyNotification(Notification{OrderID: order.OrderID}))
}

func TestNotificationAmount(t *testing.T) {
	assert.True(t, Notification{GrossAmount: "10000.00"}.Amount().Equal(decimal.NewFromInt(10000)))
	assert.True(t, Notification{GrossAmount: "ten"}.Amount().IsZero())
}

func TestMidtransNotificationSignature(t *testing.T) {
	const key = "server-key"
	g := NewMidtransGateway(key, false)
	n := Notification{
		OrderID:           "RENT-1a2b3c4d-1717000000",
		StatusCode:        "200",
		GrossAmount:       "10000.00",
		TransactionStatus: "settlement",
	}
	n.SignatureKey = NotificationSignature(n, key)
	assert.Len(t, n.SignatureKey, 128)
	assert.True(t, g.VerifyNotification(n))

	n.SignatureKey = strings.ToUpper(n.SignatureKey)
	assert.True(t, g.VerifyNotification(n))

	n.GrossAmount = "1.00"
	assert.False(t, g.VerifyNotification(n))
}

func TestNotificationPaid(t *testing.T) {
	cases := []struct {
		status, fraud string
		paid          bool
	}{
		{"settlement", "", true},
		{"capture", "accept", true},
		{"capture", "", true},
		{"capture", "challenge", false},
		{"pending", "", false},
		{"expire", "", false},
		{"deny", "", false},
	}
	for _, tc := range cases {
		n := Notification{TransactionStatus: tc.status, FraudStatus: tc.fraud}
		assert.Equal(t, tc.paid, n.Paid(), "%s/%s", tc.status, tc.fraud)
	}
}
